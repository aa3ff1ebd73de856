package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"apexbot/internal/domain/model"
	"apexbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TermStore = (*TermRepo)(nil)

// TermRepo is the SQLite implementation of the TermStore port interface.
// Visibility filtering happens in SQL so a private entry never crosses the
// adapter boundary toward a non-owner.
type TermRepo struct {
	db *DB
}

// NewTermRepo creates a new TermRepo backed by the given DB.
func NewTermRepo(db *DB) *TermRepo {
	return &TermRepo{db: db}
}

// Upsert inserts or replaces the entry for the exact term. The single
// INSERT OR REPLACE below is the whole overwrite policy: any user may replace
// any existing term, matching the historical behavior. Restricting replaces
// to the current owner would be a guarded select added here and nowhere else.
func (r *TermRepo) Upsert(ctx context.Context, term, content, owner string, visibility model.Visibility) error {
	if term == "" || content == "" {
		return errors.New("upsert: term and content must be non-empty")
	}

	private := 0
	if visibility == model.VisibilityPrivate {
		private = 1
	}

	const query = `INSERT OR REPLACE INTO dictionary (term, content, owner, private, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`
	_, err := r.db.Writer.ExecContext(ctx, query, term, content, owner, private)
	if err != nil {
		return fmt.Errorf("upsert term %q: %w", term, err)
	}
	return nil
}

// Delete removes the entry for term iff it is owned by requester. The owner
// check is part of the DELETE predicate, so "absent" and "not yours" both
// come back as zero rows affected.
func (r *TermRepo) Delete(ctx context.Context, term, requester string) (bool, error) {
	const query = `DELETE FROM dictionary WHERE term = ? AND owner = ?`
	result, err := r.db.Writer.ExecContext(ctx, query, term, requester)
	if err != nil {
		return false, fmt.Errorf("delete term %q: %w", term, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}

	return rows > 0, nil
}

// Lookup returns the entry for term when it is public or owned by requester.
// Returns (nil, nil) otherwise; a hidden entry is indistinguishable from a
// missing one.
func (r *TermRepo) Lookup(ctx context.Context, term, requester string) (*model.Entry, error) {
	const query = `SELECT term, content, owner, private, created_at FROM dictionary WHERE term = ? AND (private = 0 OR owner = ?)`

	entry, err := scanEntry(r.db.Reader.QueryRowContext(ctx, query, term, requester))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup term %q: %w", term, err)
	}
	return entry, nil
}

// List returns all entries visible to requester ordered by term ascending,
// optionally restricted to terms starting with prefix.
func (r *TermRepo) List(ctx context.Context, prefix, requester string) ([]model.Entry, error) {
	query := `SELECT term, content, owner, private, created_at FROM dictionary WHERE (private = 0 OR owner = ?)`
	args := []any{requester}

	if prefix != "" {
		// substr instead of LIKE: case-sensitive, and the prefix needs no
		// metacharacter escaping. substr counts characters, not bytes.
		query += ` AND substr(term, 1, ?) = ?`
		args = append(args, utf8.RuneCountInString(prefix), prefix)
	}
	query += ` ORDER BY term ASC`

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate terms: %w", err)
	}

	return entries, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanEntry.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*model.Entry, error) {
	var entry model.Entry
	var private int
	var createdAt string

	if err := s.Scan(&entry.Term, &entry.Content, &entry.Owner, &private, &createdAt); err != nil {
		return nil, err
	}

	entry.Visibility = model.VisibilityPublic
	if private != 0 {
		entry.Visibility = model.VisibilityPrivate
	}

	var err error
	entry.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &entry, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}
