package driven

import (
	"context"

	"apexbot/internal/domain/model"
)

// TermStore defines the driven port for dictionary entry persistence.
// All visibility and ownership checks happen inside the store so that no
// caller can observe a private entry it does not own.
type TermStore interface {
	// Upsert atomically inserts or replaces the entry for the exact term.
	// A replace overwrites content, owner and visibility together and assigns
	// a fresh creation timestamp. The previous owner is not consulted.
	// term and content must be non-empty; callers trim at the boundary.
	Upsert(ctx context.Context, term, content, owner string, visibility model.Visibility) error

	// Delete removes the entry for term and returns true iff a row existed
	// and its owner equals requester. Any other case (absent term, owner
	// mismatch) returns false with the store unchanged; the two are
	// deliberately indistinguishable to the caller.
	Delete(ctx context.Context, term, requester string) (bool, error)

	// Lookup returns the entry for term if it is public, or private and owned
	// by requester. Otherwise it returns (nil, nil); a hidden entry is
	// indistinguishable from a missing one.
	Lookup(ctx context.Context, term, requester string) (*model.Entry, error)

	// List returns all entries visible to requester, optionally restricted to
	// terms starting with prefix (empty prefix means no restriction), ordered
	// by term ascending. The result is fully materialized; pagination is a
	// caller concern.
	List(ctx context.Context, prefix, requester string) ([]model.Entry, error)
}
