// Package application contains the command router: the stateless dispatcher
// that turns inbound chat text into store/API calls and rendered reply text.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"apexbot/internal/domain/model"
	"apexbot/internal/domain/port/driven"
	"apexbot/internal/stats"
)

// Reply texts shared across handlers.
const (
	msgAddUsage       = "使い方：辞書 追加 <用語> <説明>（末尾に --s か --secret で非公開）"
	msgDeleteUsage    = "使い方：辞書 削除 <用語>"
	msgDeleteDenied   = "削除できませんでした（登録した本人のみ削除できます）"
	msgStoreDown      = "辞書を利用できません。しばらくしてからもう一度お試しください"
	msgListEmpty      = "該当する用語はありません"
	msgRotationFailed = "マップ情報を取得できませんでした。"
	privateSuffix     = "（非公開）"
)

// Router classifies inbound messages and renders replies. It is stateless
// across invocations; every message is handled independently with no session
// context.
type Router struct {
	store    driven.TermStore
	rotation driven.RotationClient
	sheet    *stats.Sheet
	pageSize int
	logger   *slog.Logger
}

// NewRouter creates a Router over its collaborators. pageSize is the number
// of dictionary lines per list page.
func NewRouter(store driven.TermStore, rotation driven.RotationClient, sheet *stats.Sheet, pageSize int, logger *slog.Logger) *Router {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Router{
		store:    store,
		rotation: rotation,
		sheet:    sheet,
		pageSize: pageSize,
		logger:   logger,
	}
}

// HandleText produces the reply for one inbound message. ok reports whether
// a reply should be sent at all: an unmatched lookup is deliberately silent.
// All errors are converted to user-facing text here; nothing propagates out
// of a single message's handling.
func (r *Router) HandleText(ctx context.Context, text, requester string) (reply string, ok bool) {
	cmd := parseCommand(text)
	commandsHandled.WithLabelValues(cmd.kind.String()).Inc()

	switch cmd.kind {
	case kindAdd:
		return r.handleAdd(ctx, cmd, requester), true
	case kindDelete:
		return r.handleDelete(ctx, cmd, requester), true
	case kindList:
		return r.handleList(ctx, cmd, requester), true
	case kindMapRotation:
		return r.handleMapRotation(ctx), true
	case kindLegend:
		return r.handleLegend(cmd), true
	case kindWeapon:
		return r.handleWeapon(cmd), true
	default:
		return r.handleLookup(ctx, cmd, requester)
	}
}

func (r *Router) handleAdd(ctx context.Context, cmd command, requester string) string {
	if cmd.malformed {
		return msgAddUsage
	}

	visibility := model.VisibilityPublic
	if cmd.private {
		visibility = model.VisibilityPrivate
	}

	if err := r.store.Upsert(ctx, cmd.term, cmd.content, requester, visibility); err != nil {
		r.logger.Error("dictionary upsert failed", "term", cmd.term, "error", err)
		return msgStoreDown
	}

	if cmd.private {
		return fmt.Sprintf("「%s」を非公開で登録しました", cmd.term)
	}
	return fmt.Sprintf("「%s」を登録しました", cmd.term)
}

func (r *Router) handleDelete(ctx context.Context, cmd command, requester string) string {
	if cmd.malformed {
		return msgDeleteUsage
	}

	deleted, err := r.store.Delete(ctx, cmd.term, requester)
	if err != nil {
		r.logger.Error("dictionary delete failed", "term", cmd.term, "error", err)
		return msgStoreDown
	}
	if !deleted {
		// Absent and not-owned render identically so the reply confirms
		// nothing about entries the requester cannot see.
		return msgDeleteDenied
	}
	return fmt.Sprintf("「%s」を削除しました", cmd.term)
}

func (r *Router) handleList(ctx context.Context, cmd command, requester string) string {
	entries, err := r.store.List(ctx, cmd.prefix, requester)
	if err != nil {
		r.logger.Error("dictionary list failed", "prefix", cmd.prefix, "error", err)
		return msgStoreDown
	}
	if len(entries) == 0 {
		return msgListEmpty
	}

	page, totalPages := clampPage(cmd.page, len(entries), r.pageSize)
	start := (page - 1) * r.pageSize
	end := min(start+r.pageSize, len(entries))

	var b strings.Builder
	fmt.Fprintf(&b, "📖 辞書 %d/%dページ", page, totalPages)
	for _, entry := range entries[start:end] {
		b.WriteString("\n")
		b.WriteString(renderEntry(entry, requester))
	}
	return b.String()
}

func (r *Router) handleLookup(ctx context.Context, cmd command, requester string) (string, bool) {
	entry, err := r.store.Lookup(ctx, cmd.term, requester)
	if err != nil {
		r.logger.Error("dictionary lookup failed", "term", cmd.term, "error", err)
		return msgStoreDown, true
	}
	if entry == nil {
		// Not a recognized command and not a visible term: stay silent
		// rather than echoing back every message in the room.
		return "", false
	}
	return renderEntry(*entry, requester), true
}

func (r *Router) handleMapRotation(ctx context.Context) string {
	rotation, err := r.rotation.Current(ctx)
	if err != nil {
		r.logger.Error("map rotation fetch failed", "error", err)
		return msgRotationFailed
	}
	return fmt.Sprintf("🗺 現在のマップ: %s\n⏳ 終了まで: %s\n➡️ 次のマップ: %s",
		rotation.CurrentMap, rotation.RemainingTimer, rotation.NextMap)
}

func (r *Router) handleLegend(cmd command) string {
	if cmd.malformed {
		return "使い方：?レジェンド <名前>"
	}
	l, ok := r.sheet.Legend(cmd.name)
	if !ok {
		return fmt.Sprintf("「%s」というレジェンドは見つかりませんでした", cmd.name)
	}
	return fmt.Sprintf("🧬 %s（%s）\n戦術: %s\nパッシブ: %s\nアルティメット: %s",
		l.Name, l.Class, l.Tactical, l.Passive, l.Ultimate)
}

func (r *Router) handleWeapon(cmd command) string {
	if cmd.malformed {
		return "使い方：?武器 <名前>"
	}
	w, ok := r.sheet.Weapon(cmd.name)
	if !ok {
		return fmt.Sprintf("「%s」という武器は見つかりませんでした", cmd.name)
	}
	return fmt.Sprintf("🔫 %s（%s / %s弾）\nダメージ 胴体: %d / 頭: %d",
		w.Name, w.Type, w.Ammo, w.BodyDamage, w.HeadDamage)
}

// renderEntry renders one dictionary line. List results only ever contain
// private entries the viewer owns, so the suffix doubles as an owner-only
// annotation.
func renderEntry(entry model.Entry, requester string) string {
	line := fmt.Sprintf("%s：%s", entry.Term, entry.Content)
	if entry.Visibility == model.VisibilityPrivate && entry.Owner == requester {
		line += privateSuffix
	}
	return line
}

// clampPage clamps a requested 1-based page into [1, ceil(count/pageSize)].
// Any out-of-range request, 0 included, lands on the last valid page.
func clampPage(page, count, pageSize int) (int, int) {
	totalPages := (count + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		page = totalPages
	}
	return page, totalPages
}
