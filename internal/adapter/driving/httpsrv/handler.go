// Package httpsrv is the driving HTTP adapter: it terminates the LINE
// webhook, verifies signatures, and fans inbound events out to the command
// router.
package httpsrv

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"apexbot/internal/domain/port/driven"
)

// eventTimeout bounds the handling of a single inbound event, storage and
// reply call included.
const eventTimeout = 10 * time.Second

// TextRouter is the slice of the command router the webhook needs.
type TextRouter interface {
	HandleText(ctx context.Context, text, requester string) (reply string, ok bool)
}

// Handler terminates the LINE webhook endpoint.
type Handler struct {
	router        TextRouter
	replier       driven.Replier
	channelSecret string
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(router TextRouter, replier driven.Replier, channelSecret string, logger *slog.Logger) *Handler {
	return &Handler{
		router:        router,
		replier:       replier,
		channelSecret: channelSecret,
		logger:        logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /callback", h.Callback)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Callback handles the LINE webhook. The platform only needs a 200 to accept
// delivery; events are processed concurrently after the response, and a
// failure in one event never affects another.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("webhook signature rejected")
			writeError(w, http.StatusBadRequest, "invalid signature")
			return
		}
		h.logger.Error("webhook parse failed", "error", err)
		writeError(w, http.StatusBadRequest, "malformed webhook body")
		return
	}

	for _, event := range cb.Events {
		go h.handleEvent(event)
	}

	w.WriteHeader(http.StatusOK)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: time.Now().UTC().Format(time.RFC3339)})
}

// handleEvent processes one inbound event in isolation. Non-text events are
// ignored; router output decides whether a reply is sent at all.
func (h *Handler) handleEvent(event webhook.EventInterface) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	msgEvent, ok := event.(webhook.MessageEvent)
	if !ok {
		return
	}
	text, ok := msgEvent.Message.(webhook.TextMessageContent)
	if !ok {
		return
	}

	requester := sourceUserID(msgEvent.Source)
	reply, ok := h.router.HandleText(ctx, text.Text, requester)
	if !ok {
		return
	}

	if err := h.replier.Reply(ctx, msgEvent.ReplyToken, reply); err != nil {
		replyFailures.Inc()
		h.logger.Error("reply failed", "error", err)
	}
}

// sourceUserID extracts the sending user's ID from any source shape. LINE
// includes the acting user's ID for group and room sources as well.
func sourceUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	default:
		return ""
	}
}
