package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sanctum/internal/audit"
)

// AuditHandler exposes the trail for inspection.
type AuditHandler struct {
	publisher *audit.Publisher
	logger    *slog.Logger
}

func NewAuditHandler(publisher *audit.Publisher, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{publisher: publisher, logger: logger}
}

// Register mounts the audit endpoints.
func (h *AuditHandler) Register(r chi.Router) {
	r.Get("/audit/events", h.handleList)
}

func (h *AuditHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	events, err := h.publisher.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	type wireEvent struct {
		ID          string `json:"id"`
		Category    string `json:"category"`
		Timestamp   string `json:"timestamp"`
		Operation   string `json:"operation"`
		SubstrateID string `json:"substrate_id"`
		LensID      string `json:"lens_id"`
		Fabricated  bool   `json:"fabricated"`
		Source      string `json:"source"`
		RequestID   string `json:"request_id,omitempty"`
	}
	out := make([]wireEvent, 0, len(events))
	for _, e := range events {
		out = append(out, wireEvent{
			ID:          e.ID,
			Category:    string(e.Category),
			Timestamp:   e.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			Operation:   e.Operation,
			SubstrateID: e.SubstrateIDHex,
			LensID:      e.LensIDHex,
			Fabricated:  e.Fabricated,
			Source:      e.Source,
			RequestID:   e.RequestID,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}
