package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sanctum/internal/adapters/human"
	"sanctum/internal/core/translate"
	dErrors "sanctum/pkg/domain-errors"
)

// HumanHandler serves the name-oriented surface.
type HumanHandler struct {
	service *human.Service
	logger  *slog.Logger
}

func NewHumanHandler(service *human.Service, logger *slog.Logger) *HumanHandler {
	return &HumanHandler{service: service, logger: logger}
}

// Register mounts the human endpoints.
func (h *HumanHandler) Register(r chi.Router) {
	r.Post("/human/invoke", h.handleInvoke)
	r.Post("/human/promote", h.handlePromote)
	r.Get("/human/age", h.handleAge)
}

type humanSubstrateRequest struct {
	Name       string                   `json:"name"`
	Expression translate.ExpressionSpec `json:"expression"`
}

type humanLensRequest struct {
	Name       string                   `json:"name"`
	Projection translate.ProjectionSpec `json:"projection"`
}

type humanInvokeRequest struct {
	Substrate humanSubstrateRequest `json:"substrate"`
	Lens      humanLensRequest      `json:"lens"`
}

func (h *HumanHandler) handleInvoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req humanInvokeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sub, err := h.service.CreateSubstrate(ctx, req.Substrate.Name, req.Substrate.Expression)
	if err != nil {
		writeError(w, err)
		return
	}
	lens, err := h.service.CreateLens(ctx, req.Lens.Name, req.Lens.Projection)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.service.Invoke(ctx, sub, lens)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type humanPromoteRequest struct {
	Substrate         humanSubstrateRequest `json:"substrate"`
	AttributeValue    uint64                `json:"attribute_value"`
	ChangeDescription string                `json:"change_description"`
}

func (h *HumanHandler) handlePromote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req humanPromoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sub, err := h.service.CreateSubstrate(ctx, req.Substrate.Name, req.Substrate.Expression)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.service.Promote(ctx, sub, req.AttributeValue, req.ChangeDescription)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAge computes an age from two millisecond timestamps in query params.
// Nothing is stored; the subtraction happens per request.
func (h *HumanHandler) handleAge(w http.ResponseWriter, r *http.Request) {
	birth, err := strconv.ParseInt(r.URL.Query().Get("birth_ms"), 10, 64)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "birth_ms must be an integer"))
		return
	}
	now, err := strconv.ParseInt(r.URL.Query().Get("now_ms"), 10, 64)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "now_ms must be an integer"))
		return
	}
	age, err := human.CalculateAge(birth, now)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"age_ms": age})
}
