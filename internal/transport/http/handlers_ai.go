package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sanctum/internal/adapters/ai"
	"sanctum/internal/core/translate"
	"sanctum/internal/platform/metrics"
)

// AIHandler serves the untrusted automated surface. Routes behind it are
// rate limited; every derivation carries an audit record.
type AIHandler struct {
	service *ai.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewAIHandler(service *ai.Service, logger *slog.Logger, m *metrics.Metrics) *AIHandler {
	return &AIHandler{service: service, logger: logger, metrics: m}
}

// Register mounts the AI endpoints.
func (h *AIHandler) Register(r chi.Router) {
	r.Post("/ai/instructions", h.handleInstruction)
	r.Post("/ai/verify-claim", h.handleVerifyClaim)
	r.Post("/ai/embedding", h.handleEmbedding)
}

func (h *AIHandler) handleInstruction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var inst ai.Instruction
	if err := decodeJSON(r, &inst); err != nil {
		writeError(w, err)
		return
	}
	outcome, err := h.service.Execute(ctx, inst)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

type verifyClaimRequest struct {
	SubstrateIdentity uint64                    `json:"substrate_identity"`
	Expression        *translate.ExpressionSpec `json:"expression,omitempty"`
	LensID            uint64                    `json:"lens_id"`
	Projection        *translate.ProjectionSpec `json:"projection,omitempty"`
	Claimed           uint64                    `json:"claimed"`
}

type verifyClaimResponse struct {
	Valid  bool   `json:"valid"`
	Actual uint64 `json:"actual"`
}

func (h *AIHandler) handleVerifyClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req verifyClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// The same per-op defaults as instruction dispatch: a constant expression
	// carrying the identity, and the pass-through projection.
	params := map[string]any{
		"substrate_identity": req.SubstrateIdentity,
		"lens_id":            req.LensID,
	}
	if req.Expression != nil {
		params["expression_type"] = string(req.Expression.Kind)
		params["expression_params"] = *req.Expression
	}
	if req.Projection != nil {
		params["projection_type"] = string(req.Projection.Kind)
		params["projection_params"] = *req.Projection
	}

	sub, lens, err := h.service.BuildPair(req.SubstrateIdentity, req.LensID, params)
	if err != nil {
		writeError(w, err)
		return
	}
	valid, actual, err := h.service.VerifyClaim(ctx, sub, lens, req.Claimed)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveFabricationCheck(valid)
	}
	writeJSON(w, http.StatusOK, verifyClaimResponse{Valid: valid, Actual: actual})
}

type embeddingRequest struct {
	Vector []float64 `json:"vector"`
}

func (h *AIHandler) handleEmbedding(w http.ResponseWriter, r *http.Request) {
	var req embeddingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	identity, err := ai.EmbeddingToIdentity(req.Vector)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"identity": identity})
}
