package httptransport

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sanctum/internal/adapters/machine"
	"sanctum/internal/adapters/models"
	"sanctum/internal/core/translate"
	dErrors "sanctum/pkg/domain-errors"
)

// MachineHandler serves the program-to-program surface. Binary payloads ride
// inside JSON as base64 so the whole surface stays on one content type.
type MachineHandler struct {
	service *machine.Service
	logger  *slog.Logger
}

func NewMachineHandler(service *machine.Service, logger *slog.Logger) *MachineHandler {
	return &MachineHandler{service: service, logger: logger}
}

// Register mounts the machine endpoints.
func (h *MachineHandler) Register(r chi.Router) {
	r.Post("/machine/invoke-batch", h.handleInvokeBatch)
	r.Post("/machine/substrates/wire", h.handleSubstrateFromWire)
	r.Post("/machine/manifolds", h.handleManifold)
	r.Post("/machine/ingest", h.handleIngest)
}

type machineBatchItem struct {
	Identity   uint64                   `json:"identity"`
	Expression translate.ExpressionSpec `json:"expression"`
	LensID     uint64                   `json:"lens_id"`
	Projection translate.ProjectionSpec `json:"projection"`
}

type machineBatchRequest struct {
	Requests []machineBatchItem `json:"requests"`
}

func (h *MachineHandler) handleInvokeBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req machineBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	batch := make([]machine.BatchRequest, 0, len(req.Requests))
	for _, item := range req.Requests {
		sub, err := h.service.CreateSubstrate(ctx, item.Identity, item.Expression)
		if err != nil {
			writeError(w, err)
			return
		}
		lens, err := h.service.CreateLens(ctx, item.LensID, item.Projection)
		if err != nil {
			writeError(w, err)
			return
		}
		batch = append(batch, machine.BatchRequest{Substrate: sub, Lens: lens})
	}

	responses, err := h.service.InvokeBatch(ctx, batch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.InvocationResponse{"results": responses})
}

type wireRequest struct {
	// Data is the fixed-layout substrate wire form, base64 encoded.
	Data string `json:"data"`
}

func (h *MachineHandler) handleSubstrateFromWire(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req wireRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "data must be base64"))
		return
	}
	sub, err := h.service.CreateSubstrateFromWire(ctx, raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint64{"identity": uint64(sub.ID())})
}

type manifoldRequest struct {
	SubstrateID uint64  `json:"substrate_id"`
	Dimension   int     `json:"dimension"`
	Form        float64 `json:"form"`
}

func (h *MachineHandler) handleManifold(w http.ResponseWriter, r *http.Request) {
	var req manifoldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	manifold, err := h.service.BuildManifold(req.SubstrateID, req.Dimension, req.Form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, manifold)
}

type ingestRequest struct {
	// Data is the raw payload, base64 encoded.
	Data string `json:"data"`
	// Checksum is the payload's BLAKE2b-256 digest, base64 encoded.
	Checksum string `json:"checksum"`
}

func (h *MachineHandler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "data must be base64"))
		return
	}
	checksum, err := base64.StdEncoding.DecodeString(req.Checksum)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "checksum must be base64"))
		return
	}
	sub, err := h.service.IngestBytes(ctx, data, checksum)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint64{"identity": uint64(sub.ID())})
}
