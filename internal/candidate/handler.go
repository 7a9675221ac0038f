package candidate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/talentra/hiring-management/internal/job"
	"github.com/talentra/hiring-management/internal/transport"
	"github.com/talentra/hiring-management/pkg/logger"
)

type ServiceAPI interface {
	Apply(ctx context.Context, jobID string, dto ApplyDTO) (*Candidate, error)
	GetCandidate(ctx context.Context, id string) (*Candidate, error)
	ListForJob(ctx context.Context, jobID string, limit, offset int) ([]*Candidate, error)
	Advance(ctx context.Context, id string) (*Candidate, error)
	Reject(ctx context.Context, id string, dto RejectCandidateDTO) (*Candidate, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Apply is the public application endpoint; no authentication.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	var dto ApplyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Apply: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cand, err := h.Service.Apply(r.Context(), jobID, dto)
	if err != nil {
		h.Logger.Error("Apply: service error", "error", err, "job_id", jobID)

		switch err {
		case job.ErrJobNotFound:
			h.WriteError(w, http.StatusNotFound, "job not found")
		case ErrJobNotAccepting:
			h.WriteError(w, http.StatusConflict, "job is not accepting applications")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, cand)
}

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	limit := 20
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	candidates, err := h.Service.ListForJob(r.Context(), jobID, limit, offset)
	if err != nil {
		h.Logger.Error("ListCandidates: service error", "error", err, "job_id", jobID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list candidates")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
		"limit":      limit,
		"offset":     offset,
	})
}

func (h *Handler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")

	cand, err := h.Service.GetCandidate(r.Context(), candidateID)
	if err != nil {
		h.Logger.Error("GetCandidate: service error", "error", err, "candidate_id", candidateID)
		h.WriteError(w, http.StatusNotFound, "candidate not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, cand)
}

func (h *Handler) AdvanceCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")

	cand, err := h.Service.Advance(r.Context(), candidateID)
	if err != nil {
		h.Logger.Error("AdvanceCandidate: service error", "error", err, "candidate_id", candidateID)

		switch err {
		case ErrCandidateNotFound:
			h.WriteError(w, http.StatusNotFound, "candidate not found")
		case ErrStageTerminal:
			h.WriteError(w, http.StatusBadRequest, "candidate cannot be advanced from current stage")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to advance candidate")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, cand)
}

func (h *Handler) RejectCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")

	var dto RejectCandidateDTO
	if r.Body != nil {
		// reason is optional; an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	cand, err := h.Service.Reject(r.Context(), candidateID, dto)
	if err != nil {
		h.Logger.Error("RejectCandidate: service error", "error", err, "candidate_id", candidateID)

		switch err {
		case ErrCandidateNotFound:
			h.WriteError(w, http.StatusNotFound, "candidate not found")
		case ErrStageTerminal:
			h.WriteError(w, http.StatusBadRequest, "candidate cannot be rejected from current stage")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to reject candidate")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, cand)
}
