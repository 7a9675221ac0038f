package job

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/talentra/hiring-management/internal/auth"
	"github.com/talentra/hiring-management/internal/transport"
	"github.com/talentra/hiring-management/pkg/logger"
)

type ServiceAPI interface {
	CreateJob(ctx context.Context, creatorID, companyID string, dto CreateJobDTO) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	ListCompanyJobs(ctx context.Context, companyID string, limit, offset int) ([]*Job, error)
	UpdateStatus(ctx context.Context, id string, dto UpdateJobStatusDTO) (*Job, error)
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

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateJob: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateJobDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateJob: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.Service.CreateJob(r.Context(), user.ID, user.CompanyID, dto)
	if err != nil {
		h.Logger.Error("CreateJob: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.WriteJSON(w, http.StatusCreated, job)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	job, err := h.Service.GetJob(r.Context(), jobID)
	if err != nil {
		h.Logger.Error("GetJob: service error", "error", err, "job_id", jobID)
		h.WriteError(w, http.StatusNotFound, "job not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, job)
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListJobs: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := paginationParams(r)

	jobs, err := h.Service.ListCompanyJobs(r.Context(), user.CompanyID, limit, offset)
	if err != nil {
		h.Logger.Error("ListJobs: service error", "error", err, "company_id", user.CompanyID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":   jobs,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	var dto UpdateJobStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateJobStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.Service.UpdateStatus(r.Context(), jobID, dto)
	if err != nil {
		h.Logger.Error("UpdateJobStatus: service error", "error", err, "job_id", jobID)

		switch err {
		case ErrJobNotFound:
			h.WriteError(w, http.StatusNotFound, "job not found")
		case ErrInvalidJobStatus:
			h.WriteError(w, http.StatusBadRequest, "job cannot transition to requested status")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, job)
}

// paginationParams reads limit/offset query parameters with the defaults
// used across list endpoints.
func paginationParams(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

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

	return limit, offset
}
