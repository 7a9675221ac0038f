package interview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/talentra/hiring-management/internal/transport"
	"github.com/talentra/hiring-management/pkg/logger"
)

type ServiceAPI interface {
	Schedule(ctx context.Context, jobID string, dto ScheduleDTO) (*Interview, error)
	ListForJob(ctx context.Context, jobID string) ([]*Interview, error)
	Cancel(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, dto CompleteDTO) (*Interview, error)
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

func (h *Handler) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	var dto ScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ScheduleInterview: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	iv, err := h.Service.Schedule(r.Context(), jobID, dto)
	if err != nil {
		h.Logger.Error("ScheduleInterview: service error", "error", err, "job_id", jobID)

		switch err {
		case ErrInterviewConflict:
			h.WriteError(w, http.StatusConflict, "interviewer has an overlapping interview")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, iv)
}

func (h *Handler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	interviews, err := h.Service.ListForJob(r.Context(), jobID)
	if err != nil {
		h.Logger.Error("ListInterviews: service error", "error", err, "job_id", jobID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list interviews")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"interviews": interviews,
	})
}

func (h *Handler) CancelInterview(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "interviewID")

	if err := h.Service.Cancel(r.Context(), interviewID); err != nil {
		h.Logger.Error("CancelInterview: service error", "error", err, "interview_id", interviewID)

		switch err {
		case ErrInterviewNotFound:
			h.WriteError(w, http.StatusNotFound, "interview not found")
		case ErrNotScheduled:
			h.WriteError(w, http.StatusBadRequest, "interview cannot be cancelled in current status")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to cancel interview")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) CompleteInterview(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "interviewID")

	var dto CompleteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CompleteInterview: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	iv, err := h.Service.Complete(r.Context(), interviewID, dto)
	if err != nil {
		h.Logger.Error("CompleteInterview: service error", "error", err, "interview_id", interviewID)

		switch err {
		case ErrInterviewNotFound:
			h.WriteError(w, http.StatusNotFound, "interview not found")
		case ErrNotScheduled:
			h.WriteError(w, http.StatusBadRequest, "interview cannot be completed in current status")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, iv)
}
