package message

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
	Post(ctx context.Context, jobID, authorID string, dto PostMessageDTO) (*Message, error)
	ListForJob(ctx context.Context, jobID string, limit, offset int) ([]*Message, error)
	MarkRead(ctx context.Context, jobID, userID string) (int64, error)
	UnreadCount(ctx context.Context, jobID, userID string) (int64, error)
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

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("PostMessage: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID := chi.URLParam(r, "id")

	var dto PostMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("PostMessage: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.Post(r.Context(), jobID, user.ID, dto)
	if err != nil {
		h.Logger.Error("PostMessage: service error", "error", err, "job_id", jobID)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListMessages: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID := chi.URLParam(r, "id")

	limit := 50
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	messages, err := h.Service.ListForJob(r.Context(), jobID, limit, offset)
	if err != nil {
		h.Logger.Error("ListMessages: service error", "error", err, "job_id", jobID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	unread, err := h.Service.UnreadCount(r.Context(), jobID, user.ID)
	if err != nil {
		h.Logger.Error("ListMessages: unread count error", "error", err, "job_id", jobID)
		unread = 0
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"messages":     messages,
		"unread_count": unread,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *Handler) MarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("MarkMessagesRead: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID := chi.URLParam(r, "id")

	marked, err := h.Service.MarkRead(r.Context(), jobID, user.ID)
	if err != nil {
		h.Logger.Error("MarkMessagesRead: service error", "error", err, "job_id", jobID)
		h.WriteError(w, http.StatusInternalServerError, "failed to mark messages read")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"marked_read": marked,
	})
}
