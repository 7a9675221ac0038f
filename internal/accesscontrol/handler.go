package accesscontrol

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/talentra/hiring-management/internal/auth"
	"github.com/talentra/hiring-management/internal/transport"
	"github.com/talentra/hiring-management/pkg/logger"
)

type GrantDTO struct {
	UserID string `json:"user_id"`
	Tier   string `json:"tier"`
}

func (d GrantDTO) Validate() error {
	if d.UserID == "" {
		return errors.New("user_id is required")
	}
	if _, err := ParseTier(d.Tier); err != nil {
		return err
	}
	return nil
}

type GrantResponse struct {
	JobID     string `json:"job_id"`
	UserID    string `json:"user_id"`
	Tier      string `json:"tier"`
	GrantedBy string `json:"granted_by"`
}

type Handler struct {
	*transport.BaseHandler
	Grants *GrantService
}

func NewHandler(grants *GrantService) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Grants:      grants,
	}
}

// GrantPermission handles POST /jobs/{id}/permissions.
func (h *Handler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID := chi.URLParam(r, "id")

	var dto GrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	grant, err := h.Grants.Grant(r.Context(), user.ID, jobID, dto.UserID, Tier(dto.Tier))
	if err != nil {
		h.Logger.Error("GrantPermission: service error", "error", err, "job_id", jobID, "actor_id", user.ID)
		h.writeGrantError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GrantResponse{
		JobID:     grant.JobID,
		UserID:    grant.UserID,
		Tier:      string(grant.Tier),
		GrantedBy: grant.GrantedBy,
	})
}

// RevokePermission handles DELETE /jobs/{id}/permissions/{userID}.
func (h *Handler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID := chi.URLParam(r, "id")
	granteeID := chi.URLParam(r, "userID")

	if err := h.Grants.Revoke(r.Context(), user.ID, jobID, granteeID); err != nil {
		h.Logger.Error("RevokePermission: service error", "error", err, "job_id", jobID, "actor_id", user.ID)
		h.writeGrantError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPermissions handles GET /jobs/{id}/permissions.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID := chi.URLParam(r, "id")

	grants, err := h.Grants.ListForJob(r.Context(), user.ID, jobID)
	if err != nil {
		h.writeGrantError(w, err)
		return
	}

	out := make([]GrantResponse, len(grants))
	for i, g := range grants {
		out[i] = GrantResponse{
			JobID:     g.JobID,
			UserID:    g.UserID,
			Tier:      string(g.Tier),
			GrantedBy: g.GrantedBy,
		}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"permissions": out})
}

func (h *Handler) writeGrantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGrantDenied):
		h.WriteError(w, http.StatusForbidden, "not allowed to manage permissions for this job")
	case errors.Is(err, ErrCrossCompany):
		h.WriteError(w, http.StatusForbidden, "user does not belong to this company")
	case errors.Is(err, ErrGrantMissing):
		h.WriteError(w, http.StatusNotFound, "grant not found")
	case errors.Is(err, ErrInvalidID):
		h.WriteError(w, http.StatusBadRequest, "invalid identifier")
	default:
		h.WriteError(w, http.StatusInternalServerError, "failed to update permissions")
	}
}
