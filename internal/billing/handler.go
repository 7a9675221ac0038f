package billing

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/talentra/hiring-management/internal/auth"
	"github.com/talentra/hiring-management/internal/transport"
	"github.com/talentra/hiring-management/pkg/logger"
)

type ServiceAPI interface {
	CreateCheckout(ctx context.Context, companyID, actorRole string, dto CreateCheckoutDTO) (*CheckoutResponseDTO, error)
	GetSubscription(ctx context.Context, companyID string) (*Subscription, error)
	HandleCallback(ctx context.Context, dto CallbackDTO) error
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

func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateCheckout: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCheckoutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCheckout: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkout, err := h.Service.CreateCheckout(r.Context(), user.CompanyID, user.Role, dto)
	if err != nil {
		h.Logger.Error("CreateCheckout: service error", "error", err, "company_id", user.CompanyID)

		switch err {
		case ErrAdminRequired:
			h.WriteError(w, http.StatusForbidden, "company admin role required")
		case ErrAlreadyActive:
			h.WriteError(w, http.StatusConflict, "subscription is already active")
		case ErrUnknownPlan:
			h.WriteError(w, http.StatusBadRequest, "unknown plan")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, checkout)
}

func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetSubscription: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sub, err := h.Service.GetSubscription(r.Context(), user.CompanyID)
	if err != nil {
		h.Logger.Error("GetSubscription: service error", "error", err, "company_id", user.CompanyID)
		h.WriteError(w, http.StatusNotFound, "no subscription found")
		return
	}

	h.WriteJSON(w, http.StatusOK, sub)
}
