package billing

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/talentra/hiring-management/internal"
	"github.com/talentra/hiring-management/internal/transport"
)

// CallbackVerifier checks the shared-secret header on provider callbacks.
type CallbackVerifier interface {
	VerifyCallback(r *http.Request) bool
}

// WebhookHandler receives billing provider callbacks.
type WebhookHandler struct {
	*transport.BaseHandler
	service  ServiceAPI
	verifier CallbackVerifier
	logger   *slog.Logger
}

func NewWebhookHandler(baseHandler *transport.BaseHandler, service ServiceAPI, verifier CallbackVerifier, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler: baseHandler,
		service:     service,
		verifier:    verifier,
		logger:      logger,
	}
}

func (h *WebhookHandler) HandleBillingCallback(w http.ResponseWriter, r *http.Request) {
	if h.verifier != nil && !h.verifier.VerifyCallback(r) {
		h.logger.Warn("billing callback with invalid token", "remote_addr", r.RemoteAddr)
		h.WriteError(w, http.StatusUnauthorized, "invalid callback token")
		return
	}

	var dto CallbackDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error("invalid billing callback request", "error", err)
		h.WriteAppError(w, internal.NewValidationError("invalid callback payload", internal.ErrCodeBadWebhookPayload).WithCause(err))
		return
	}

	h.logger.Info("received billing callback",
		"reference_id", dto.ReferenceID,
		"status", dto.Status)

	if err := h.service.HandleCallback(r.Context(), dto); err != nil {
		h.logger.Error("failed to process billing callback",
			"error", err,
			"reference_id", dto.ReferenceID)

		switch err {
		case ErrSubscriptionNotFound:
			h.WriteError(w, http.StatusNotFound, "subscription not found")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to process callback")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "callback processed successfully",
	})
}
