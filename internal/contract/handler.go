package contract

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/talentra/hiring-management/internal"
	"github.com/talentra/hiring-management/internal/auth"
	"github.com/talentra/hiring-management/internal/candidate"
	"github.com/talentra/hiring-management/internal/transport"
	"github.com/talentra/hiring-management/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, jobID, creatorID string, dto CreateContractDTO) (*Contract, error)
	Get(ctx context.Context, id string) (*Contract, error)
	ListForJob(ctx context.Context, jobID string) ([]*Contract, error)
	Send(ctx context.Context, id string) (*Contract, error)
	Sign(ctx context.Context, id string, dto SignContractDTO) (*Contract, error)
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

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateContract: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID := chi.URLParam(r, "id")

	var dto CreateContractDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateContract: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(r.Context(), jobID, user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateContract: service error", "error", err, "job_id", jobID)

		var missingErr *MissingPlaceholdersError
		switch {
		case errors.As(err, &missingErr):
			fields := make([]internal.ValidationError, 0, len(missingErr.Keys))
			for _, key := range missingErr.Keys {
				fields = append(fields, internal.ValidationError{
					Field:   key,
					Message: "no value provided for placeholder " + key,
					Code:    string(internal.ErrCodeMissingPlaceholder),
				})
			}
			h.WriteAppError(w, internal.NewValidationError("contract template has unresolved placeholders", internal.ErrCodeInvalidTemplate).
				WithDetails(internal.ValidationErrors{Errors: fields}))
		case errors.Is(err, candidate.ErrCandidateNotFound):
			h.WriteError(w, http.StatusNotFound, "candidate not found")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	contracts, err := h.Service.ListForJob(r.Context(), jobID)
	if err != nil {
		h.Logger.Error("ListContracts: service error", "error", err, "job_id", jobID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list contracts")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"contracts": contracts,
	})
}

func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "contractID")

	c, err := h.Service.Get(r.Context(), contractID)
	if err != nil {
		h.Logger.Error("GetContract: service error", "error", err, "contract_id", contractID)
		h.WriteError(w, http.StatusNotFound, "contract not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) SendContract(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "contractID")

	c, err := h.Service.Send(r.Context(), contractID)
	if err != nil {
		h.Logger.Error("SendContract: service error", "error", err, "contract_id", contractID)

		switch {
		case errors.Is(err, ErrContractNotFound):
			h.WriteError(w, http.StatusNotFound, "contract not found")
		case errors.Is(err, ErrContractNotDraft):
			h.WriteError(w, http.StatusConflict, "contract has already been sent")
		case errors.Is(err, candidate.ErrCandidateNotFound):
			h.WriteError(w, http.StatusNotFound, "candidate not found")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to send contract")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// SignContract is the e-signature provider callback; it is not behind
// authentication.
func (h *Handler) SignContract(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "contractID")

	var dto SignContractDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SignContract: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Sign(r.Context(), contractID, dto)
	if err != nil {
		h.Logger.Error("SignContract: service error", "error", err, "contract_id", contractID)

		switch {
		case errors.Is(err, ErrContractNotFound):
			h.WriteError(w, http.StatusNotFound, "contract not found")
		case errors.Is(err, ErrContractNotSent):
			h.WriteError(w, http.StatusConflict, "contract is not awaiting signature")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}
