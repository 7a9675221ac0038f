package billing

import "errors"

// CreateCheckoutDTO is the request payload for starting a subscription
// checkout.
type CreateCheckoutDTO struct {
	Plan string `json:"plan"`
}

func (dto CreateCheckoutDTO) Validate() error {
	if dto.Plan == "" {
		return errors.New("plan is required")
	}
	if _, err := PlanPrice(dto.Plan); err != nil {
		return err
	}
	return nil
}

// CheckoutResponseDTO is returned to the client after a checkout is
// opened.
type CheckoutResponseDTO struct {
	SubscriptionID string `json:"subscription_id"`
	SessionID      string `json:"session_id"`
	CheckoutURL    string `json:"checkout_url"`
	Status         string `json:"status"`
}

// CallbackDTO is the billing provider's webhook payload.
type CallbackDTO struct {
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
}

func (dto CallbackDTO) Validate() error {
	if dto.ReferenceID == "" {
		return errors.New("reference_id is required")
	}
	if dto.Status == "" {
		return errors.New("status is required")
	}
	return nil
}
