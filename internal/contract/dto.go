package contract

import "errors"

// CreateContractDTO creates a draft from a template and its placeholder
// values.
type CreateContractDTO struct {
	CandidateID string            `json:"candidate_id"`
	Title       string            `json:"title"`
	Template    string            `json:"template"`
	Values      map[string]string `json:"values"`
}

func (dto CreateContractDTO) Validate() error {
	if dto.CandidateID == "" {
		return errors.New("candidate_id is required")
	}
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.Template == "" {
		return errors.New("template is required")
	}
	return nil
}

// SignContractDTO is the payload of the e-signature callback.
type SignContractDTO struct {
	SignerName string `json:"signer_name"`
}

func (dto SignContractDTO) Validate() error {
	if dto.SignerName == "" {
		return errors.New("signer_name is required")
	}
	return nil
}
