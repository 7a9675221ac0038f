package candidate

import (
	"errors"
	"strings"
)

// ApplyDTO is the public application payload.
type ApplyDTO struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	ResumeURL *string `json:"resume_url,omitempty"`
	Summary   string  `json:"summary"`
}

func (dto ApplyDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.New("email is invalid")
	}
	if len(dto.Summary) > 5000 {
		return errors.New("summary must be less than 5000 characters")
	}
	return nil
}

// RejectCandidateDTO carries the optional note sent to the candidate.
type RejectCandidateDTO struct {
	Reason string `json:"reason,omitempty"`
}
