package interview

import (
	"errors"
	"time"
)

// ScheduleDTO is the request payload for scheduling an interview.
type ScheduleDTO struct {
	CandidateID   string    `json:"candidate_id"`
	InterviewerID string    `json:"interviewer_id"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	Notes         string    `json:"notes"`
}

func (dto ScheduleDTO) Validate() error {
	if dto.CandidateID == "" {
		return errors.New("candidate_id is required")
	}
	if dto.InterviewerID == "" {
		return errors.New("interviewer_id is required")
	}
	if dto.StartsAt.IsZero() || dto.EndsAt.IsZero() {
		return errors.New("starts_at and ends_at are required")
	}
	if !dto.EndsAt.After(dto.StartsAt) {
		return errors.New("ends_at must be after starts_at")
	}
	if dto.StartsAt.Before(time.Now()) {
		return errors.New("interview cannot be scheduled in the past")
	}
	return nil
}

// CompleteDTO records the interviewer's recommendation.
type CompleteDTO struct {
	Outcome string `json:"outcome"`
	Notes   string `json:"notes"`
}

func (dto CompleteDTO) Validate() error {
	switch dto.Outcome {
	case OutcomeAdvance, OutcomeReject, OutcomeHold:
		return nil
	default:
		return errors.New("outcome must be one of 'advance', 'reject' or 'hold'")
	}
}
