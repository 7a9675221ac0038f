package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCandidateApplied      = "candidate.applied"
	EventTypeCandidateEvaluated    = "candidate.evaluated"
	EventTypeContractSigned        = "contract.signed"
	EventTypeSubscriptionActivated = "subscription.activated"
	EventTypeSubscriptionCancelled = "subscription.cancelled"
)

type CandidateAppliedEvent struct {
	BaseEvent
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
	Email       string `json:"email"`
}

func NewCandidateAppliedEvent(candidateID, jobID, email string) *CandidateAppliedEvent {
	return &CandidateAppliedEvent{
		BaseEvent:   newBase(EventTypeCandidateApplied),
		CandidateID: candidateID,
		JobID:       jobID,
		Email:       email,
	}
}

type CandidateEvaluatedEvent struct {
	BaseEvent
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
	Score       int    `json:"score"`
}

func NewCandidateEvaluatedEvent(candidateID, jobID string, score int) *CandidateEvaluatedEvent {
	return &CandidateEvaluatedEvent{
		BaseEvent:   newBase(EventTypeCandidateEvaluated),
		CandidateID: candidateID,
		JobID:       jobID,
		Score:       score,
	}
}

type ContractSignedEvent struct {
	BaseEvent
	ContractID  string `json:"contract_id"`
	JobID       string `json:"job_id"`
	CandidateID string `json:"candidate_id"`
	SignerName  string `json:"signer_name"`
}

func NewContractSignedEvent(contractID, jobID, candidateID, signerName string) *ContractSignedEvent {
	return &ContractSignedEvent{
		BaseEvent:   newBase(EventTypeContractSigned),
		ContractID:  contractID,
		JobID:       jobID,
		CandidateID: candidateID,
		SignerName:  signerName,
	}
}

type SubscriptionActivatedEvent struct {
	BaseEvent
	SubscriptionID string `json:"subscription_id"`
	CompanyID      string `json:"company_id"`
	Plan           string `json:"plan"`
}

func NewSubscriptionActivatedEvent(subscriptionID, companyID, plan string) *SubscriptionActivatedEvent {
	return &SubscriptionActivatedEvent{
		BaseEvent:      newBase(EventTypeSubscriptionActivated),
		SubscriptionID: subscriptionID,
		CompanyID:      companyID,
		Plan:           plan,
	}
}

type SubscriptionCancelledEvent struct {
	BaseEvent
	SubscriptionID string `json:"subscription_id"`
	CompanyID      string `json:"company_id"`
}

func NewSubscriptionCancelledEvent(subscriptionID, companyID string) *SubscriptionCancelledEvent {
	return &SubscriptionCancelledEvent{
		BaseEvent:      newBase(EventTypeSubscriptionCancelled),
		SubscriptionID: subscriptionID,
		CompanyID:      companyID,
	}
}

func newBase(eventType string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
	}
}
