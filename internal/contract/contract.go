package contract

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Contract is an offer document generated for a candidate.
type Contract struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	JobID       string     `json:"job_id" gorm:"column:job_id;not null;index"`
	CandidateID string     `json:"candidate_id" gorm:"column:candidate_id;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Body        string     `json:"body" gorm:"not null"`
	Status      string     `json:"status" gorm:"default:draft"`
	SignerName  *string    `json:"signer_name,omitempty" gorm:"column:signer_name"`
	SentAt      *time.Time `json:"sent_at,omitempty" gorm:"column:sent_at"`
	SignedAt    *time.Time `json:"signed_at,omitempty" gorm:"column:signed_at"`
	CreatedBy   string     `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Contract) TableName() string {
	return "contracts"
}

const (
	StatusDraft  = "draft"
	StatusSent   = "sent"
	StatusSigned = "signed"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrContractNotDraft = errors.New("contract is not in draft status")
	ErrContractNotSent  = errors.New("contract is not in sent status")
)

// MissingPlaceholdersError reports template keys with no value.
type MissingPlaceholdersError struct {
	Keys []string
}

func (e *MissingPlaceholdersError) Error() string {
	return fmt.Sprintf("missing placeholder values: %s", strings.Join(e.Keys, ", "))
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// RenderTemplate substitutes {{placeholder}} markers with values. Every
// marker must have a value; unresolved markers fail with the full list of
// missing keys.
func RenderTemplate(template string, values map[string]string) (string, error) {
	missing := make(map[string]struct{})

	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := values[key]
		if !ok || value == "" {
			missing[key] = struct{}{}
			return match
		}
		return value
	})

	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for key := range missing {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return "", &MissingPlaceholdersError{Keys: keys}
	}

	return rendered, nil
}
