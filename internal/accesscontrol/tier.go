package accesscontrol

import (
	"fmt"
)

// Tier is an ordered access level granted to a user for a specific job.
// The ordering is fixed: viewer < interviewer < manager < admin. TierOwner is
// an internal sentinel returned when access comes from job ownership or a
// company admin role rather than an explicit grant; it satisfies every
// requirement and is never stored.
type Tier string

const (
	TierViewer      Tier = "viewer"
	TierInterviewer Tier = "interviewer"
	TierManager     Tier = "manager"
	TierAdmin       Tier = "admin"
	TierOwner       Tier = "owner"
)

var tierRank = map[Tier]int{
	TierViewer:      1,
	TierInterviewer: 2,
	TierManager:     3,
	TierAdmin:       4,
	TierOwner:       5,
}

// ParseTier validates a wire-level tier string. TierOwner is not accepted:
// it cannot be granted, only resolved.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	switch t {
	case TierViewer, TierInterviewer, TierManager, TierAdmin:
		return t, nil
	}
	return "", fmt.Errorf("unknown permission tier %q", s)
}

// AtLeast reports whether t meets or exceeds required in the fixed ordering.
func (t Tier) AtLeast(required Tier) bool {
	return tierRank[t] >= tierRank[required]
}

func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

func (t Tier) String() string {
	return string(t)
}
