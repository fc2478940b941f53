package types

import "github.com/m-mizutani/goerr/v2"

// Priority represents the urgency of an issue on a 1-4 scale
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

// IsValid checks if the priority is within the 1-4 range
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// String returns a human readable label for the priority
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParsePriority converts a numeric level into a Priority
func ParsePriority(level int) (Priority, error) {
	p := Priority(level)
	if !p.IsValid() {
		return 0, goerr.New("priority must be between 1 and 4", goerr.V("level", level))
	}
	return p, nil
}
