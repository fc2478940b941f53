package model

import (
	"time"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// AgentAction is an append-only audit record of one pipeline stage execution.
// It is never mutated after insert, so the trail can reconstruct a run's
// history even after the issue's current fields have changed.
type AgentAction struct {
	ID             types.ActionID
	IssueID        types.IssueID
	AgentType      types.AgentType
	Action         string
	Input          map[string]any
	Output         map[string]any
	Confidence     *float64 // 0.0 - 1.0, optional
	ProcessingTime float64  // seconds
	CreatedAt      time.Time
}
