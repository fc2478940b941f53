package types

// AgentType tags an AgentAction audit record with the pipeline stage that
// produced it
type AgentType string

const (
	AgentTypeIntake         AgentType = "intake_agent"
	AgentTypeCategorization AgentType = "categorization_agent"
	AgentTypePriority       AgentType = "priority_agent"
	AgentTypeAssignment     AgentType = "assignment_agent"
)

// String returns the string representation of the agent type
func (a AgentType) String() string {
	return string(a)
}
