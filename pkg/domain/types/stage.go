package types

import "github.com/m-mizutani/goerr/v2"

// Stage identifies one unit of the asynchronous triage pipeline. The set is
// closed: the dispatcher routes each stage to exactly one handler registered
// at construction time.
type Stage string

const (
	StageIntake         Stage = "intake"
	StageCategorization Stage = "categorization"
	StagePriority       Stage = "priority"
)

// AllStages returns all pipeline stages in their automatic chaining order
func AllStages() []Stage {
	return []Stage{
		StageIntake,
		StageCategorization,
		StagePriority,
	}
}

// IsValid checks if the stage is a known pipeline stage
func (s Stage) IsValid() bool {
	switch s {
	case StageIntake, StageCategorization, StagePriority:
		return true
	default:
		return false
	}
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// ParseStage parses a string into a Stage
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if !stage.IsValid() {
		return "", goerr.New("unknown pipeline stage", goerr.V("stage", s))
	}
	return stage, nil
}
