package enums

import "fmt"

// StageStatus tracks the lifecycle of a shipment timeline stage.
type StageStatus string

const (
	StageStatusCompleted  StageStatus = "completed"
	StageStatusInProgress StageStatus = "in_progress"
	StageStatusPending    StageStatus = "pending"
)

var validStageStatuses = []StageStatus{
	StageStatusCompleted,
	StageStatusInProgress,
	StageStatusPending,
}

// String implements fmt.Stringer.
func (s StageStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StageStatus.
func (s StageStatus) IsValid() bool {
	for _, candidate := range validStageStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStageStatus converts raw input into a StageStatus.
func ParseStageStatus(value string) (StageStatus, error) {
	for _, candidate := range validStageStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stage status %q", value)
}
