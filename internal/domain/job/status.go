// Package job defines conversion job entities and services.
package job

import "errors"

// Status represents the lifecycle status of a conversion job.
type Status string

const (
	// Non-terminal states
	StatusPending    Status = "pending"    // Created, waiting for a worker
	StatusProcessing Status = "processing" // Claimed by a worker, pipeline running

	// Terminal states (no further transitions allowed)
	StatusCompleted Status = "completed" // Successfully finished
	StatusFailed    Status = "failed"    // Unrecoverable error
)

// ErrInvalidTransition is returned when a status transition is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsActive returns true if the status indicates pending or running work.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusProcessing
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ValidTransitions defines allowed status transitions.
var ValidTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	// Terminal states have no valid transitions
	StatusCompleted: {},
	StatusFailed:    {},
}

// CanTransitionTo checks if a transition from current status to target status is valid.
func (s Status) CanTransitionTo(target Status) bool {
	validTargets, ok := ValidTransitions[s]
	if !ok {
		return false
	}
	for _, t := range validTargets {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target status and returns error if invalid.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}

// Step identifies the pipeline stage a processing job is in.
type Step string

const (
	StepMetadata   Step = "metadata"   // Extracting point cloud metadata
	StepThumbnail  Step = "thumbnail"  // Generating thumbnail preview
	StepConversion Step = "conversion" // Running PotreeConverter
	StepUpload     Step = "upload"     // Uploading converted output
)

// String returns the string representation of the step.
func (s Step) String() string {
	return string(s)
}
