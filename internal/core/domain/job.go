package domain

import "github.com/gofrs/uuid/v5"

// JobState tracks one run of the enlargement workflow.
type JobState string

const (
	JobIdle      JobState = "idle"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// Job is the single enlargement job record. Token identifies one run; a
// completion whose token no longer matches the live record is stale and is
// dropped instead of applied.
type Job struct {
	State    JobState
	Progress int
	Token    uuid.UUID
	Result   *ImageAsset
	Failure  *ProcessingError
}
