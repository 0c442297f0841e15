package domain

// Snapshot is a copy of the live session state taken under the session lock.
// Asynchronous continuations consult a fresh snapshot at the moment they
// resolve instead of trusting values captured when they were scheduled.
type Snapshot struct {
	Provenance Provenance
	SourceRef  ElementRef
	Asset      *ImageAsset
	Preview    *ImageAsset
	Params     ReflectionParameters
	Job        Job
	Options    []EnlargeOption
	Acceptance AcceptanceResult

	ProcessingNotice string
	AcceptanceNotice string
}

// CanSubmit reports whether the enlarge action is currently available: an
// image is active, it fits the size ceiling and no job is running.
func (s Snapshot) CanSubmit() bool {
	return s.Asset != nil && s.Asset.WithinSizeLimit() && s.Job.State != JobRunning
}
