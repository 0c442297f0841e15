package domain

// Provenance records where the active image came from. Exactly one value is
// active at a time and it decides which incoming sources may replace the
// image.
type Provenance string

const (
	ProvenanceUnknown      Provenance = "unknown"
	ProvenanceUploaded     Provenance = "uploaded"
	ProvenanceHostSelected Provenance = "host_selected"
)
