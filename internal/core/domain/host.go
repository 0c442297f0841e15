package domain

// ElementRef identifies an element inside the host design document.
type ElementRef string

// AssetRef is a stable reference issued by the host asset store.
type AssetRef string

// SelectionEvent is one host selection change. An empty Ref means the user
// deselected.
type SelectionEvent struct {
	Ref ElementRef
}

// EnlargeRequest is one submission to the enlargement service.
type EnlargeRequest struct {
	Asset     *ImageAsset
	Direction Direction
	Factor    int
}

// UploadRequest registers a derivative image with the host asset store.
// ParentRef points at the element the derivative was produced from, and
// AIDisclosure marks the asset as machine generated.
type UploadRequest struct {
	URL          string
	ThumbnailURL string
	MimeType     string
	ParentRef    ElementRef
	AIDisclosure bool
}

// InsertPayload carries a new image element for the host design. The host
// places it at its default insertion point.
type InsertPayload struct {
	URL      string
	MimeType string
	Width    int
	Height   int
}

// AcceptanceResult tags how a successful result was committed to the design.
type AcceptanceResult string

const (
	AcceptanceAdded    AcceptanceResult = "added"
	AcceptanceReplaced AcceptanceResult = "replaced"
)
