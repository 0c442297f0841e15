package port

import (
	"context"

	"reflectup/internal/core/domain"
)

type SelectionSource interface {
	// Subscribe registers interest in host selection changes. Events are delivered on the returned channel
	// until ctx is done.
	Subscribe(ctx context.Context) (<-chan domain.SelectionEvent, error)
	// Current returns the element the host has selected right now, or an empty ref when nothing is selected.
	Current(ctx context.Context) (domain.ElementRef, error)
	// Resolve fetches the image bytes behind an element reference and returns a file name hint alongside them.
	Resolve(ctx context.Context, ref domain.ElementRef) (string, []byte, error)
}

type AssetStore interface {
	// Upload registers an image with the host asset store and returns its stable reference.
	Upload(ctx context.Context, req domain.UploadRequest) (domain.AssetRef, error)
}

type Design interface {
	// ReplaceImage swaps the element's asset reference and persists the containing draft in one step.
	ReplaceImage(ctx context.Context, element domain.ElementRef, asset domain.AssetRef) error
	// AddImage inserts a new image element at the host's default insertion point.
	AddImage(ctx context.Context, payload domain.InsertPayload) error
}

type Notifier interface {
	// Progress reports enlargement progress as a percentage from 0 to 100. Implementations must not call
	// back into the session.
	Progress(percent int)
	// NotifyProcessingError surfaces a dismissible enlargement failure to the user.
	NotifyProcessingError(kind domain.ErrorKind, message string)
	// NotifyAcceptanceError surfaces a dismissible commit failure to the user.
	NotifyAcceptanceError(message string)
}
