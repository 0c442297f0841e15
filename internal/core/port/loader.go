package port

import "reflectup/internal/core/domain"

type Loader interface {
	// Load sniffs the MIME type of encoded image bytes, decodes them and returns an ImageAsset carrying the
	// original bytes plus the probed dimensions.
	Load(name string, data []byte) (*domain.ImageAsset, error)
	// Thumbnail produces a JPEG thumbnail of the asset fitted within the given bounds, preserving aspect ratio.
	Thumbnail(asset *domain.ImageAsset, maxWidth, maxHeight int) (*domain.ImageAsset, error)
}
