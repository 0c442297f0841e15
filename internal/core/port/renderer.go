package port

import "reflectup/internal/core/domain"

type Renderer interface {
	// Composite applies the reflection parameters to the asset and returns the masked preview raster. The
	// transform is pure: identical inputs yield identical bytes.
	Composite(asset *domain.ImageAsset, params domain.ReflectionParameters) (*domain.ImageAsset, error)
}
