package port

import (
	"context"

	"reflectup/internal/core/domain"
)

type Enlarger interface {
	// Enlarge submits one asset for enlargement and blocks until the service responds. Failures are returned
	// as *domain.ProcessingError classified per the response.
	Enlarge(ctx context.Context, req domain.EnlargeRequest) (*domain.ImageAsset, error)
}
