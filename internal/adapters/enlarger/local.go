package enlarger

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"reflectup/internal/adapters/raster"
	"reflectup/internal/core/domain"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// Local enlarges in process with Catmull-Rom resampling. It serves offline
// development behind the same port as the remote service. The factor
// multiplies the pixel count, so each edge scales by its square root.
type Local struct {
	interpolator xdraw.Interpolator
}

func NewLocal() *Local {
	return &Local{interpolator: xdraw.CatmullRom}
}

func (l *Local) Enlarge(ctx context.Context, req domain.EnlargeRequest) (*domain.ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.ProcessingError{Kind: domain.ConnectionError, Err: err}
	}

	src, err := raster.Decode(req.Asset)
	if err != nil {
		return nil, err
	}

	scale := math.Sqrt(float64(req.Factor))
	bounds := src.Bounds()
	w := int(math.Round(float64(bounds.Dx()) * scale))
	h := int(math.Round(float64(bounds.Dy()) * scale))

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	l.interpolator.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.PNG); err != nil {
		return nil, fmt.Errorf("error encoding enlarged image: %w", err)
	}

	log.Debug().Int("factor", req.Factor).Int("width", w).Int("height", h).
		Msg("image enlarged locally")

	return &domain.ImageAsset{
		Data:   buf.Bytes(),
		Width:  w,
		Height: h,
		MIME:   "image/png",
		Name:   enlargedName(req.Asset.Name),
	}, nil
}
