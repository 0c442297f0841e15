package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"reflectup/internal/adapters/raster"
	"reflectup/internal/core/domain"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

const DefaultCanvasWidth = 960
const DefaultCanvasHeight = 720

// Reflection composites a directional alpha-gradient fade over a source
// raster. The transform is pure: the same source and parameters always
// produce the same bytes.
type Reflection struct {
	width  int
	height int
}

func NewReflection(width, height int) (*Reflection, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas bounds %dx%d", width, height)
	}

	return &Reflection{width: width, height: height}, nil
}

// Composite fits the asset into the canvas, draws it with the configured
// opacity and multiplies the alpha channel by the directional gradient.
// Color bytes are never touched by the mask, only alpha. The result is a
// PNG asset of canvas size.
func (r *Reflection) Composite(asset *domain.ImageAsset, params domain.ReflectionParameters) (*domain.ImageAsset, error) {
	if _, err := domain.ParseDirection(string(params.Direction)); err != nil {
		return nil, err
	}
	params = params.Clamped()

	src, err := raster.Decode(asset)
	if err != nil {
		return nil, err
	}

	fitted, origin := r.fit(src)
	canvas := imaging.New(r.width, r.height, color.Transparent)
	switch {
	case params.Opacity >= 1:
		canvas = imaging.Paste(canvas, fitted, origin)
	case params.Opacity > 0:
		canvas = imaging.Overlay(canvas, fitted, origin, params.Opacity)
	}

	maskAlpha(canvas, params.Direction, params.OffsetStop)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("error encoding composite: %w", err)
	}

	log.Debug().Str("direction", string(params.Direction)).
		Float64("offsetStop", params.OffsetStop).Float64("opacity", params.Opacity).
		Int("bytes", buf.Len()).Msg("reflection composited")

	return &domain.ImageAsset{
		Data:   buf.Bytes(),
		Width:  r.width,
		Height: r.height,
		MIME:   "image/png",
		Name:   compositeName(asset.Name),
	}, nil
}

// fit scales the source to the largest size that fits the canvas while
// preserving aspect ratio, and centers it. Small sources are scaled up so
// the composite fills the canvas.
func (r *Reflection) fit(src image.Image) (image.Image, image.Point) {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return src, image.Point{}
	}

	scale := math.Min(float64(r.width)/float64(srcW), float64(r.height)/float64(srcH))
	w := max(int(math.Round(float64(srcW)*scale)), 1)
	h := max(int(math.Round(float64(srcH)*scale)), 1)

	fitted := src
	if w != srcW || h != srcH {
		fitted = imaging.Resize(src, w, h, imaging.Lanczos)
	}

	return fitted, image.Pt((r.width-w)/2, (r.height-h)/2)
}

// maskAlpha multiplies the canvas alpha channel in place by a linear
// gradient along the reflection axis: opaque at the anchored edge, fully
// transparent from offsetStop onward.
func maskAlpha(canvas *image.NRGBA, dir domain.Direction, offsetStop float64) {
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()

	span := h
	if dir == domain.DirectionLeft || dir == domain.DirectionRight {
		span = w
	}

	levels := make([]uint8, span)
	for i := range levels {
		levels[i] = gradientLevel(i, span, offsetStop)
	}

	for y := 0; y < h; y++ {
		row := canvas.Pix[y*canvas.Stride : y*canvas.Stride+w*4]
		for x := 0; x < w; x++ {
			var m uint8
			switch dir {
			case domain.DirectionAbove:
				m = levels[y]
			case domain.DirectionBelow:
				m = levels[h-1-y]
			case domain.DirectionLeft:
				m = levels[x]
			default:
				m = levels[w-1-x]
			}

			a := &row[x*4+3]
			*a = uint8((uint32(*a)*uint32(m) + 127) / 255)
		}
	}
}

// gradientLevel returns the mask alpha at position i along a span of n
// pixels: 255 at the anchored edge falling linearly to 0 at offsetStop,
// holding 0 beyond it. offsetStop 0 collapses the gradient to a single
// opaque line at the edge.
func gradientLevel(i, n int, offsetStop float64) uint8 {
	if n <= 1 {
		return 255
	}

	if offsetStop <= 0 {
		if i == 0 {
			return 255
		}
		return 0
	}

	t := float64(i) / float64(n-1)
	if t >= offsetStop {
		return 0
	}

	return uint8(math.Round(255 * (1 - t/offsetStop)))
}

func compositeName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "image"
	}
	return base + "-reflection.png"
}
