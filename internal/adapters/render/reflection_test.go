package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"reflectup/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidAsset(t *testing.T, w, h int) *domain.ImageAsset {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return &domain.ImageAsset{Data: buf.Bytes(), Width: w, Height: h, MIME: "image/png", Name: "source.png"}
}

func decodeComposite(t *testing.T, asset *domain.ImageAsset) *image.NRGBA {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(asset.Data))
	require.NoError(t, err)

	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok, "composite should decode as NRGBA")
	return nrgba
}

func TestCompositeCanvasSize(t *testing.T) {
	r, err := NewReflection(320, 240)
	require.NoError(t, err)
	asset := solidAsset(t, 64, 64)

	for _, dir := range []domain.Direction{
		domain.DirectionBelow, domain.DirectionAbove, domain.DirectionLeft, domain.DirectionRight,
	} {
		t.Run(string(dir), func(t *testing.T) {
			out, err := r.Composite(asset, domain.ReflectionParameters{Direction: dir, OffsetStop: 1, Opacity: 1})

			require.NoError(t, err)
			assert.Equal(t, 320, out.Width)
			assert.Equal(t, 240, out.Height)
			assert.Equal(t, "image/png", out.MIME)
		})
	}
}

func TestCompositeRejectsUnknownDirection(t *testing.T) {
	r, err := NewReflection(320, 240)
	require.NoError(t, err)

	_, err = r.Composite(solidAsset(t, 64, 64), domain.ReflectionParameters{Direction: "Diagonal", OffsetStop: 1, Opacity: 1})

	assert.ErrorIs(t, err, domain.ErrUnknownDirection)
}

func TestCompositeGradientFades(t *testing.T) {
	r, err := NewReflection(100, 100)
	require.NoError(t, err)
	asset := solidAsset(t, 100, 100)

	out, err := r.Composite(asset, domain.ReflectionParameters{
		Direction:  domain.DirectionAbove,
		OffsetStop: 1,
		Opacity:    1,
	})
	require.NoError(t, err)

	img := decodeComposite(t, out)

	alphaAt := func(y int) uint8 { return img.NRGBAAt(50, y).A }

	assert.EqualValues(t, 255, alphaAt(0))
	assert.EqualValues(t, 0, alphaAt(99))
	for y := 1; y < 100; y++ {
		assert.LessOrEqual(t, alphaAt(y), alphaAt(y-1), "alpha must not increase with distance, row %d", y)
	}
}

func TestCompositeHoldsTransparentBeyondOffsetStop(t *testing.T) {
	r, err := NewReflection(100, 100)
	require.NoError(t, err)

	out, err := r.Composite(solidAsset(t, 100, 100), domain.ReflectionParameters{
		Direction:  domain.DirectionAbove,
		OffsetStop: 0.5,
		Opacity:    1,
	})
	require.NoError(t, err)

	img := decodeComposite(t, out)
	for y := 50; y < 100; y++ {
		assert.EqualValues(t, 0, img.NRGBAAt(50, y).A, "row %d", y)
	}
	assert.EqualValues(t, 255, img.NRGBAAt(50, 0).A)
}

func TestCompositeZeroOffsetStopLeavesOpaqueEdge(t *testing.T) {
	r, err := NewReflection(100, 100)
	require.NoError(t, err)

	tests := []struct {
		name      string
		direction domain.Direction
		alphaAt   func(img *image.NRGBA) uint8
		clearAt   func(img *image.NRGBA) uint8
	}{
		{
			name:      "above keeps top row",
			direction: domain.DirectionAbove,
			alphaAt:   func(img *image.NRGBA) uint8 { return img.NRGBAAt(50, 0).A },
			clearAt:   func(img *image.NRGBA) uint8 { return img.NRGBAAt(50, 1).A },
		},
		{
			name:      "below keeps bottom row",
			direction: domain.DirectionBelow,
			alphaAt:   func(img *image.NRGBA) uint8 { return img.NRGBAAt(50, 99).A },
			clearAt:   func(img *image.NRGBA) uint8 { return img.NRGBAAt(50, 98).A },
		},
		{
			name:      "left keeps first column",
			direction: domain.DirectionLeft,
			alphaAt:   func(img *image.NRGBA) uint8 { return img.NRGBAAt(0, 50).A },
			clearAt:   func(img *image.NRGBA) uint8 { return img.NRGBAAt(1, 50).A },
		},
		{
			name:      "right keeps last column",
			direction: domain.DirectionRight,
			alphaAt:   func(img *image.NRGBA) uint8 { return img.NRGBAAt(99, 50).A },
			clearAt:   func(img *image.NRGBA) uint8 { return img.NRGBAAt(98, 50).A },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Composite(solidAsset(t, 100, 100), domain.ReflectionParameters{
				Direction:  tt.direction,
				OffsetStop: 0,
				Opacity:    1,
			})
			require.NoError(t, err)

			img := decodeComposite(t, out)
			assert.EqualValues(t, 255, tt.alphaAt(img))
			assert.EqualValues(t, 0, tt.clearAt(img))
		})
	}
}

func TestCompositeZeroOpacityFullyTransparent(t *testing.T) {
	r, err := NewReflection(50, 50)
	require.NoError(t, err)

	out, err := r.Composite(solidAsset(t, 50, 50), domain.ReflectionParameters{
		Direction:  domain.DirectionAbove,
		OffsetStop: 1,
		Opacity:    0,
	})
	require.NoError(t, err)

	img := decodeComposite(t, out)
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			assert.EqualValues(t, 0, img.NRGBAAt(x, y).A)
		}
	}
}

func TestCompositePartialOpacityScalesAlpha(t *testing.T) {
	r, err := NewReflection(50, 50)
	require.NoError(t, err)

	out, err := r.Composite(solidAsset(t, 50, 50), domain.ReflectionParameters{
		Direction:  domain.DirectionAbove,
		OffsetStop: 1,
		Opacity:    0.5,
	})
	require.NoError(t, err)

	img := decodeComposite(t, out)
	edge := img.NRGBAAt(25, 0).A
	assert.InDelta(t, 127, float64(edge), 2)
}

func TestCompositeDeterministic(t *testing.T) {
	r, err := NewReflection(200, 150)
	require.NoError(t, err)
	asset := solidAsset(t, 120, 90)
	params := domain.ReflectionParameters{Direction: domain.DirectionRight, OffsetStop: 0.7, Opacity: 0.6}

	first, err := r.Composite(asset, params)
	require.NoError(t, err)
	second, err := r.Composite(asset, params)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
}

func TestCompositeFixedPointAtBinaryMask(t *testing.T) {
	r, err := NewReflection(100, 100)
	require.NoError(t, err)
	params := domain.ReflectionParameters{Direction: domain.DirectionAbove, OffsetStop: 0, Opacity: 1}

	once, err := r.Composite(solidAsset(t, 100, 100), params)
	require.NoError(t, err)
	twice, err := r.Composite(once, params)
	require.NoError(t, err)

	assert.Equal(t, once.Data, twice.Data)
}

func TestCompositeUpscalesSmallSources(t *testing.T) {
	r, err := NewReflection(400, 300)
	require.NoError(t, err)

	out, err := r.Composite(solidAsset(t, 40, 30), domain.ReflectionParameters{
		Direction:  domain.DirectionAbove,
		OffsetStop: 1,
		Opacity:    1,
	})
	require.NoError(t, err)

	img := decodeComposite(t, out)
	// a 40x30 source scales to fill 400x300, so the center is not blank
	center := img.NRGBAAt(200, 10)
	assert.NotZero(t, center.A)
	assert.EqualValues(t, 200, center.R)
}
