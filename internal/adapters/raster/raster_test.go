package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"reflectup/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, img image.Image, enc func(io.Writer, image.Image) error) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, enc(&buf, img))
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	img := testImage(320, 240)

	tests := []struct {
		name string
		data []byte
		mime string
	}{
		{
			name: "png",
			data: encode(t, img, png.Encode),
			mime: "image/png",
		},
		{
			name: "jpeg",
			data: encode(t, img, func(w io.Writer, m image.Image) error {
				return jpeg.Encode(w, m, nil)
			}),
			mime: "image/jpeg",
		},
		{
			name: "gif",
			data: encode(t, img, func(w io.Writer, m image.Image) error {
				return gif.Encode(w, m, nil)
			}),
			mime: "image/gif",
		},
		{
			name: "tiff",
			data: encode(t, img, func(w io.Writer, m image.Image) error {
				return tiff.Encode(w, m, nil)
			}),
			mime: "image/tiff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset, err := Load("photo.bin", tt.data)

			require.NoError(t, err)
			assert.Equal(t, tt.mime, asset.MIME)
			assert.Equal(t, 320, asset.Width)
			assert.Equal(t, 240, asset.Height)
			assert.Equal(t, tt.data, asset.Data)
			assert.Equal(t, "photo.bin", asset.Name)
		})
	}
}

func TestLoadRejectsUnsupportedData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "plain text", data: []byte("definitely not an image")},
		{name: "truncated png", data: []byte("\x89PNG\r\n\x1a\n000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("broken", tt.data)

			require.Error(t, err)

			var perr *domain.ProcessingError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, domain.DecodeError, perr.Kind)
		})
	}
}

func TestThumbnailFitsBounds(t *testing.T) {
	data := encode(t, testImage(800, 600), png.Encode)
	asset, err := Load("photo.png", data)
	require.NoError(t, err)

	thumb, err := Thumbnail(asset, 360, 270)

	require.NoError(t, err)
	assert.Equal(t, 360, thumb.Width)
	assert.Equal(t, 270, thumb.Height)
	assert.Equal(t, "image/jpeg", thumb.MIME)
	assert.Equal(t, "photo-thumb.jpg", thumb.Name)
}

func TestThumbnailKeepsSmallImages(t *testing.T) {
	data := encode(t, testImage(100, 80), png.Encode)
	asset, err := Load("tiny.png", data)
	require.NoError(t, err)

	thumb, err := Thumbnail(asset, 360, 270)

	require.NoError(t, err)
	assert.Equal(t, 100, thumb.Width)
	assert.Equal(t, 80, thumb.Height)
}
