package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"reflectup/internal/core/domain"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/tiff"
)

const sniffLen = 512

const ThumbnailJPEGQuality = 85

var decoders = map[string]func(io.Reader) (image.Image, error){
	"image/png":  png.Decode,
	"image/jpeg": jpeg.Decode,
	"image/gif":  gif.Decode,
	"image/tiff": tiff.Decode,
}

// Loader satisfies the loader port on top of the package functions.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) Load(name string, data []byte) (*domain.ImageAsset, error) {
	return Load(name, data)
}

func (l *Loader) Thumbnail(asset *domain.ImageAsset, maxWidth, maxHeight int) (*domain.ImageAsset, error) {
	return Thumbnail(asset, maxWidth, maxHeight)
}

// Load sniffs the MIME type of encoded image bytes, decodes them and returns
// an asset carrying the original bytes plus the probed dimensions.
func Load(name string, data []byte) (*domain.ImageAsset, error) {
	if len(data) == 0 {
		return nil, decodeError(errors.New("empty image data"))
	}

	mime := detectMIME(data)
	decode, ok := decoders[mime]
	if !ok {
		return nil, decodeError(fmt.Errorf("unsupported image type %q", mime))
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(fmt.Errorf("error decoding %s: %w", mime, err))
	}

	bounds := img.Bounds()
	log.Debug().Str("name", name).Str("mime", mime).
		Int("width", bounds.Dx()).Int("height", bounds.Dy()).
		Msg("image decoded")

	return &domain.ImageAsset{
		Data:   data,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		MIME:   mime,
		Name:   name,
	}, nil
}

// detectMIME sniffs the content type. The net/http table follows the WHATWG
// spec, which carries no TIFF entry, so TIFF is probed by signature.
func detectMIME(data []byte) string {
	mime := http.DetectContentType(data[:min(len(data), sniffLen)])
	if mime == "application/octet-stream" && isTIFF(data) {
		return "image/tiff"
	}
	return mime
}

func isTIFF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*"))
}

// Decode returns the pixel data of an already probed asset.
func Decode(asset *domain.ImageAsset) (image.Image, error) {
	decode, ok := decoders[asset.MIME]
	if !ok {
		return nil, decodeError(fmt.Errorf("unsupported image type %q", asset.MIME))
	}

	img, err := decode(bytes.NewReader(asset.Data))
	if err != nil {
		return nil, decodeError(fmt.Errorf("error decoding %s: %w", asset.MIME, err))
	}

	return img, nil
}

// Thumbnail produces a JPEG thumbnail fitted within the given bounds,
// preserving aspect ratio. Sources already inside the bounds are kept at
// their original size.
func Thumbnail(asset *domain.ImageAsset, maxWidth, maxHeight int) (*domain.ImageAsset, error) {
	img, err := Decode(asset)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(ThumbnailJPEGQuality)); err != nil {
		return nil, fmt.Errorf("error encoding thumbnail: %w", err)
	}

	bounds := thumb.Bounds()
	return &domain.ImageAsset{
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		MIME:   "image/jpeg",
		Name:   thumbName(asset.Name),
	}, nil
}

func thumbName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "image"
	}
	return base + "-thumb.jpg"
}

func decodeError(err error) *domain.ProcessingError {
	return &domain.ProcessingError{Kind: domain.DecodeError, Err: err}
}
