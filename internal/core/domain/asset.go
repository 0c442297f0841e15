package domain

import (
	"encoding/base64"
	"fmt"
)

// MaxAssetBytes is the largest encoded image that may be submitted for
// enlargement.
const MaxAssetBytes = 5 << 20

// MaxPixelBudget caps the pixel count of an enlarged result.
const MaxPixelBudget = 2500 * 2500 * 2

// EnlargeFactors are the pixel-count multipliers offered to the user.
var EnlargeFactors = []int{2, 4, 6, 8}

// ImageAsset is a decoded raster: the original encoded bytes plus the
// dimensions and MIME type probed from them. An asset is immutable once
// built; a new source replaces it wholesale.
type ImageAsset struct {
	Data   []byte
	Width  int
	Height int
	MIME   string
	Name   string
}

func (a *ImageAsset) PixelCount() int {
	return a.Width * a.Height
}

func (a *ImageAsset) ByteSize() int {
	return len(a.Data)
}

// WithinSizeLimit reports whether the encoded bytes fit the submission
// ceiling.
func (a *ImageAsset) WithinSizeLimit() bool {
	return len(a.Data) <= MaxAssetBytes
}

// DataURL encodes the asset as a data URL, the payload format the host asset
// store accepts.
func (a *ImageAsset) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", a.MIME, base64.StdEncoding.EncodeToString(a.Data))
}

// EnlargeOption pairs an offered factor with whether the pixel budget admits
// it for the current asset.
type EnlargeOption struct {
	Factor  int
	Enabled bool
}

// FactorAllowed reports whether multiplying the given pixel count by factor
// stays within the pixel budget.
func FactorAllowed(pixels, factor int) bool {
	return pixels*factor <= MaxPixelBudget
}

// EnlargeOptions returns the selectable factors for an asset of the given
// pixel count, disabled where the budget would be exceeded.
func EnlargeOptions(pixels int) []EnlargeOption {
	opts := make([]EnlargeOption, len(EnlargeFactors))
	for i, f := range EnlargeFactors {
		opts[i] = EnlargeOption{Factor: f, Enabled: FactorAllowed(pixels, f)}
	}
	return opts
}
