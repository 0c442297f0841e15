package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnlargeOptions(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		enabled []bool
	}{
		{
			name:    "small image enables all factors",
			width:   1000,
			height:  800,
			enabled: []bool{true, true, true, true},
		},
		{
			name:    "large image disables high factors",
			width:   2500,
			height:  2500,
			enabled: []bool{true, false, false, false},
		},
		{
			name:    "over budget image disables all",
			width:   4000,
			height:  4000,
			enabled: []bool{false, false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := EnlargeOptions(tt.width * tt.height)

			require.Len(t, opts, len(EnlargeFactors))
			for i, opt := range opts {
				assert.Equal(t, EnlargeFactors[i], opt.Factor)
				assert.Equal(t, tt.enabled[i], opt.Enabled, "factor %d", opt.Factor)
			}
		})
	}
}

func TestWithinSizeLimit(t *testing.T) {
	small := &ImageAsset{Data: make([]byte, MaxAssetBytes)}
	large := &ImageAsset{Data: make([]byte, MaxAssetBytes+1)}

	assert.True(t, small.WithinSizeLimit())
	assert.False(t, large.WithinSizeLimit())
}

func TestDataURL(t *testing.T) {
	asset := &ImageAsset{Data: []byte("pixels"), MIME: "image/png"}

	url := asset.DataURL()

	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	assert.Contains(t, url, "cGl4ZWxz")
}
