package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, valid := range []string{"Below", "Above", "Left", "Right"} {
		dir, err := ParseDirection(valid)

		require.NoError(t, err)
		assert.Equal(t, Direction(valid), dir)
	}

	for _, invalid := range []string{"", "above", "Diagonal", "BELOW"} {
		_, err := ParseDirection(invalid)

		assert.ErrorIs(t, err, ErrUnknownDirection, "value %q", invalid)
	}
}

func TestClamped(t *testing.T) {
	tests := []struct {
		name string
		in   ReflectionParameters
		want ReflectionParameters
	}{
		{
			name: "in range untouched",
			in:   ReflectionParameters{Direction: DirectionBelow, OffsetStop: 0.5, Opacity: 0.25},
			want: ReflectionParameters{Direction: DirectionBelow, OffsetStop: 0.5, Opacity: 0.25},
		},
		{
			name: "negative raised to zero",
			in:   ReflectionParameters{Direction: DirectionLeft, OffsetStop: -0.1, Opacity: -3},
			want: ReflectionParameters{Direction: DirectionLeft, OffsetStop: 0, Opacity: 0},
		},
		{
			name: "excess lowered to one",
			in:   ReflectionParameters{Direction: DirectionRight, OffsetStop: 1.5, Opacity: 42},
			want: ReflectionParameters{Direction: DirectionRight, OffsetStop: 1, Opacity: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamped())
		})
	}
}

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()

	assert.Equal(t, DirectionAbove, p.Direction)
	assert.Equal(t, 1.0, p.OffsetStop)
	assert.Equal(t, 1.0, p.Opacity)
}
