package domain

import "fmt"

// Direction selects the edge of the canvas the reflection is anchored to.
// The values double as the wire tags sent to the enlargement service.
type Direction string

const (
	DirectionBelow Direction = "Below"
	DirectionAbove Direction = "Above"
	DirectionLeft  Direction = "Left"
	DirectionRight Direction = "Right"
)

// ParseDirection validates a direction tag. Unknown values are rejected here
// so the compositor never sees one.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionBelow, DirectionAbove, DirectionLeft, DirectionRight:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// ReflectionParameters drive the compositor. OffsetStop and Opacity live in
// [0,1]; out-of-range input is clamped, never rejected.
type ReflectionParameters struct {
	Direction  Direction
	OffsetStop float64
	Opacity    float64
}

// DefaultParameters returns the initial reflection settings.
func DefaultParameters() ReflectionParameters {
	return ReflectionParameters{
		Direction:  DirectionAbove,
		OffsetStop: 1,
		Opacity:    1,
	}
}

// Clamped returns a copy with OffsetStop and Opacity forced into [0,1].
func (p ReflectionParameters) Clamped() ReflectionParameters {
	p.OffsetStop = clamp01(p.OffsetStop)
	p.Opacity = clamp01(p.Opacity)
	return p
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
