package editor

import (
	"math"

	"github.com/esimov/stickr"
	"github.com/esimov/stickr/utils"
)

const (
	// MinScale and MaxScale bound the uniform sticker scale.
	MinScale = 0.3
	MaxScale = 3.0

	fullTurn = 2 * math.Pi
)

// Transform is the placement of a sticker on the canvas. It is a value type:
// every gesture commit produces a new Transform which replaces the old one.
type Transform struct {
	X, Y     float64 // canvas position of the sticker origin
	Scale    float64
	Rotation float64 // radians, in [0, 2π)
}

// DefaultTransform is the placement given to newly added stickers.
func DefaultTransform() Transform {
	return Transform{X: 150, Y: 150, Scale: 1}
}

// NewTransform returns a normalized Transform.
func NewTransform(x, y, scale, rotation float64) Transform {
	return Transform{X: x, Y: y, Scale: scale, Rotation: rotation}.Normalized()
}

// Normalized clamps the scale into [MinScale, MaxScale] and wraps the
// rotation into a single turn.
func (t Transform) Normalized() Transform {
	t.Scale = utils.Clamp(t.Scale, MinScale, MaxScale)
	t.Rotation = wrapAngle(t.Rotation)
	return t
}

// Translated returns the transform moved by (dx, dy).
func (t Transform) Translated(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// Scaled multiplies the scale by factor.
func (t Transform) Scaled(factor float64) Transform {
	t.Scale *= factor
	return t.Normalized()
}

// Rotated adds delta radians to the rotation.
func (t Transform) Rotated(delta float64) Transform {
	t.Rotation += delta
	return t.Normalized()
}

// Placement returns the affine matrix used by the composition engine.
func (t Transform) Placement() stickr.Placement {
	return stickr.NewPlacement(t.X, t.Y, t.Scale, t.Rotation)
}

func wrapAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, fullTurn)
	if a < 0 {
		a += fullTurn
	}
	// Adding a full turn to a tiny negative angle may round up to 2π.
	if a >= fullTurn {
		a = 0
	}
	return a
}
