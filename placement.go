package stickr

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Placement is the affine matrix mapping sticker-local coordinates onto the canvas.
// It follows the f64.Aff3 layout, i.e. [a b c d e f] maps (x, y) to
// (a*x + b*y + c, d*x + e*y + f).
type Placement f64.Aff3

// Identity returns the placement which leaves coordinates unchanged.
func Identity() Placement {
	return Placement{1, 0, 0, 0, 1, 0}
}

// Translate returns a placement moving coordinates by (x, y).
func Translate(x, y float64) Placement {
	return Placement{1, 0, x, 0, 1, y}
}

// Scale returns a uniform scaling placement.
func Scale(s float64) Placement {
	return Placement{s, 0, 0, 0, s, 0}
}

// Rotate returns a placement rotating coordinates by theta radians around the origin.
// The canvas y axis points down, so positive angles turn clockwise on screen.
func Rotate(theta float64) Placement {
	sin, cos := math.Sincos(theta)
	return Placement{cos, -sin, 0, sin, cos, 0}
}

// NewPlacement composes translate∘scale∘rotate: the sticker is first rotated
// around its local origin, then scaled, then moved to (x, y).
func NewPlacement(x, y, scale, rotation float64) Placement {
	return Translate(x, y).Mul(Scale(scale)).Mul(Rotate(rotation))
}

// Mul returns the composition p∘q, which applies q first and then p.
func (p Placement) Mul(q Placement) Placement {
	return Placement{
		p[0]*q[0] + p[1]*q[3],
		p[0]*q[1] + p[1]*q[4],
		p[0]*q[2] + p[1]*q[5] + p[2],
		p[3]*q[0] + p[4]*q[3],
		p[3]*q[1] + p[4]*q[4],
		p[3]*q[2] + p[4]*q[5] + p[5],
	}
}

// Apply maps a sticker-local point onto the canvas.
func (p Placement) Apply(x, y float64) (float64, float64) {
	return p[0]*x + p[1]*y + p[2], p[3]*x + p[4]*y + p[5]
}

// Aff3 returns the matrix in the form expected by golang.org/x/image/draw.
func (p Placement) Aff3() f64.Aff3 {
	return f64.Aff3(p)
}
