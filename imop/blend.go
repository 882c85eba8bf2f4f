// Package imop implements the separable blend modes used when a filter
// overlay is mixed with the photo underneath it.
//
// The image/draw core package only knows about source-over-destination and
// source. This package computes the W3C compositing formula instead:
// the blend function is applied to the backdrop and the source color, then
// the result is composited with source-over, so the source alpha is honored.
package imop

import (
	"image"

	"github.com/esimov/stickr/utils"
	"github.com/pkg/errors"
)

// Mode identifies a separable blend mode.
type Mode string

const (
	Normal   Mode = "normal"
	Darken   Mode = "darken"
	Lighten  Mode = "lighten"
	Multiply Mode = "multiply"
	Screen   Mode = "screen"
	Overlay  Mode = "overlay"
)

// ErrUnsupportedMode is returned for a blend mode this package does not know.
var ErrUnsupportedMode = errors.New("unsupported blend mode")

type blendFn func(cb, cs float64) float64

var modes = map[Mode]blendFn{
	Normal:   func(_, cs float64) float64 { return cs },
	Darken:   utils.Min[float64],
	Lighten:  utils.Max[float64],
	Multiply: func(cb, cs float64) float64 { return cb * cs },
	Screen:   screen,
	Overlay: func(cb, cs float64) float64 {
		// Overlay is hard light with the layers swapped.
		if cb <= 0.5 {
			return 2 * cb * cs
		}
		return screen(2*cb-1, cs)
	},
}

func screen(cb, cs float64) float64 {
	return cb + cs - cb*cs
}

// Supported reports whether the blend mode is known. The empty mode is
// treated as Normal.
func Supported(mode Mode) bool {
	if mode == "" {
		return true
	}
	_, ok := modes[mode]
	return ok
}

// Blend mixes src into dst in place using the given blend mode.
// Both images must have the same dimensions; src is aligned with dst by
// their respective Min points.
func Blend(dst, src *image.NRGBA, mode Mode) error {
	if mode == "" {
		mode = Normal
	}
	fn, ok := modes[mode]
	if !ok {
		return errors.Wrapf(ErrUnsupportedMode, "%q", mode)
	}

	db, sb := dst.Bounds(), src.Bounds()
	if db.Dx() != sb.Dx() || db.Dy() != sb.Dy() {
		return errors.Errorf("blend size mismatch: dst %v, src %v", db.Size(), sb.Size())
	}

	for y := 0; y < db.Dy(); y++ {
		di := dst.PixOffset(db.Min.X, db.Min.Y+y)
		si := src.PixOffset(sb.Min.X, sb.Min.Y+y)
		for x := 0; x < db.Dx(); x++ {
			mix(dst.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4], fn)
			di += 4
			si += 4
		}
	}
	return nil
}

// mix composites a single non-premultiplied source pixel over the backdrop pixel.
func mix(dp, sp []uint8, fn blendFn) {
	as := float64(sp[3]) / 255
	if as == 0 {
		return
	}
	ab := float64(dp[3]) / 255
	ao := as + ab*(1-as)

	for c := 0; c < 3; c++ {
		cs := float64(sp[c]) / 255
		cb := float64(dp[c]) / 255

		// Where the backdrop is transparent the source shows unchanged.
		cs = (1-ab)*cs + ab*fn(cb, cs)
		co := as*cs + ab*cb*(1-as)

		dp[c] = toUint8(co / ao)
	}
	dp[3] = toUint8(ao)
}

func toUint8(v float64) uint8 {
	return uint8(utils.Clamp(v*255+0.5, 0, 255))
}
