// Go implementation of the StackBlur algorithm described here:
// http://incubator.quasimondo.com/processing/fast_blur_deluxe.php

package stickr

import (
	"image"

	"github.com/esimov/stickr/utils"
)

// maxStackRadius keeps the weighted channel sums within uint32.
const maxStackRadius = 254

// StackBlur blurs img in place with a horizontal then a vertical pass.
// Every output pixel is the average of its neighbors weighted like a
// tent (pyramid) of the given radius, which closely approximates a
// Gaussian blur. Pixels outside img.Rect are never read or written, so
// the function can be used on sub-images.
func StackBlur(img *image.NRGBA, radius int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if radius < 1 || w == 0 || h == 0 {
		return
	}
	radius = utils.Min(radius, maxStackRadius)

	stack := make([][4]uint32, 2*radius+1)
	for y := 0; y < h; y++ {
		blurLine(img.Pix, img.PixOffset(b.Min.X, b.Min.Y+y), 4, w, radius, stack)
	}
	for x := 0; x < w; x++ {
		blurLine(img.Pix, img.PixOffset(b.Min.X+x, b.Min.Y), img.Stride, h, radius, stack)
	}
}

// blurLine blurs n pixels starting at pix[start], step bytes apart.
// Positions outside the line are clamped to the edge pixel.
func blurLine(pix []uint8, start, step, n, radius int, stack [][4]uint32) {
	var sum, sumIn, sumOut [4]uint32

	div := 2*radius + 1
	norm := uint32((radius + 1) * (radius + 1))
	offset := func(i int) int {
		return start + utils.Clamp(i, 0, n-1)*step
	}

	// Seed the stack with the window centered on the first pixel.
	for i := 0; i < div; i++ {
		p := offset(i - radius)
		weight := uint32(radius + 1 - utils.Abs(i-radius))
		for c := 0; c < 4; c++ {
			v := uint32(pix[p+c])
			stack[i][c] = v
			sum[c] += v * weight
			if i <= radius {
				sumOut[c] += v
			} else {
				sumIn[c] += v
			}
		}
	}

	sp := radius
	for x := 0; x < n; x++ {
		p := start + x*step
		next := offset(x + radius + 1)
		oldest := (sp + div - radius) % div

		for c := 0; c < 4; c++ {
			incoming := uint32(pix[next+c])
			pix[p+c] = uint8(sum[c] / norm)

			sum[c] -= sumOut[c]
			sumOut[c] -= stack[oldest][c]
			stack[oldest][c] = incoming
			sumIn[c] += incoming
			sum[c] += sumIn[c]
		}

		sp = (sp + 1) % div
		for c := 0; c < 4; c++ {
			sumOut[c] += stack[sp][c]
			sumIn[c] -= stack[sp][c]
		}
	}
}
