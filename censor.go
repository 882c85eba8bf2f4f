package stickr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/esimov/stickr/utils"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// BlurMethod selects the blur applied to the censored region.
type BlurMethod string

const (
	// BlurGaussian applies a true Gaussian blur.
	BlurGaussian BlurMethod = "gaussian"
	// BlurStack applies the StackBlur approximation, which is considerably
	// faster on large photos.
	BlurStack BlurMethod = "stack"
)

// DefaultWatermark is the text stamped on every censored image.
const DefaultWatermark = "Made with Stickr"

// CensorOptions holds the tuning constants of the censored variant.
type CensorOptions struct {
	Method    BlurMethod
	Sigma     float64 // Gaussian standard deviation
	Radius    int     // StackBlur radius
	Watermark string
	Margin    int
	TextColor color.NRGBA
}

// DefaultCensorOptions returns the settings used when nothing is configured.
func DefaultCensorOptions() CensorOptions {
	return CensorOptions{
		Method:    BlurGaussian,
		Sigma:     20,
		Radius:    40,
		Watermark: DefaultWatermark,
		Margin:    10,
		TextColor: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb3},
	}
}

func (o CensorOptions) withDefaults() CensorOptions {
	def := DefaultCensorOptions()
	if o.Method == "" {
		o.Method = def.Method
	}
	if o.Sigma <= 0 {
		o.Sigma = def.Sigma
	}
	if o.Radius <= 0 {
		o.Radius = def.Radius
	}
	if o.Watermark == "" {
		o.Watermark = def.Watermark
	}
	if o.Margin < 0 {
		o.Margin = def.Margin
	}
	if o.TextColor == (color.NRGBA{}) {
		o.TextColor = def.TextColor
	}
	return o
}

// CensorRegion returns the centered rectangle which gets blurred: half the
// image width and height, offset by a quarter from each edge.
func CensorRegion(size image.Point) image.Rectangle {
	x0, y0 := size.X/4, size.Y/4
	return image.Rect(x0, y0, x0+size.X/2, y0+size.Y/2)
}

// DeriveCensoredVariant returns a copy of img with the center region blurred
// and the watermark stamped in the bottom-right corner. The source image is
// left untouched. It fails only when no censor region can be cropped.
func (e *Engine) DeriveCensoredVariant(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.Wrap(ErrDegenerateImage, "nothing to censor")
	}
	size := img.Bounds().Size()
	region := CensorRegion(size)
	if region.Empty() {
		return nil, errors.Wrapf(ErrDegenerateImage, "cannot crop a censor region from a %dx%d image", size.X, size.Y)
	}

	dst := imaging.Clone(img)
	dst = imaging.Paste(dst, e.blur(imaging.Crop(dst, region)), region.Min)

	// The watermark goes last so nothing covers or blurs it.
	e.drawWatermark(dst)

	return dst, nil
}

func (e *Engine) blur(region *image.NRGBA) *image.NRGBA {
	switch e.censor.Method {
	case BlurStack:
		StackBlur(region, e.censor.Radius)
		return region
	default:
		return imaging.Blur(region, e.censor.Sigma)
	}
}

// WatermarkBounds returns the rectangle covered by the watermark text on an
// image of the given size. The text is fully visible once the image is at
// least as wide as the text plus the margin.
func (e *Engine) WatermarkBounds(size image.Point) image.Rectangle {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}

	tw := d.MeasureString(e.censor.Watermark).Ceil()
	th := face.Metrics().Height.Ceil()

	x := utils.Max(size.X-tw-e.censor.Margin, 0)
	y := utils.Max(size.Y-th-e.censor.Margin, 0)

	return image.Rect(x, y, x+tw, y+th).Intersect(image.Rectangle{Max: size})
}

func (e *Engine) drawWatermark(dst *image.NRGBA) {
	r := e.WatermarkBounds(dst.Bounds().Size())
	if r.Empty() {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(e.censor.TextColor),
		Face: face,
		Dot:  fixed.P(r.Min.X, r.Min.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(e.censor.Watermark)
}
