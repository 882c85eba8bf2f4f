package stickr

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/esimov/stickr/imop"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

var (
	// ErrNoBaseImage is returned when a composition request carries no base photo.
	ErrNoBaseImage = errors.New("no base image")
	// ErrDegenerateImage is returned for zero area images, or images too small
	// to produce a censor region.
	ErrDegenerateImage = errors.New("degenerate image")
)

// Layer is a single sticker image together with its placement on the canvas.
type Layer struct {
	Image     image.Image
	Placement Placement
}

// Request holds the already resolved pixels of one composition.
type Request struct {
	// Base is the captured photo. The output has exactly its dimensions.
	Base image.Image
	// Overlay is the optional full-frame filter image. It is resized with
	// fill semantics (cropped, never letterboxed) to cover the canvas.
	Overlay image.Image
	// Blend is the blend mode used to mix the overlay. Empty means normal.
	Blend imop.Mode
	// Layers are drawn in this exact order; the engine never re-sorts them.
	Layers []Layer
}

// Result holds the two images produced by an export.
type Result struct {
	Clean    *image.NRGBA
	Censored *image.NRGBA
}

// Engine flattens layered edits into a single raster image.
// It keeps no state between calls, so a single Engine can be shared
// between editing sessions and goroutines.
type Engine struct {
	interp draw.Interpolator
	censor CensorOptions
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterpolator sets the interpolator used for drawing transformed stickers.
func WithInterpolator(interp draw.Interpolator) Option {
	return func(e *Engine) {
		if interp != nil {
			e.interp = interp
		}
	}
}

// WithCensor overrides the censored variant settings. Zero fields fall back
// to the defaults, except Margin where only negative values do.
func WithCensor(opts CensorOptions) Option {
	return func(e *Engine) {
		e.censor = opts.withDefaults()
	}
}

// NewEngine creates a composition engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		interp: draw.BiLinear,
		censor: DefaultCensorOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compose flattens the request into a new image with the base image dimensions.
// The base is copied 1:1, the overlay is blended over the full frame, then
// every sticker layer is drawn with source-over in input order.
// The context is checked between layers.
func (e *Engine) Compose(ctx context.Context, req *Request) (*image.NRGBA, error) {
	if req == nil || req.Base == nil {
		return nil, ErrNoBaseImage
	}
	bounds := req.Base.Bounds()
	if bounds.Empty() {
		return nil, errors.Wrapf(ErrDegenerateImage, "base image is %dx%d", bounds.Dx(), bounds.Dy())
	}
	if !imop.Supported(req.Blend) {
		return nil, errors.Wrapf(imop.ErrUnsupportedMode, "%q", req.Blend)
	}

	canvas := imaging.Clone(req.Base)

	if req.Overlay != nil && !req.Overlay.Bounds().Empty() {
		w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
		overlay := imaging.Fill(req.Overlay, w, h, imaging.Center, imaging.Lanczos)
		if err := imop.Blend(canvas, overlay, req.Blend); err != nil {
			return nil, errors.Wrap(err, "cannot apply the filter overlay")
		}
	}

	for i, layer := range req.Layers {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "composition stopped at layer %d", i)
		}
		if layer.Image == nil || layer.Image.Bounds().Empty() {
			continue
		}
		e.interp.Transform(canvas, layer.Placement.Aff3(), layer.Image, layer.Image.Bounds(), draw.Over, nil)
	}

	return canvas, nil
}

// Export composes the request and derives the censored variant of the result.
func (e *Engine) Export(ctx context.Context, req *Request) (*Result, error) {
	clean, err := e.Compose(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "export stopped before censoring")
	}
	censored, err := e.DeriveCensoredVariant(clean)
	if err != nil {
		return nil, err
	}
	return &Result{Clean: clean, Censored: censored}, nil
}
