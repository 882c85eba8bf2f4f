// Package session glues an editor to the content catalog, the asset
// resolver, analytics and the composition engine. Every method is safe for
// concurrent use: editing operations are serialized and exports compose on
// a snapshot of the state, outside the lock.
package session

import (
	"context"
	"image"
	"sync"

	"github.com/esimov/stickr"
	"github.com/esimov/stickr/analytics"
	"github.com/esimov/stickr/assets"
	"github.com/esimov/stickr/catalog"
	"github.com/esimov/stickr/editor"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Session is a single photo editing session.
type Session struct {
	mu     sync.Mutex
	base   image.Image
	editor *editor.Editor

	catalog  *catalog.Catalog
	ent      *catalog.Entitlements
	resolver assets.Resolver
	engine   *stickr.Engine
	tracker  *analytics.Tracker
	log      logrus.FieldLogger

	editorOpts []editor.Option
}

// Option configures a Session.
type Option func(*Session)

// WithCatalog sets the catalog used to look up filters and stickers.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Session) { s.catalog = c }
}

// WithEntitlements sets the entitlements gating premium and secret content.
func WithEntitlements(e *catalog.Entitlements) Option {
	return func(s *Session) { s.ent = e }
}

func WithResolver(r assets.Resolver) Option {
	return func(s *Session) { s.resolver = r }
}

func WithEngine(e *stickr.Engine) Option {
	return func(s *Session) { s.engine = e }
}

// WithSink sets the analytics sink. By default events are discarded.
func WithSink(sink analytics.Sink) Option {
	return func(s *Session) { s.tracker = analytics.NewTracker(sink) }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.log = l }
}

// WithEditorOptions passes options to the underlying editor.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(s *Session) { s.editorOpts = append(s.editorOpts, opts...) }
}

// New starts a session editing the captured photo base.
func New(base image.Image, opts ...Option) *Session {
	s := &Session{
		base:     base,
		catalog:  catalog.Default(),
		ent:      catalog.NewEntitlements(),
		resolver: assets.MapResolver{},
		engine:   stickr.NewEngine(),
		tracker:  analytics.NewTracker(analytics.Nop),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.editor = editor.New(s.editorOpts...)
	return s
}

// SelectFilter applies the catalog filter with the given id. An empty id
// removes the filter.
func (s *Session) SelectFilter(id string) (editor.EditState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return s.editor.SelectFilter(nil), nil
	}
	f, err := s.catalog.UsableFilter(s.ent, id)
	if err != nil {
		return s.editor.State(), err
	}
	st := s.editor.SelectFilter(f.Ref())
	s.tracker.FilterUsed(f.ID)
	return st, nil
}

// AddSticker places the catalog sticker with the given id and returns the id
// of the new instance, which becomes the selected sticker.
func (s *Session) AddSticker(id string) (uuid.UUID, editor.EditState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sticker, err := s.catalog.UsableSticker(s.ent, id)
	if err != nil {
		return uuid.Nil, s.editor.State(), err
	}
	st := s.editor.AddSticker(sticker.Ref())
	s.tracker.StickerUsed(sticker.ID)
	return s.editor.Selected(), st, nil
}

func (s *Session) SelectSticker(id uuid.UUID) editor.EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.SelectSticker(id)
}

func (s *Session) UpdateTransform(id uuid.UUID, t editor.Transform) editor.EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.UpdateTransform(id, t)
}

// Move commits a drag gesture of (dx, dy) on the sticker.
func (s *Session) Move(id uuid.UUID, dx, dy float64) editor.EditState {
	return s.gesture(id, func(t editor.Transform) editor.Transform { return t.Translated(dx, dy) })
}

// Scale commits a pinch gesture multiplying the sticker scale by factor.
func (s *Session) Scale(id uuid.UUID, factor float64) editor.EditState {
	return s.gesture(id, func(t editor.Transform) editor.Transform { return t.Scaled(factor) })
}

// Rotate commits a rotation gesture of delta radians.
func (s *Session) Rotate(id uuid.UUID, delta float64) editor.EditState {
	return s.gesture(id, func(t editor.Transform) editor.Transform { return t.Rotated(delta) })
}

func (s *Session) gesture(id uuid.UUID, fn func(editor.Transform) editor.Transform) editor.EditState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.editor.State()
	sticker, ok := st.Sticker(id)
	if !ok {
		return st
	}
	return s.editor.UpdateTransform(id, fn(sticker.Transform))
}

func (s *Session) BringToFront(id uuid.UUID) editor.EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.BringToFront(id)
}

func (s *Session) DeleteSelectedSticker() editor.EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.DeleteSelectedSticker()
}

func (s *Session) Undo() editor.EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Undo()
}

func (s *Session) Redo() editor.EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Redo()
}

func (s *Session) State() editor.EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.State()
}

func (s *Session) Selected() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Selected()
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.CanRedo()
}

// Subscribe registers an editor observer. Observers run with the session
// lock held and must not call back into the session.
func (s *Session) Subscribe(fn editor.Observer) func() {
	s.mu.Lock()
	unsubscribe := s.editor.Subscribe(fn)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsubscribe()
	}
}

// Share records a shared export and returns the secret content it unlocked.
func (s *Session) Share() []string {
	unlocked := s.ent.Share()
	s.tracker.Shared(s.ent.Shares())
	for _, id := range unlocked {
		s.tracker.SecretUnlock(id)
		s.log.WithField("content", id).Info("secret content unlocked")
	}
	return unlocked
}

// Request resolves the current state into a composition request. Stickers
// are in render order. Assets which cannot be resolved are skipped.
func (s *Session) Request() (*stickr.Request, error) {
	if s.base == nil {
		return nil, stickr.ErrNoBaseImage
	}
	st := s.State()

	req := &stickr.Request{Base: s.base}
	if f := st.Filter; f != nil {
		img, err := s.resolver.Resolve(f.Image)
		if err != nil {
			s.log.WithError(err).WithField("filter", f.ID).Warn("filter overlay skipped")
		} else {
			req.Overlay, req.Blend = img, f.Blend
		}
	}
	for _, sticker := range st.RenderOrder() {
		img, err := s.resolver.Resolve(sticker.Asset.Image)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"sticker":  sticker.Asset.ID,
				"instance": sticker.ID,
			}).Warn("sticker skipped")
			continue
		}
		req.Layers = append(req.Layers, stickr.Layer{
			Image:     img,
			Placement: sticker.Transform.Placement(),
		})
	}
	return req, nil
}

// Export flattens the current state into the clean and censored images.
func (s *Session) Export(ctx context.Context) (*stickr.Result, error) {
	req, err := s.Request()
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Export(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "export failed")
	}
	s.tracker.Exported()
	s.log.WithFields(logrus.Fields{
		"size":     res.Clean.Bounds().Size(),
		"stickers": len(req.Layers),
	}).Debug("session exported")
	return res, nil
}

// ExportResult is delivered by ExportAsync.
type ExportResult struct {
	Result *stickr.Result
	Err    error
}

// ExportAsync snapshots the current state and composes it on a background
// goroutine. The returned channel receives exactly one value. Edits made
// after the call do not affect the export.
func (s *Session) ExportAsync(ctx context.Context) <-chan ExportResult {
	out := make(chan ExportResult, 1)

	req, err := s.Request()
	if err != nil {
		out <- ExportResult{Err: err}
		close(out)
		return out
	}
	go func() {
		defer close(out)
		res, err := s.engine.Export(ctx, req)
		if err != nil {
			out <- ExportResult{Err: errors.Wrap(err, "export failed")}
			return
		}
		s.tracker.Exported()
		out <- ExportResult{Result: res}
	}()
	return out
}
