package main

import (
	"context"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/esimov/stickr"
	"github.com/esimov/stickr/analytics"
	"github.com/esimov/stickr/assets"
	"github.com/esimov/stickr/catalog"
	"github.com/esimov/stickr/config"
	"github.com/esimov/stickr/editor"
	"github.com/esimov/stickr/script"
	"github.com/esimov/stickr/session"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// app holds everything shared by the photos processed in one run.
type app struct {
	cfg      *config.Config
	engine   *stickr.Engine
	resolver assets.Resolver
	catalog  *catalog.Catalog
	ent      *catalog.Entitlements
	script   *script.Script
	sink     analytics.Sink
	log      logrus.FieldLogger
}

type appOptions struct {
	scriptPath string
	unlockAll  bool
}

func newApp(cfg *config.Config, log logrus.FieldLogger, opts appOptions) (*app, error) {
	a := &app{
		cfg:    cfg,
		engine: stickr.NewEngine(stickr.WithCensor(cfg.CensorOptions())),
		ent:    catalog.NewEntitlements(),
		sink:   analytics.NewLogSink(log),
		log:    log,
	}
	a.ent.SetUnlimited(opts.unlockAll)

	dir, err := assets.NewDirResolver(cfg.Assets.Dir, cfg.Assets.CacheSize, assets.WithLogger(log))
	if err != nil {
		log.WithError(err).Warn("no assets directory, stickers and filters will be skipped")
		a.resolver = assets.MapResolver{}
	} else {
		a.resolver = dir
	}

	if cfg.Assets.Catalog != "" {
		if a.catalog, err = catalog.LoadFile(cfg.Assets.Catalog); err != nil {
			return nil, err
		}
	} else {
		a.catalog = catalog.Default()
	}

	if opts.scriptPath != "" {
		if a.script, err = script.ParseFile(opts.scriptPath); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// job names the input photo and the destinations of one export.
type job struct {
	in, out, censored string
}

// process edits one photo and writes its variants.
func (a *app) process(ctx context.Context, j job) error {
	base, err := a.loadPhoto(ctx, j.in)
	if err != nil {
		return err
	}

	s := session.New(base,
		session.WithCatalog(a.catalog),
		session.WithEntitlements(a.ent),
		session.WithResolver(a.resolver),
		session.WithEngine(a.engine),
		session.WithSink(a.sink),
		session.WithLogger(a.log.WithField("photo", j.in)),
		session.WithEditorOptions(editor.WithHistoryLimit(a.cfg.Editor.HistoryLimit)),
	)
	if a.script != nil {
		if _, err := a.script.Run(s); err != nil {
			return err
		}
	}

	res, err := s.Export(ctx)
	if err != nil {
		return err
	}
	if err := a.write(j.out, res.Clean); err != nil {
		return err
	}
	if j.censored != "" {
		if err := a.write(j.censored, res.Censored); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) loadPhoto(ctx context.Context, in string) (image.Image, error) {
	if in != pipeName {
		return assets.LoadPhoto(ctx, in)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("`-` should be used with a pipe for stdin")
	}
	return assets.DecodePhoto(os.Stdin)
}

func (a *app) write(out string, img image.Image) error {
	quality := a.cfg.Export.JPEGQuality
	if out != pipeName {
		return stickr.Save(out, img, quality)
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("`-` should be used with a pipe for stdout")
	}
	return stickr.EncodeFormat(os.Stdout, img, imaging.JPEG, quality)
}
