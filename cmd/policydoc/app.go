package main

import (
	"context"
	"fmt"

	"github.com/flanksource/commons/logger"
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"

	exportchromium "github.com/goliatone/go-policydoc/adapters/chromium"
	exportpdf "github.com/goliatone/go-policydoc/adapters/pdf"
	exportplaywright "github.com/goliatone/go-policydoc/adapters/playwright"
	"github.com/goliatone/go-policydoc/command"
	"github.com/goliatone/go-policydoc/config"
	"github.com/goliatone/go-policydoc/document"
	"github.com/goliatone/go-policydoc/editor"
	"github.com/goliatone/go-policydoc/export"
)

type surfaceFactory interface {
	export.SurfaceFactory
	Close() error
}

// App holds the application dependencies.
type App struct {
	Config   config.Config
	Logger   logger.Logger
	Pipeline *export.Pipeline
	Service  editor.Service

	surfaces      surfaceFactory
	subscriptions []dispatcher.Subscription
}

// NewApp wires the rasterization engine, the pipeline and the editor
// service from cfg.
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.GetLogger("policydoc")

	surfaces, err := newSurfaceFactory(cfg)
	if err != nil {
		return nil, err
	}

	writer := exportpdf.NewWriter()
	writer.Compress = cfg.Export.Compress
	writer.MaxWidth = cfg.Export.MaxRasterWidth

	pipeline := export.NewPipeline(surfaces, writer)
	pipeline.Scale = cfg.Export.Scale
	pipeline.DPI = cfg.Export.DPI
	pipeline.Typography = cfg.TypographySettings()
	pipeline.ReadyFallback = cfg.Export.ReadyFallback.Duration
	pipeline.FontTimeout = cfg.Export.FontTimeout.Duration
	pipeline.SettleDelay = cfg.Export.SettleDelay.Duration
	pipeline.Logger = log

	app := &App{
		Config:   cfg,
		Logger:   log,
		Pipeline: pipeline,
		surfaces: surfaces,
	}
	app.Service = app.NewService(document.SampleData())

	subs, err := command.RegisterHandlers(gcmd.NewRegistry(), app.Service)
	if err != nil {
		_ = surfaces.Close()
		return nil, fmt.Errorf("register command handlers: %w", err)
	}
	app.subscriptions = subs

	log.Debugf("engine=%s scale=%v settle=%s", cfg.Browser.Engine, cfg.Export.Scale, cfg.Export.SettleDelay.Duration)
	return app, nil
}

// NewService creates an editor seeded with initial, sharing the app
// pipeline.
func (a *App) NewService(initial map[string]string) editor.Service {
	return editor.NewService(editor.Config{
		Template:    document.PensionProposal(),
		Pipeline:    a.Pipeline,
		InitialData: initial,
		Logger:      a.Logger,
	})
}

// Close releases command subscriptions and the browser.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	command.Unsubscribe(a.subscriptions)
	a.subscriptions = nil
	if a.surfaces == nil {
		return nil
	}
	if open := a.Pipeline.OpenSurfaces(); open > 0 {
		a.Logger.Warnf("closing browser with %d surface(s) still open", open)
	}
	return a.surfaces.Close()
}

func newSurfaceFactory(cfg config.Config) (surfaceFactory, error) {
	switch cfg.Browser.Engine {
	case config.EngineChromium:
		return &exportchromium.SurfaceFactory{
			BrowserPath:         cfg.Browser.Path,
			Headless:            cfg.Browser.Headless,
			Timeout:             cfg.Browser.Timeout.Duration,
			Args:                cfg.Browser.Args,
			BlockExternalAssets: cfg.Browser.BlockExternalAssets,
		}, nil
	case config.EnginePlaywright:
		return &exportplaywright.SurfaceFactory{
			BrowserPath: cfg.Browser.Path,
			Headless:    cfg.Browser.Headless,
			Args:        cfg.Browser.Args,
			Timeout:     cfg.Browser.Timeout.Duration,
			SkipInstall: !cfg.Browser.InstallPlaywright,
		}, nil
	default:
		return nil, fmt.Errorf("unknown browser engine %q", cfg.Browser.Engine)
	}
}
