// Package exportplaywright opens isolated export surfaces through
// playwright-go. Every surface is a fresh browser context, so no cookies,
// styles or layout leak between exports.
package exportplaywright

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/goliatone/go-policydoc/export"
)

// SurfaceFactory launches a Chromium browser on first use and opens one
// browser context per surface.
type SurfaceFactory struct {
	BrowserPath string
	Headless    bool
	Args        []string
	Timeout     time.Duration
	// SkipInstall assumes the playwright driver and browsers are present.
	SkipInstall bool

	initOnce sync.Once
	initErr  error
	pw       *playwright.Playwright
	browser  playwright.Browser

	open atomic.Int64
}

// Open creates a browser context and page sized to spec.
func (f *SurfaceFactory) Open(ctx context.Context, spec export.SurfaceSpec) (export.Surface, error) {
	if f == nil {
		return nil, export.NewError(export.KindInternal, "playwright surface factory is nil", nil)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, export.NewError(export.KindValidation, fmt.Sprintf("invalid surface size %dx%d", spec.Width, spec.Height), nil)
	}
	if ctx != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := f.ensureBrowser(); err != nil {
		return nil, export.NewError(export.KindIsolatedSurface, "playwright init failed", err)
	}

	scale := spec.Scale
	if scale <= 0 {
		scale = export.DefaultCaptureScale
	}
	browserCtx, err := f.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: spec.Width, Height: spec.Height},
		DeviceScaleFactor: playwright.Float(scale),
		JavaScriptEnabled: playwright.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	pg, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		return nil, err
	}
	if f.Timeout > 0 {
		pg.SetDefaultTimeout(float64(f.Timeout.Milliseconds()))
	}

	f.open.Add(1)
	return &surface{factory: f, context: browserCtx, page: pg, spec: spec}, nil
}

// OpenSurfaces reports surfaces that have been opened and not yet closed.
func (f *SurfaceFactory) OpenSurfaces() int64 {
	if f == nil {
		return 0
	}
	return f.open.Load()
}

// Close stops the browser and the playwright driver.
func (f *SurfaceFactory) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	if f.browser != nil {
		errs = append(errs, f.browser.Close())
		f.browser = nil
	}
	if f.pw != nil {
		errs = append(errs, f.pw.Stop())
		f.pw = nil
	}
	return errors.Join(errs...)
}

func (f *SurfaceFactory) ensureBrowser() error {
	f.initOnce.Do(func() {
		if !f.SkipInstall {
			if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
				f.initErr = fmt.Errorf("install browsers: %w", err)
				return
			}
		}
		pw, err := playwright.Run()
		if err != nil {
			f.initErr = fmt.Errorf("start playwright: %w", err)
			return
		}

		opts := playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(f.Headless),
			Args:     f.Args,
		}
		if f.BrowserPath != "" {
			opts.ExecutablePath = playwright.String(f.BrowserPath)
		}
		browser, err := pw.Chromium.Launch(opts)
		if err != nil {
			_ = pw.Stop()
			f.initErr = fmt.Errorf("launch browser: %w", err)
			return
		}
		f.pw = pw
		f.browser = browser
	})
	return f.initErr
}

type surface struct {
	factory   *SurfaceFactory
	context   playwright.BrowserContext
	page      playwright.Page
	spec      export.SurfaceSpec
	closeOnce sync.Once
}

func (s *surface) Load(ctx context.Context, markup string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.SetContent(markup, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateCommit,
	})
}

func (s *surface) WaitReady(ctx context.Context, fallback time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if fallback <= 0 {
		return nil
	}
	err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: playwright.Float(float64(fallback.Milliseconds())),
	})
	if errors.Is(err, playwright.ErrTimeout) {
		return nil
	}
	return err
}

func (s *surface) WaitFonts(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.evaluate(ctx, `() => document.fonts.ready.then(() => true)`)
	return err
}

func (s *surface) Inject(ctx context.Context, containerID, markup string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.evaluate(ctx, `([id, html]) => {
  const container = document.getElementById(id);
  if (!container) { return false; }
  container.insertAdjacentHTML("beforeend", html);
  return true;
}`, []any{containerID, markup})
	if err != nil {
		return err
	}
	if found, _ := result.(bool); !found {
		return export.NewError(export.KindContainerMissing, export.ErrContentContainerMissing.Msg, fmt.Errorf("no element with id %q", containerID))
	}
	return nil
}

func (s *surface) Settle(ctx context.Context, delay time.Duration) error {
	if _, err := s.evaluate(ctx, `() => new Promise(resolve => requestAnimationFrame(() => requestAnimationFrame(() => resolve(true))))`); err != nil {
		return err
	}
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *surface) Capture(ctx context.Context, opts export.CaptureOptions) (export.Raster, error) {
	if err := ctx.Err(); err != nil {
		return export.Raster{}, err
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = s.spec.Width, s.spec.Height
	}
	if opts.Background != "" {
		if _, err := s.evaluate(ctx, `(color) => { document.documentElement.style.background = color; return true; }`, opts.Background); err != nil {
			return export.Raster{}, err
		}
	}

	buf, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Type:  playwright.ScreenshotTypePng,
		Scale: playwright.ScreenshotScaleDevice,
		Clip: &playwright.Rect{
			X:      0,
			Y:      0,
			Width:  float64(width),
			Height: float64(height),
		},
	})
	if err != nil {
		return export.Raster{}, err
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return export.Raster{}, export.NewError(export.KindExportFailed, "decode capture", err)
	}
	return export.Raster{PNG: buf, Width: cfg.Width, Height: cfg.Height}, nil
}

func (s *surface) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.context.Close()
		s.factory.open.Add(-1)
	})
	return err
}

// evaluate runs a page script and gives up early when ctx ends. The
// script keeps running in the page; Close tears it down with the context.
func (s *surface) evaluate(ctx context.Context, expression string, arg ...any) (any, error) {
	type result struct {
		value any
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := s.page.Evaluate(expression, arg...)
		done <- result{value: value, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.value, res.err
	}
}
