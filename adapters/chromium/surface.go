// Package exportchromium opens isolated export surfaces as tabs of a shared
// headless Chromium instance driven through chromedp.
package exportchromium

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/goliatone/go-policydoc/export"
)

const readyPollInterval = 10 * time.Millisecond

var blockedURLPatterns = []*network.BlockPattern{
	{URLPattern: "http://*:*/*", Block: true},
	{URLPattern: "https://*:*/*", Block: true},
}

// SurfaceFactory starts Chromium lazily and hands out one tab per surface.
type SurfaceFactory struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string
	// BlockExternalAssets stops the surface from fetching remote resources,
	// web fonts included.
	BlockExternalAssets bool

	mu            sync.Mutex
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	open atomic.Int64
}

// Open creates a new tab sized to spec.
func (f *SurfaceFactory) Open(ctx context.Context, spec export.SurfaceSpec) (export.Surface, error) {
	if f == nil {
		return nil, export.NewError(export.KindInternal, "chromium surface factory is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, export.NewError(export.KindValidation, fmt.Sprintf("invalid surface size %dx%d", spec.Width, spec.Height), nil)
	}
	browserCtx, err := f.ensureBrowser()
	if err != nil {
		return nil, export.NewError(export.KindIsolatedSurface, "chromium init failed", err)
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	s := &surface{factory: f, tabCtx: tabCtx, cancel: cancel, spec: spec}
	f.open.Add(1)

	if err := s.attach(ctx); err != nil {
		_ = s.Close()
		return nil, export.NewError(export.KindIsolatedSurface, "chromium tab failed", err)
	}

	actions := []chromedp.Action{}
	if f.BlockExternalAssets {
		actions = append(actions,
			network.Enable(),
			network.SetBlockedURLs().WithURLPatterns(blockedURLPatterns),
		)
	}
	actions = append(actions,
		chromedp.EmulateViewport(int64(spec.Width), int64(spec.Height)),
		chromedp.Navigate("about:blank"),
	)
	if err := s.run(ctx, actions...); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// OpenSurfaces reports tabs that have been opened and not yet closed.
func (f *SurfaceFactory) OpenSurfaces() int64 {
	if f == nil {
		return 0
	}
	return f.open.Load()
}

// Close releases Chromium resources if they have been initialized.
func (f *SurfaceFactory) Close() error {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.release()
	return nil
}

func (f *SurfaceFactory) release() {
	if f.browserCancel != nil {
		f.browserCancel()
	}
	if f.allocCancel != nil {
		f.allocCancel()
	}
	f.allocCtx, f.allocCancel = nil, nil
	f.browserCtx, f.browserCancel = nil, nil
}

// ensureBrowser starts Chromium once. The first Run on the browser context
// owns the process, so it gets no deadline. A failed start is not cached.
func (f *SurfaceFactory) ensureBrowser() (context.Context, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browserCtx != nil {
		return f.browserCtx, nil
	}

	options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if f.BrowserPath != "" {
		options = append(options, chromedp.ExecPath(f.BrowserPath))
	}
	options = append(options, chromedp.Flag("headless", f.Headless))
	options = append(options, chromedp.Flag("hide-scrollbars", true))
	options = append(options, allocatorOptionsFromArgs(f.Args)...)

	f.allocCtx, f.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
	f.browserCtx, f.browserCancel = chromedp.NewContext(f.allocCtx)
	if err := chromedp.Run(f.browserCtx); err != nil {
		f.release()
		return nil, err
	}
	return f.browserCtx, nil
}

type surface struct {
	factory   *SurfaceFactory
	tabCtx    context.Context
	cancel    context.CancelFunc
	spec      export.SurfaceSpec
	closeOnce sync.Once
}

// attach creates the tab. The target lives as long as the context of its
// first Run, so that Run uses tabCtx directly and ctx or the factory timeout
// close the tab instead.
func (s *surface) attach(ctx context.Context) error {
	stop := context.AfterFunc(ctx, s.cancel)
	defer stop()
	if s.factory.Timeout > 0 {
		timer := time.AfterFunc(s.factory.Timeout, s.cancel)
		defer timer.Stop()
	}

	err := chromedp.Run(s.tabCtx)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// run executes actions on the tab while honoring cancellation of ctx and
// the factory timeout.
func (s *surface) run(ctx context.Context, actions ...chromedp.Action) error {
	execCtx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-execCtx.Done():
		}
	}()
	if s.factory.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		execCtx, cancelTimeout = context.WithTimeout(execCtx, s.factory.Timeout)
		defer cancelTimeout()
	}

	err := chromedp.Run(execCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *surface) Load(ctx context.Context, markup string) error {
	return s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, markup).Do(ctx)
	}))
}

// WaitReady polls the load state until the document completes or fallback
// elapses. Reaching the fallback is not an error.
func (s *surface) WaitReady(ctx context.Context, fallback time.Duration) error {
	deadline := time.Now().Add(fallback)
	for {
		var state string
		if err := s.run(ctx, chromedp.Evaluate(`document.readyState`, &state)); err != nil {
			return err
		}
		if state == "complete" || !time.Now().Before(deadline) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyPollInterval):
		}
	}
}

func (s *surface) WaitFonts(ctx context.Context) error {
	var ok bool
	return s.run(ctx, chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &ok, awaitPromise))
}

func (s *surface) Inject(ctx context.Context, containerID, markup string) error {
	id, err := json.Marshal(containerID)
	if err != nil {
		return err
	}
	content, err := json.Marshal(markup)
	if err != nil {
		return err
	}

	script := fmt.Sprintf(`(function(id, html) {
  var container = document.getElementById(id);
  if (!container) { return false; }
  container.insertAdjacentHTML("beforeend", html);
  return true;
})(%s, %s)`, id, content)

	var found bool
	if err := s.run(ctx, chromedp.Evaluate(script, &found)); err != nil {
		return err
	}
	if !found {
		return export.NewError(export.KindContainerMissing, export.ErrContentContainerMissing.Msg, fmt.Errorf("no element with id %q", containerID))
	}
	return nil
}

// Settle waits for two animation frames so layout and paint have run, then
// for delay.
func (s *surface) Settle(ctx context.Context, delay time.Duration) error {
	var ok bool
	script := `new Promise(resolve => requestAnimationFrame(() => requestAnimationFrame(() => resolve(true))))`
	if err := s.run(ctx, chromedp.Evaluate(script, &ok, awaitPromise)); err != nil {
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
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = s.spec.Width, s.spec.Height
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = export.DefaultCaptureScale
	}
	background, err := parseHexColor(opts.Background)
	if err != nil {
		return export.Raster{}, err
	}

	var buf []byte
	err = s.run(ctx,
		emulation.SetDefaultBackgroundColorOverride().WithColor(background),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{X: 0, Y: 0, Width: float64(width), Height: float64(height), Scale: scale}).
				WithFromSurface(true).
				Do(ctx)
			return err
		}),
	)
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
	s.closeOnce.Do(func() {
		s.cancel()
		s.factory.open.Add(-1)
	})
	return nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// parseHexColor accepts #rgb and #rrggbb. An empty value is white.
func parseHexColor(value string) (*cdp.RGBA, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if value == "" {
		return &cdp.RGBA{R: 255, G: 255, B: 255, A: 1}, nil
	}
	if len(value) == 3 {
		value = string([]byte{value[0], value[0], value[1], value[1], value[2], value[2]})
	}
	if len(value) != 6 {
		return nil, export.NewError(export.KindValidation, fmt.Sprintf("invalid background color %q", value), nil)
	}
	rgb, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return nil, export.NewError(export.KindValidation, fmt.Sprintf("invalid background color %q", value), err)
	}
	return &cdp.RGBA{
		R: int64(rgb >> 16 & 0xff),
		G: int64(rgb >> 8 & 0xff),
		B: int64(rgb & 0xff),
		A: 1,
	}, nil
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
