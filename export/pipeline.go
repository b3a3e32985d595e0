package export

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/goliatone/go-policydoc/dom"
)

const (
	DefaultReadyFallback = 100 * time.Millisecond
	DefaultFontTimeout   = 5 * time.Second
	DefaultSettleDelay   = 500 * time.Millisecond
)

// Pipeline rasterizes a document subtree at a fixed page size and wraps the
// image in a single page PDF.
type Pipeline struct {
	Surfaces    SurfaceFactory
	Writer      PageWriter
	Page        PageSize
	DPI         float64
	Scale       float64
	Typography  Typography
	ContainerID string

	ReadyFallback time.Duration
	FontTimeout   time.Duration
	SettleDelay   time.Duration

	Logger      Logger
	Now         func() time.Time
	IDGenerator func() string

	open atomic.Int64
}

// NewPipeline creates a pipeline with default A4 settings.
func NewPipeline(surfaces SurfaceFactory, writer PageWriter) *Pipeline {
	return &Pipeline{
		Surfaces:      surfaces,
		Writer:        writer,
		Page:          A4,
		DPI:           ReferenceDPI,
		Scale:         DefaultCaptureScale,
		Typography:    DefaultTypography(),
		ContainerID:   DefaultContentContainerID,
		ReadyFallback: DefaultReadyFallback,
		FontTimeout:   DefaultFontTimeout,
		SettleDelay:   DefaultSettleDelay,
		Logger:        NopLogger{},
		Now:           time.Now,
		IDGenerator:   defaultIDGenerator(),
	}
}

// OpenSurfaces reports how many surfaces this pipeline currently holds.
func (p *Pipeline) OpenSurfaces() int64 {
	if p == nil {
		return 0
	}
	return p.open.Load()
}

// Export resolves sourceElementID in host, renders it on an isolated A4
// surface and returns the PDF artifact. The host tree is never modified and
// the surface is released on every exit path.
func (p *Pipeline) Export(ctx context.Context, host *html.Node, sourceElementID, filename string) (artifact Artifact, err error) {
	if p == nil {
		return Artifact{}, NewError(KindInternal, "pipeline is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := p.resolve()

	source := dom.FindByID(host, sourceElementID)
	if source == nil {
		return Artifact{}, NewError(KindElementNotFound, fmt.Sprintf("element with id %q not found", sourceElementID), nil)
	}
	if p.Surfaces == nil {
		return Artifact{}, NewError(KindInternal, "pipeline requires a surface factory", nil)
	}
	if p.Writer == nil {
		return Artifact{}, NewError(KindInternal, "pipeline requires a page writer", nil)
	}

	name := NormalizeFilename(filename)
	id := cfg.newID()
	started := cfg.now()
	cfg.logger.Debugf("export %s: source=%s filename=%s", id, sourceElementID, name)

	defer func() {
		if recovered := recover(); recovered != nil {
			err = NewError(KindExportFailed, ErrExportFailed.Msg, fmt.Errorf("panic: %v", recovered))
		}
		if err != nil {
			err = normalizeError(err)
			cfg.logger.Errorf("export %s failed: %v", id, err)
		}
	}()

	width, height := cfg.page.Pixels(cfg.dpi)
	raster, err := p.rasterize(ctx, cfg, source, width, height)
	if err != nil {
		return Artifact{}, err
	}

	placement := Place(cfg.page, raster.Width, raster.Height)
	var buf bytes.Buffer
	if err := p.Writer.Write(&buf, raster, placement); err != nil {
		return Artifact{}, err
	}

	artifact = Artifact{
		ID:          id,
		Filename:    name,
		ContentType: "application/pdf",
		PDF:         buf.Bytes(),
		Raster:      raster,
		Page:        cfg.page,
		Placement:   placement,
		CreatedAt:   started,
		Duration:    cfg.now().Sub(started),
	}
	cfg.logger.Infof("export %s: %dx%d raster, %d bytes pdf in %s", id, raster.Width, raster.Height, len(artifact.PDF), artifact.Duration)
	return artifact, nil
}

func (p *Pipeline) rasterize(ctx context.Context, cfg settings, source *html.Node, width, height int) (Raster, error) {
	surface, err := p.Surfaces.Open(ctx, SurfaceSpec{Width: width, Height: height, Scale: cfg.scale})
	if err != nil {
		return Raster{}, NewError(KindIsolatedSurface, ErrIsolatedSurface.Msg, err)
	}
	if surface == nil {
		return Raster{}, NewError(KindIsolatedSurface, ErrIsolatedSurface.Msg, nil)
	}
	p.open.Add(1)
	defer func() {
		if cerr := surface.Close(); cerr != nil {
			cfg.logger.Errorf("close isolated surface: %v", cerr)
		}
		p.open.Add(-1)
	}()

	shell, err := RenderSurfaceShell(cfg.typography, cfg.containerID, width, height)
	if err != nil {
		return Raster{}, NewError(KindIsolatedSurface, "render surface shell", err)
	}
	if err := surface.Load(ctx, shell); err != nil {
		return Raster{}, NewError(KindIsolatedSurface, ErrIsolatedSurface.Msg, err)
	}
	if err := surface.WaitReady(ctx, cfg.readyFallback); err != nil {
		return Raster{}, err
	}
	if err := waitFonts(ctx, surface, cfg.fontTimeout); err != nil {
		return Raster{}, err
	}

	clone := sanitizedClone(source, cfg.typography.Color)
	content, err := dom.InnerHTML(clone)
	if err != nil {
		return Raster{}, err
	}
	if err := surface.Inject(ctx, cfg.containerID, content); err != nil {
		return Raster{}, err
	}
	if err := surface.Settle(ctx, cfg.settleDelay); err != nil {
		return Raster{}, err
	}

	return surface.Capture(ctx, CaptureOptions{
		Width:      width,
		Height:     height,
		Scale:      cfg.scale,
		Background: cfg.typography.Background,
	})
}

func waitFonts(ctx context.Context, surface Surface, timeout time.Duration) error {
	fontCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		fontCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := surface.WaitFonts(fontCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return NewError(KindExportFailed, "typeface did not finish loading", err)
	}
	return nil
}

type settings struct {
	page          PageSize
	dpi           float64
	scale         float64
	typography    Typography
	containerID   string
	readyFallback time.Duration
	fontTimeout   time.Duration
	settleDelay   time.Duration
	logger        Logger
	now           func() time.Time
	newID         func() string
}

func (p *Pipeline) resolve() settings {
	cfg := settings{
		page:          p.Page,
		dpi:           p.DPI,
		scale:         p.Scale,
		typography:    p.Typography,
		containerID:   p.ContainerID,
		readyFallback: p.ReadyFallback,
		fontTimeout:   p.FontTimeout,
		settleDelay:   p.SettleDelay,
		logger:        p.Logger,
		now:           p.Now,
		newID:         p.IDGenerator,
	}
	if cfg.page.WidthMM == 0 || cfg.page.HeightMM == 0 {
		cfg.page = A4
	}
	if cfg.dpi <= 0 {
		cfg.dpi = ReferenceDPI
	}
	if cfg.scale <= 0 {
		cfg.scale = DefaultCaptureScale
	}
	if cfg.typography == (Typography{}) {
		cfg.typography = DefaultTypography()
	}
	if cfg.typography.Color == "" {
		cfg.typography.Color = "#000000"
	}
	if cfg.typography.Background == "" {
		cfg.typography.Background = "#ffffff"
	}
	if cfg.containerID == "" {
		cfg.containerID = DefaultContentContainerID
	}
	if cfg.logger == nil {
		cfg.logger = NopLogger{}
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	if cfg.newID == nil {
		cfg.newID = defaultIDGenerator()
	}
	return cfg
}

func defaultIDGenerator() func() string {
	return func() string {
		return uuid.NewString()
	}
}
