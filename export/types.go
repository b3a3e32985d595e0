package export

import (
	"context"
	"io"
	"time"
)

// DefaultFilename is used when an export request carries no filename.
const DefaultFilename = "pension-policy-proposal.pdf"

// DefaultContentContainerID is the element inside the surface shell that
// receives the sanitized document content.
const DefaultContentContainerID = "content-inner"

// Typography describes the text settings shared by the visible document and
// the isolated surface.
type Typography struct {
	FontFamily string
	FontCSSURL string
	FontSizePx int
	LineHeight float64
	Padding    string
	Color      string
	Background string
}

// DefaultTypography mirrors the editable document settings.
func DefaultTypography() Typography {
	return Typography{
		FontFamily: "'Noto Sans Bengali', sans-serif",
		FontCSSURL: "https://fonts.googleapis.com/css2?family=Noto+Sans+Bengali:wght@400;500;600;700&display=swap",
		FontSizePx: 20,
		LineHeight: 1.8,
		Padding:    "60px 80px",
		Color:      "#000000",
		Background: "#ffffff",
	}
}

// SurfaceSpec sizes a new isolated surface in CSS pixels. Scale is the
// device pixel ratio captures will use.
type SurfaceSpec struct {
	Width  int
	Height int
	Scale  float64
}

// CaptureOptions controls rasterization of a surface.
type CaptureOptions struct {
	Width      int
	Height     int
	Scale      float64
	Background string
}

// Raster is an encoded capture of a surface.
type Raster struct {
	PNG    []byte
	Width  int
	Height int
}

// Surface is an isolated rendering context owned by a single export call.
// Implementations must not share styles or layout with any other page.
type Surface interface {
	// Load replaces the surface document.
	Load(ctx context.Context, html string) error
	// WaitReady blocks until the document reports it finished loading or
	// until fallback elapses, whichever comes first.
	WaitReady(ctx context.Context, fallback time.Duration) error
	// WaitFonts blocks until the surface typefaces are loaded.
	WaitFonts(ctx context.Context) error
	// Inject appends the given markup to the element with containerID and
	// reports ErrContentContainerMissing when no such element exists.
	Inject(ctx context.Context, containerID, html string) error
	// Settle waits for layout and paint to stabilize.
	Settle(ctx context.Context, delay time.Duration) error
	// Capture rasterizes exactly opts.Width x opts.Height CSS pixels.
	Capture(ctx context.Context, opts CaptureOptions) (Raster, error)
	// Close tears the surface down. It is safe to call more than once.
	Close() error
}

// SurfaceFactory opens isolated surfaces.
type SurfaceFactory interface {
	Open(ctx context.Context, spec SurfaceSpec) (Surface, error)
}

// SurfaceFactoryFunc adapts a function to a SurfaceFactory.
type SurfaceFactoryFunc func(ctx context.Context, spec SurfaceSpec) (Surface, error)

func (f SurfaceFactoryFunc) Open(ctx context.Context, spec SurfaceSpec) (Surface, error) {
	if f == nil {
		return nil, NewError(KindInternal, "surface factory func is nil", nil)
	}
	return f(ctx, spec)
}

// PageWriter embeds a raster into a single page document.
type PageWriter interface {
	Write(w io.Writer, raster Raster, placement Placement) error
}

// Artifact is the transient result of one export call.
type Artifact struct {
	ID          string
	Filename    string
	ContentType string
	PDF         []byte
	Raster      Raster
	Page        PageSize
	Placement   Placement
	CreatedAt   time.Time
	Duration    time.Duration
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
