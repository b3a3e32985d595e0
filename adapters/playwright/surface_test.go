package exportplaywright

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/goliatone/go-policydoc/export"
)

func newTestFactory(t *testing.T) *SurfaceFactory {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping playwright test in short mode")
	}
	if os.Getenv("POLICYDOC_PLAYWRIGHT_TESTS") == "" {
		t.Skip("set POLICYDOC_PLAYWRIGHT_TESTS=1 to run playwright tests")
	}

	factory := &SurfaceFactory{
		Headless: true,
		Timeout:  20 * time.Second,
		Args:     []string{"--no-sandbox"},
	}
	t.Cleanup(func() {
		_ = factory.Close()
	})
	return factory
}

func TestSurfaceFactory_OpenRejectsInvalidSize(t *testing.T) {
	factory := &SurfaceFactory{}
	if _, err := factory.Open(context.Background(), export.SurfaceSpec{Width: 10}); err == nil {
		t.Fatalf("expected error for invalid size")
	}
}

func TestSurfaceFactory_OpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	factory := &SurfaceFactory{}
	if _, err := factory.Open(ctx, export.SurfaceSpec{Width: 10, Height: 10}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestSurface_CaptureFixedSize(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	surface, err := factory.Open(ctx, export.SurfaceSpec{Width: 794, Height: 1123, Scale: 2})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer surface.Close()

	shell, err := export.RenderSurfaceShell(export.Typography{FontSizePx: 20, LineHeight: 1.8, Color: "#000000", Background: "#ffffff"}, "", 794, 1123)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	if err := surface.Load(ctx, shell); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := surface.WaitReady(ctx, 100*time.Millisecond); err != nil {
		t.Fatalf("ready: %v", err)
	}
	if err := surface.Inject(ctx, export.DefaultContentContainerID, "<p>short</p>"); err != nil {
		t.Fatalf("inject: %v", err)
	}
	if err := surface.Inject(ctx, "missing", "<p>x</p>"); !errors.Is(err, export.ErrContentContainerMissing) {
		t.Fatalf("expected container missing, got %v", err)
	}

	raster, err := surface.Capture(ctx, export.CaptureOptions{Width: 794, Height: 1123, Scale: 2, Background: "#ffffff"})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if raster.Width != 1588 || raster.Height != 2246 {
		t.Fatalf("expected 1588x2246, got %dx%d", raster.Width, raster.Height)
	}
	_ = surface.Close()
	if factory.OpenSurfaces() != 0 {
		t.Fatalf("expected surface closed")
	}
}
