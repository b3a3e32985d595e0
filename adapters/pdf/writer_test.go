package exportpdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/goliatone/go-policydoc/export"
)

func testRaster(t *testing.T, width, height int) export.Raster {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.NRGBA{A: 0})
				continue
			}
			img.Set(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return export.Raster{PNG: buf.Bytes(), Width: width, Height: height}
}

func fixedWriter() *Writer {
	w := NewWriter()
	w.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return w
}

func TestWriter_SinglePageA4(t *testing.T) {
	raster := testRaster(t, 1588, 2246)
	placement := export.Place(export.A4, raster.Width, raster.Height)

	var out bytes.Buffer
	if err := fixedWriter().Write(&out, raster, placement); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected pdf header")
	}
	if got := bytes.Count(out.Bytes(), []byte("/Subtype /Image")); got != 1 {
		t.Fatalf("expected exactly one image, got %d", got)
	}

	info, err := InspectBytes(out.Bytes())
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.PageCount != 1 || len(info.Pages) != 1 {
		t.Fatalf("expected single page, got %+v", info)
	}
	if math.Abs(info.Pages[0].WidthMM-210) > 0.05 || math.Abs(info.Pages[0].HeightMM-297) > 0.05 {
		t.Fatalf("expected 210x297mm, got %+v", info.Pages[0])
	}
}

func TestWriter_PageSizeIndependentOfRaster(t *testing.T) {
	for _, size := range [][2]int{{400, 100}, {100, 900}, {1588, 2246}} {
		raster := testRaster(t, size[0], size[1])
		placement := export.Place(export.A4, raster.Width, raster.Height)

		var out bytes.Buffer
		if err := fixedWriter().Write(&out, raster, placement); err != nil {
			t.Fatalf("write %v: %v", size, err)
		}
		info, err := InspectBytes(out.Bytes())
		if err != nil {
			t.Fatalf("inspect %v: %v", size, err)
		}
		page := info.Pages[0]
		if math.Abs(page.WidthMM-210) > 0.05 || math.Abs(page.HeightMM-297) > 0.05 {
			t.Fatalf("raster %v produced page %+v", size, page)
		}
	}
}

func TestWriter_RejectsEmptyRaster(t *testing.T) {
	var out bytes.Buffer
	err := NewWriter().Write(&out, export.Raster{}, export.Place(export.A4, 1, 1))
	if !errorsIsKind(err, export.KindExportFailed) {
		t.Fatalf("expected export_failed, got %v", err)
	}
}

func TestWriter_RejectsCorruptRaster(t *testing.T) {
	var out bytes.Buffer
	err := NewWriter().Write(&out, export.Raster{PNG: []byte("not a png")}, export.Place(export.A4, 1, 1))
	if !errorsIsKind(err, export.KindExportFailed) {
		t.Fatalf("expected export_failed, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output on failure")
	}
}

func TestFlatten_RemovesTransparency(t *testing.T) {
	raster := testRaster(t, 4, 2)

	flat, size, err := Flatten(raster.PNG, color.White)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if size != image.Pt(4, 2) {
		t.Fatalf("unexpected size %v", size)
	}
	img, err := png.Decode(bytes.NewReader(flat))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Fatalf("expected white background, got %d %d %d %d", r, g, b, a)
	}
	r, g, b, _ = img.At(3, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Fatalf("expected opaque pixel kept, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestDownscale(t *testing.T) {
	raster := testRaster(t, 200, 100)

	small, err := Downscale(raster.PNG, 50)
	if err != nil {
		t.Fatalf("downscale: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(small))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Fatalf("expected 50x25, got %dx%d", cfg.Width, cfg.Height)
	}

	same, err := Downscale(raster.PNG, 400)
	if err != nil {
		t.Fatalf("downscale: %v", err)
	}
	if !bytes.Equal(same, raster.PNG) {
		t.Fatalf("expected raster unchanged")
	}
}

func TestInspect_RejectsGarbage(t *testing.T) {
	if _, err := InspectBytes([]byte("%PDF-1.4 garbage")); err == nil {
		t.Fatalf("expected error for invalid pdf")
	}
}

func errorsIsKind(err error, kind export.ErrorKind) bool {
	return export.KindFromError(err) == kind
}
