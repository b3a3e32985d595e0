package exportpdf

import (
	"bytes"
	"image/color"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/goliatone/go-policydoc/export"
)

const rasterImageName = "page"

// Writer places one raster on a single page PDF.
type Writer struct {
	Title      string
	Creator    string
	Background color.Color
	Compress   bool
	// MaxWidth downscales wider rasters before embedding. Zero keeps them.
	MaxWidth int
	Now      func() time.Time
}

// NewWriter returns a writer with compression on and a white background.
func NewWriter() *Writer {
	return &Writer{
		Title:      "পেনশন পলিসি প্রস্তাব",
		Creator:    "policydoc",
		Background: color.White,
		Compress:   true,
		Now:        time.Now,
	}
}

// Write implements export.PageWriter.
func (w *Writer) Write(out io.Writer, raster export.Raster, placement export.Placement) error {
	if w == nil {
		return export.NewError(export.KindInternal, "pdf writer is nil", nil)
	}
	if out == nil {
		return export.NewError(export.KindInternal, "pdf writer requires output", nil)
	}
	if len(raster.PNG) == 0 {
		return export.NewError(export.KindExportFailed, "raster is empty", nil)
	}

	page := placement.Page
	if page.WidthMM <= 0 || page.HeightMM <= 0 {
		page = export.A4
	}

	flat, _, err := Flatten(raster.PNG, w.Background)
	if err != nil {
		return err
	}
	if w.MaxWidth > 0 {
		if flat, err = Downscale(flat, w.MaxWidth); err != nil {
			return err
		}
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: page.WidthMM, Ht: page.HeightMM},
	})
	doc.SetCompression(w.Compress)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	if w.Title != "" {
		doc.SetTitle(w.Title, true)
	}
	if w.Creator != "" {
		doc.SetCreator(w.Creator, true)
	}
	if w.Now != nil {
		doc.SetCreationDate(w.Now())
	}
	doc.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(rasterImageName, opts, bytes.NewReader(flat))
	doc.ImageOptions(rasterImageName, placement.X, placement.Y, placement.Width, placement.Height, false, opts, 0, "")
	if doc.Err() {
		return export.NewError(export.KindExportFailed, "embed raster", doc.Error())
	}

	if err := doc.Output(out); err != nil {
		return export.NewError(export.KindExportFailed, "write pdf", err)
	}
	return nil
}
