package exportpdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/goliatone/go-policydoc/export"
)

// Flatten composites a PNG raster over an opaque background and re-encodes
// it. PDF image objects with an alpha channel need a soft mask, so the
// writer only ever embeds opaque images.
func Flatten(raster []byte, background color.Color) ([]byte, image.Point, error) {
	src, err := png.Decode(bytes.NewReader(raster))
	if err != nil {
		return nil, image.Point{}, export.NewError(export.KindExportFailed, "decode raster", err)
	}
	if background == nil {
		background = color.White
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := encoder.Encode(&buf, dst); err != nil {
		return nil, image.Point{}, export.NewError(export.KindExportFailed, "encode raster", err)
	}
	return buf.Bytes(), image.Pt(bounds.Dx(), bounds.Dy()), nil
}

// Downscale resizes a raster to fit within maxWidth pixels, keeping its
// aspect ratio. Rasters already narrow enough are returned unchanged.
func Downscale(raster []byte, maxWidth int) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(raster))
	if err != nil {
		return nil, export.NewError(export.KindExportFailed, "decode raster", err)
	}
	bounds := src.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return raster, nil
	}

	height := bounds.Dy() * maxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, export.NewError(export.KindExportFailed, "encode raster", err)
	}
	return buf.Bytes(), nil
}
