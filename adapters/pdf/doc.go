// Package exportpdf builds the single page PDF documents produced by the
// export pipeline and inspects them afterwards.
//
// Writer embeds one raster at explicit millimeter offsets on a fixed size
// page using gofpdf. Inspect reads a produced document back with pdfcpu.
package exportpdf
