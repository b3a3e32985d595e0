package export

import "math"

const (
	// ReferenceDPI is the CSS reference resolution used to size the surface.
	ReferenceDPI = 96.0
	// DefaultCaptureScale oversamples the surface for output sharpness.
	DefaultCaptureScale = 2.0

	mmPerInch = 25.4
)

// PageSize is a physical page in millimeters.
type PageSize struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// A4 is the only page format the pipeline produces.
var A4 = PageSize{Name: "A4", WidthMM: 210, HeightMM: 297}

// Pixels returns the page size in CSS pixels at dpi, rounded to the nearest
// pixel. A4 at 96 DPI is 794x1123.
func (p PageSize) Pixels(dpi float64) (int, int) {
	if dpi <= 0 {
		dpi = ReferenceDPI
	}
	w := math.Round(p.WidthMM / mmPerInch * dpi)
	h := math.Round(p.HeightMM / mmPerInch * dpi)
	return int(w), int(h)
}

// AspectRatio is width over height.
func (p PageSize) AspectRatio() float64 {
	if p.HeightMM == 0 {
		return 0
	}
	return p.WidthMM / p.HeightMM
}

// Placement positions an image on a page, all values in millimeters.
type Placement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Page   PageSize
}

// Place fits an image of imgW x imgH pixels onto page preserving its aspect
// ratio. A relatively wider image spans the page width and is centered
// vertically; otherwise it spans the page height and is centered
// horizontally.
func Place(page PageSize, imgW, imgH int) Placement {
	placement := Placement{
		Width:  page.WidthMM,
		Height: page.HeightMM,
		Page:   page,
	}
	if imgW <= 0 || imgH <= 0 {
		return placement
	}

	imageRatio := float64(imgW) / float64(imgH)
	if imageRatio > page.AspectRatio() {
		placement.Height = page.WidthMM / imageRatio
		placement.Y = (page.HeightMM - placement.Height) / 2
		return placement
	}

	placement.Width = page.HeightMM * imageRatio
	placement.X = (page.WidthMM - placement.Width) / 2
	return placement
}
