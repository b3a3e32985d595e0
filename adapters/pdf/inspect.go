package exportpdf

import (
	"bytes"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/goliatone/go-policydoc/export"
)

const mmPerPoint = 25.4 / 72.0

// PageInfo is the size of one page in millimeters.
type PageInfo struct {
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// Info summarizes a PDF document.
type Info struct {
	PageCount int        `json:"page_count"`
	Pages     []PageInfo `json:"pages"`
	Title     string     `json:"title,omitempty"`
	Creator   string     `json:"creator,omitempty"`
}

// Inspect validates a PDF and reports its page geometry.
func Inspect(rs io.ReadSeeker) (Info, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return Info{}, export.NewError(export.KindValidation, "read pdf", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return Info{}, export.NewError(export.KindValidation, "validate pdf", err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return Info{}, export.NewError(export.KindValidation, "read page dimensions", err)
	}

	info := Info{
		PageCount: ctx.PageCount,
		Title:     ctx.Title,
		Creator:   ctx.Creator,
	}
	for _, dim := range dims {
		info.Pages = append(info.Pages, PageInfo{
			WidthMM:  dim.Width * mmPerPoint,
			HeightMM: dim.Height * mmPerPoint,
		})
	}
	return info, nil
}

// InspectBytes is Inspect over an in-memory document.
func InspectBytes(pdf []byte) (Info, error) {
	return Inspect(bytes.NewReader(pdf))
}
