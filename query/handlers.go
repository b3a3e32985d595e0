package query

import (
	"context"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-policydoc/document"
	"github.com/goliatone/go-policydoc/dom"
	"github.com/goliatone/go-policydoc/editor"
)

func serviceRequired() error {
	return errors.New("editor service is required", errors.CategoryInternal).
		WithTextCode("SERVICE_REQUIRED")
}

// DocumentFieldsHandler returns the field snapshot.
type DocumentFieldsHandler struct {
	Service editor.Service
}

func NewDocumentFieldsHandler(svc editor.Service) *DocumentFieldsHandler {
	return &DocumentFieldsHandler{Service: svc}
}

func (h *DocumentFieldsHandler) Query(ctx context.Context, msg DocumentFields) ([]document.Field, error) {
	if h == nil || h.Service == nil {
		return nil, serviceRequired()
	}
	return h.Service.Fields(ctx)
}

// RenderedDocumentHandler returns rendered markup.
type RenderedDocumentHandler struct {
	Service editor.Service
}

func NewRenderedDocumentHandler(svc editor.Service) *RenderedDocumentHandler {
	return &RenderedDocumentHandler{Service: svc}
}

func (h *RenderedDocumentHandler) Query(ctx context.Context, msg RenderedDocument) (string, error) {
	if h == nil || h.Service == nil {
		return "", serviceRequired()
	}
	if !msg.Full {
		return h.Service.ContentHTML(ctx)
	}
	host, err := h.Service.HostDocument(ctx)
	if err != nil {
		return "", err
	}
	return dom.OuterHTML(host)
}

// LastExportHandler returns the latest export summary.
type LastExportHandler struct {
	Service editor.Service
}

func NewLastExportHandler(svc editor.Service) *LastExportHandler {
	return &LastExportHandler{Service: svc}
}

func (h *LastExportHandler) Query(ctx context.Context, msg LastExport) (editor.ExportSummary, error) {
	if h == nil || h.Service == nil {
		return editor.ExportSummary{}, serviceRequired()
	}
	summary, ok := h.Service.LastExport()
	if !ok {
		return editor.ExportSummary{}, errors.New("no export has completed yet", errors.CategoryNotFound).
			WithTextCode("EXPORT_NOT_FOUND")
	}
	return summary, nil
}
