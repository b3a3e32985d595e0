package command

import (
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-policydoc/document"
	"github.com/goliatone/go-policydoc/editor"
	"github.com/goliatone/go-policydoc/export"
)

func serviceRequired() error {
	return errors.New("editor service is required", errors.CategoryInternal).
		WithTextCode("SERVICE_REQUIRED")
}

// UpdateFieldHandler applies field edits.
type UpdateFieldHandler struct {
	Service editor.Service
}

func NewUpdateFieldHandler(svc editor.Service) *UpdateFieldHandler {
	return &UpdateFieldHandler{Service: svc}
}

func (h *UpdateFieldHandler) Execute(ctx context.Context, msg UpdateField) error {
	if h == nil || h.Service == nil {
		return serviceRequired()
	}
	field, err := h.Service.UpdateField(ctx, msg.ID, msg.Value)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = field
	}
	if res := gcmd.ResultFromContext[document.Field](ctx); res != nil {
		res.Store(field)
	}
	return nil
}

// SeedFieldsHandler seeds empty fields.
type SeedFieldsHandler struct {
	Service editor.Service
}

func NewSeedFieldsHandler(svc editor.Service) *SeedFieldsHandler {
	return &SeedFieldsHandler{Service: svc}
}

func (h *SeedFieldsHandler) Execute(ctx context.Context, msg SeedFields) error {
	if h == nil || h.Service == nil {
		return serviceRequired()
	}
	seeded, err := h.Service.Seed(ctx, msg.Values)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = seeded
	}
	if res := gcmd.ResultFromContext[int](ctx); res != nil {
		res.Store(seeded)
	}
	return nil
}

// ExportDocumentHandler runs the export pipeline.
type ExportDocumentHandler struct {
	Service editor.Service
}

func NewExportDocumentHandler(svc editor.Service) *ExportDocumentHandler {
	return &ExportDocumentHandler{Service: svc}
}

func (h *ExportDocumentHandler) Execute(ctx context.Context, msg ExportDocument) error {
	if h == nil || h.Service == nil {
		return serviceRequired()
	}
	artifact, err := h.Service.Export(ctx, msg.Request)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = artifact
	}
	if res := gcmd.ResultFromContext[export.Artifact](ctx); res != nil {
		res.Store(artifact)
	}
	return nil
}
