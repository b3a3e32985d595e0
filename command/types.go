package command

import (
	"strings"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-policydoc/document"
	"github.com/goliatone/go-policydoc/editor"
	"github.com/goliatone/go-policydoc/export"
)

// UpdateField records a user edit of one slot.
type UpdateField struct {
	ID     string
	Value  string
	Result *document.Field
}

func (UpdateField) Type() string { return "policydoc:field:update" }

func (msg UpdateField) Validate() error {
	if strings.TrimSpace(msg.ID) == "" {
		return errors.New("field ID is required", errors.CategoryValidation).
			WithTextCode("FIELD_ID_REQUIRED")
	}
	return nil
}

// SeedFields seeds slots that have no content yet.
type SeedFields struct {
	Values map[string]string
	Result *int
}

func (SeedFields) Type() string { return "policydoc:field:seed" }

func (msg SeedFields) Validate() error {
	if len(msg.Values) == 0 {
		return errors.New("seed values are required", errors.CategoryValidation).
			WithTextCode("SEED_VALUES_REQUIRED")
	}
	return nil
}

// ExportDocument exports the current document to PDF.
type ExportDocument struct {
	Request editor.ExportRequest
	Result  *export.Artifact
}

func (ExportDocument) Type() string { return "policydoc:export" }

func (msg ExportDocument) Validate() error {
	if strings.ContainsRune(msg.Request.Filename, 0) {
		return errors.New("filename contains invalid characters", errors.CategoryValidation).
			WithTextCode("FILENAME_INVALID")
	}
	return nil
}
