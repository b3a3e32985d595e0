package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-policydoc/document"
	"github.com/goliatone/go-policydoc/editor"
)

func newService() editor.Service {
	return editor.NewService(editor.Config{InitialData: document.SampleData()})
}

func TestDocumentFieldsHandler(t *testing.T) {
	fields, err := NewDocumentFieldsHandler(newService()).Query(context.Background(), DocumentFields{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(fields) != 7 || fields[6].ID != document.FieldTotalDeposit {
		t.Fatalf("unexpected fields %+v", fields)
	}
}

func TestRenderedDocumentHandler(t *testing.T) {
	handler := NewRenderedDocumentHandler(newService())

	content, err := handler.Query(context.Background(), RenderedDocument{})
	if err != nil {
		t.Fatalf("query content: %v", err)
	}
	if !strings.HasPrefix(content, `<div id="editable-document-content"`) {
		t.Fatalf("expected content root, got %.60s", content)
	}

	full, err := handler.Query(context.Background(), RenderedDocument{Full: true})
	if err != nil {
		t.Fatalf("query full: %v", err)
	}
	if !strings.HasPrefix(full, "<!DOCTYPE html>") || !strings.Contains(full, `id="editable-document"`) {
		t.Fatalf("expected full host document")
	}
}

func TestLastExportHandler_NotFound(t *testing.T) {
	_, err := NewLastExportHandler(newService()).Query(context.Background(), LastExport{})

	var ge *goerrors.Error
	if !errors.As(err, &ge) || ge.Category != goerrors.CategoryNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHandlersRequireService(t *testing.T) {
	if _, err := (&DocumentFieldsHandler{}).Query(context.Background(), DocumentFields{}); err == nil {
		t.Fatalf("expected error without service")
	}
	if _, err := (*RenderedDocumentHandler)(nil).Query(context.Background(), RenderedDocument{}); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}
