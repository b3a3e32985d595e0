package export

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errorslib "github.com/goliatone/go-errors"
)

func TestAsGoErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		category errorslib.Category
		code     string
	}{
		{NewError(KindValidation, "bad input", nil), errorslib.CategoryValidation, "validation"},
		{NewError(KindNotFound, "missing", nil), errorslib.CategoryNotFound, "not_found"},
		{NewError(KindElementNotFound, "missing element", nil), errorslib.CategoryNotFound, "element_not_found"},
		{NewError(KindBusy, "busy", nil), errorslib.CategoryOperation, "busy"},
		{NewError(KindIsolatedSurface, "no surface", nil), errorslib.CategoryInternal, "isolated_surface"},
		{NewError(KindContainerMissing, "no container", nil), errorslib.CategoryInternal, "content_container_missing"},
		{NewError(KindExportFailed, "failed", errors.New("raster")), errorslib.CategoryInternal, "export_failed"},
		{context.DeadlineExceeded, errorslib.CategoryOperation, "timeout"},
		{context.Canceled, errorslib.CategoryOperation, "canceled"},
		{NewError(KindInternal, "boom", nil), errorslib.CategoryInternal, "internal"},
	}

	for _, tc := range cases {
		mapped := AsGoError(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapping for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("expected category %s, got %s", tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.code {
			t.Fatalf("expected text code %s, got %s", tc.code, mapped.TextCode)
		}
	}
}

func TestExportErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(KindContainerMissing, "custom message", nil))
	if !errors.Is(err, ErrContentContainerMissing) {
		t.Fatalf("expected kind match through wrapping")
	}
	if errors.Is(err, ErrIsolatedSurface) {
		t.Fatalf("unexpected match against another kind")
	}
}

func TestNormalizeError(t *testing.T) {
	if normalizeError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	original := NewError(KindIsolatedSurface, "x", nil)
	if got := normalizeError(original); got != original {
		t.Fatalf("expected export errors to pass through")
	}

	failed := normalizeError(errors.New("image decode"))
	if failed.Kind != KindExportFailed || failed.Error() != "pdf generation failed: image decode" {
		t.Fatalf("unexpected normalization %v", failed)
	}

	if normalizeError(context.DeadlineExceeded).Kind != KindTimeout {
		t.Fatalf("expected timeout kind")
	}
}
