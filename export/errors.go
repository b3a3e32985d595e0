package export

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines export error kinds.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindNotFound         ErrorKind = "not_found"
	KindElementNotFound  ErrorKind = "element_not_found"
	KindIsolatedSurface  ErrorKind = "isolated_surface"
	KindContainerMissing ErrorKind = "content_container_missing"
	KindExportFailed     ErrorKind = "export_failed"
	KindBusy             ErrorKind = "busy"
	KindTimeout          ErrorKind = "timeout"
	KindCanceled         ErrorKind = "canceled"
	KindInternal         ErrorKind = "internal"
)

// Sentinels for the export failure taxonomy. Every *ExportError of the
// matching kind reports true for errors.Is against these.
var (
	ErrElementNotFound         = &ExportError{Kind: KindElementNotFound, Msg: "source element not found"}
	ErrIsolatedSurface         = &ExportError{Kind: KindIsolatedSurface, Msg: "cannot access isolated surface document"}
	ErrContentContainerMissing = &ExportError{Kind: KindContainerMissing, Msg: "content container not found in isolated surface"}
	ErrExportFailed            = &ExportError{Kind: KindExportFailed, Msg: "pdf generation failed"}
	ErrBusy                    = &ExportError{Kind: KindBusy, Msg: "export already in progress"}
)

// ExportError wraps errors with a kind.
type ExportError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind.
func (e *ExportError) Is(target error) bool {
	var other *ExportError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// NewError creates a new export error.
func NewError(kind ErrorKind, msg string, err error) *ExportError {
	return &ExportError{Kind: kind, Msg: msg, Err: err}
}

// normalizeError folds any failure surfaced by the pipeline into a single
// *ExportError. Taxonomy errors pass through, context errors keep their
// timeout/canceled kind and everything else becomes export_failed with the
// underlying message preserved.
func normalizeError(err error) *ExportError {
	if err == nil {
		return nil
	}
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindTimeout, "pdf generation timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewError(KindCanceled, "pdf generation canceled", err)
	}
	return NewError(KindExportFailed, ErrExportFailed.Msg, err)
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindInternal
	msg := err.Error()

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		kind = exportErr.Kind
		if exportErr.Msg != "" {
			msg = exportErr.Msg
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		kind = KindCanceled
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindElementNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("element_not_found")
	case KindBusy:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("busy")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindIsolatedSurface:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("isolated_surface")
	case KindContainerMissing:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("content_container_missing")
	case KindExportFailed:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("export_failed")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its export error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}
