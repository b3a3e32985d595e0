package exportrouter

import (
	"net/http"

	errorslib "github.com/goliatone/go-errors"

	"github.com/goliatone/go-policydoc/export"
)

// ErrorResponse describes JSON error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains error details.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeError(res routerResponse, err error) error {
	ge := export.AsGoError(err)
	return res.WriteJSON(statusForError(ge), ErrorResponse{
		Error: ErrorBody{Message: ge.Message, Code: ge.TextCode},
	})
}

// writeExportError hides pipeline failures behind the generic user message.
// Busy and request errors keep their own message.
func writeExportError(res routerResponse, err error) error {
	ge := export.AsGoError(err)
	status := statusForError(ge)
	message := ge.Message
	if status >= http.StatusInternalServerError || status == http.StatusRequestTimeout || ge.TextCode == "element_not_found" {
		message = exportFailedMsg
	}
	return res.WriteJSON(status, ErrorResponse{
		Error: ErrorBody{Message: message, Code: ge.TextCode},
	})
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryAuthz:
		return http.StatusForbidden
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		switch err.TextCode {
		case "busy", "canceled":
			return http.StatusConflict
		}
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
