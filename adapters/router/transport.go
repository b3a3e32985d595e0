package exportrouter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-policydoc/export"
)

// routerResponse narrows router.Context to the writes the handlers need.
type routerResponse struct {
	ctx router.Context
}

func (res routerResponse) SetHeader(name, value string) {
	if res.ctx == nil {
		return
	}
	res.ctx.SetHeader(name, value)
}

func (res routerResponse) WriteJSON(status int, payload any) error {
	if res.ctx == nil {
		return nil
	}
	return res.ctx.JSON(status, payload)
}

func (res routerResponse) WriteBytes(status int, contentType string, data []byte) error {
	if res.ctx == nil {
		return nil
	}
	if contentType != "" {
		res.ctx.SetHeader("Content-Type", contentType)
	}
	res.ctx.Status(status)
	return res.ctx.Send(data)
}

// decodeBody unmarshals a JSON request body into dst. An empty body leaves
// dst untouched.
func decodeBody(c router.Context, dst any) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return export.NewError(export.KindValidation, "invalid request body", err)
	}
	return nil
}

func setDownloadHeaders(res routerResponse, exportID, filename string) {
	res.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", headerFilename(filename)))
	if exportID != "" {
		res.SetHeader("X-Export-Id", exportID)
	}
	res.SetHeader("Cache-Control", "no-store")
}

func headerFilename(filename string) string {
	name := strings.TrimSpace(filename)
	name = strings.ReplaceAll(name, "\"", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\n", "")
	if name == "" {
		return export.DefaultFilename
	}
	return name
}

func writeHTML(res routerResponse, body string) error {
	return res.WriteBytes(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}
