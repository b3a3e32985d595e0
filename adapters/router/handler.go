package exportrouter

import (
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-policydoc/document"
	"github.com/goliatone/go-policydoc/editor"
	"github.com/goliatone/go-policydoc/export"
)

// Config configures the go-router adapter.
type Config struct {
	Service    editor.Service
	Logger     export.Logger
	Typography export.Typography
	// APIBase prefixes the JSON routes. Defaults to "/api".
	APIBase string
	// Filename is used for downloads when a request names none.
	Filename string
}

// Handler serves the editable proposal page and its JSON API.
type Handler struct {
	svc      editor.Service
	logger   export.Logger
	typo     export.Typography
	apiBase  string
	filename string

	busy atomic.Bool
}

// NewHandler creates a go-router handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = export.NopLogger{}
	}
	typo := cfg.Typography
	if typo == (export.Typography{}) {
		typo = export.DefaultTypography()
	}
	apiBase := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if apiBase == "" {
		apiBase = "/api"
	}
	filename := cfg.Filename
	if strings.TrimSpace(filename) == "" {
		filename = export.DefaultFilename
	}
	return &Handler{
		svc:      cfg.Service,
		logger:   logger,
		typo:     typo,
		apiBase:  apiBase,
		filename: filename,
	}
}

// RegisterRoutes registers routes on a compatible go-router router.
func (h *Handler) RegisterRoutes(router any) {
	r, ok := router.(routeRegistrar)
	if !ok {
		return
	}
	r.Get("/", h.Page)
	r.Get(h.apiBase+"/fields", h.ListFields)
	r.Put(h.apiBase+"/fields/:id", h.UpdateField)
	r.Post(h.apiBase+"/export", h.Export)
	r.Get(h.apiBase+"/export/status", h.Status)
}

// Busy reports whether an export is in flight.
func (h *Handler) Busy() bool {
	return h != nil && h.busy.Load()
}

// Page renders the editable document.
func (h *Handler) Page(c router.Context) error {
	res := routerResponse{ctx: c}
	if err := h.ready(); err != nil {
		return writeError(res, err)
	}
	content, err := h.svc.ContentHTML(c.Context())
	if err != nil {
		return writeError(res, err)
	}
	page, err := renderPage(pageData{
		Content:  content,
		RootID:   h.rootID(),
		Filename: h.filename,
		APIBase:  h.apiBase,
		Typo:     h.typo,
	})
	if err != nil {
		h.logger.Errorf("render editor page: %v", err)
		return writeError(res, export.NewError(export.KindInternal, "render editor page", err))
	}
	return writeHTML(res, page)
}

// ListFields returns every field in template order.
func (h *Handler) ListFields(c router.Context) error {
	res := routerResponse{ctx: c}
	if err := h.ready(); err != nil {
		return writeError(res, err)
	}
	fields, err := h.svc.Fields(c.Context())
	if err != nil {
		return writeError(res, err)
	}
	return res.WriteJSON(http.StatusOK, map[string]any{"fields": fields})
}

type updateFieldBody struct {
	Value *string `json:"value"`
}

// UpdateField stores an edited slot value.
func (h *Handler) UpdateField(c router.Context) error {
	res := routerResponse{ctx: c}
	if err := h.ready(); err != nil {
		return writeError(res, err)
	}
	var body updateFieldBody
	if err := decodeBody(c, &body); err != nil {
		return writeError(res, err)
	}
	if body.Value == nil {
		return writeError(res, export.NewError(export.KindValidation, "value is required", nil))
	}
	field, err := h.svc.UpdateField(c.Context(), c.Param("id"), *body.Value)
	if err != nil {
		return writeError(res, err)
	}
	return res.WriteJSON(http.StatusOK, field)
}

type exportBody struct {
	editor.ExportRequest
	Values map[string]string `json:"values,omitempty"`
}

// Export rasterizes the requested element and responds with the PDF as an
// attachment. Only one export runs at a time; others get 409.
func (h *Handler) Export(c router.Context) error {
	res := routerResponse{ctx: c}
	if err := h.ready(); err != nil {
		return writeError(res, err)
	}
	if !h.busy.CompareAndSwap(false, true) {
		return writeExportError(res, export.ErrBusy)
	}
	defer h.busy.Store(false)

	var body exportBody
	if err := decodeBody(c, &body); err != nil {
		return writeError(res, err)
	}
	req := body.ExportRequest
	if strings.TrimSpace(req.Filename) == "" {
		req.Filename = h.filename
	}

	// Values sent with the request win over saves still in flight.
	for _, id := range slices.Sorted(maps.Keys(body.Values)) {
		if _, err := h.svc.UpdateField(c.Context(), id, body.Values[id]); err != nil {
			return writeError(res, err)
		}
	}

	artifact, err := h.svc.Export(c.Context(), req)
	if err != nil {
		h.logger.Errorf("export %q failed: %v", req.SourceID, err)
		return writeExportError(res, err)
	}

	setDownloadHeaders(res, artifact.ID, artifact.Filename)
	return res.WriteBytes(http.StatusOK, artifact.ContentType, artifact.PDF)
}

type statusBody struct {
	Busy       bool                  `json:"busy"`
	LastExport *editor.ExportSummary `json:"last_export,omitempty"`
}

// Status reports the busy flag and the latest successful export.
func (h *Handler) Status(c router.Context) error {
	res := routerResponse{ctx: c}
	if err := h.ready(); err != nil {
		return writeError(res, err)
	}
	body := statusBody{Busy: h.busy.Load()}
	if last, ok := h.svc.LastExport(); ok {
		body.LastExport = &last
	}
	return res.WriteJSON(http.StatusOK, body)
}

func (h *Handler) ready() error {
	if h == nil || h.svc == nil {
		return export.NewError(export.KindInternal, "handler is not configured", nil)
	}
	return nil
}

func (h *Handler) rootID() string {
	return document.ContentRootID
}

type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}
