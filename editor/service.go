// Package editor ties the pension proposal template, its field store and
// the export pipeline together behind the operations every host surface
// uses.
package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	errorslib "github.com/goliatone/go-errors"
	"golang.org/x/net/html"

	"github.com/goliatone/go-policydoc/document"
	"github.com/goliatone/go-policydoc/dom"
	"github.com/goliatone/go-policydoc/export"
)

// Exporter rasterizes an element of a host document into a PDF artifact.
// *export.Pipeline implements it.
type Exporter interface {
	Export(ctx context.Context, host *html.Node, sourceElementID, filename string) (export.Artifact, error)
}

// ExportRequest selects what to export and under which filename.
type ExportRequest struct {
	SourceID string `json:"element_id"`
	Filename string `json:"filename"`
}

// ExportSummary describes the most recent successful export.
type ExportSummary struct {
	ID           string        `json:"id"`
	Filename     string        `json:"filename"`
	Bytes        int           `json:"bytes"`
	RasterWidth  int           `json:"raster_width"`
	RasterHeight int           `json:"raster_height"`
	CreatedAt    time.Time     `json:"created_at"`
	Duration     time.Duration `json:"duration"`
}

// Service exposes the editor operations.
type Service interface {
	Template() *document.Template
	Fields(ctx context.Context) ([]document.Field, error)
	UpdateField(ctx context.Context, id, value string) (document.Field, error)
	Seed(ctx context.Context, initial map[string]string) (int, error)
	HostDocument(ctx context.Context) (*html.Node, error)
	ContentHTML(ctx context.Context) (string, error)
	Export(ctx context.Context, req ExportRequest) (export.Artifact, error)
	LastExport() (ExportSummary, bool)
}

// Config supplies dependencies for Service.
type Config struct {
	Template    *document.Template
	Renderer    *document.Renderer
	Pipeline    Exporter
	InitialData map[string]string
	Logger      export.Logger
}

type service struct {
	template *document.Template
	renderer document.Renderer
	store    *document.Store
	pipeline Exporter
	logger   export.Logger

	mu   sync.RWMutex
	last *ExportSummary
}

// NewService creates a Service and seeds its store once from
// cfg.InitialData.
func NewService(cfg Config) Service {
	tpl := cfg.Template
	if tpl == nil {
		tpl = document.PensionProposal()
	}
	renderer := document.NewRenderer()
	if cfg.Renderer != nil {
		renderer = *cfg.Renderer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = export.NopLogger{}
	}

	svc := &service{
		template: tpl,
		renderer: renderer,
		store:    document.NewStore(tpl),
		pipeline: cfg.Pipeline,
		logger:   logger,
	}
	if seeded := svc.store.Seed(cfg.InitialData); seeded > 0 {
		logger.Debugf("seeded %d field(s) of %s", seeded, tpl.Name())
	}
	return svc
}

func (s *service) Template() *document.Template {
	return s.template
}

func (s *service) Fields(ctx context.Context) ([]document.Field, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	return s.store.Snapshot(), nil
}

func (s *service) UpdateField(ctx context.Context, id, value string) (document.Field, error) {
	if err := ctxErr(ctx); err != nil {
		return document.Field{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return document.Field{}, errorslib.New("field id is required", errorslib.CategoryValidation).
			WithTextCode("FIELD_ID_REQUIRED")
	}
	field, err := s.store.Set(id, value)
	if err != nil {
		return document.Field{}, err
	}
	s.logger.Debugf("field %s updated", id)
	return field, nil
}

func (s *service) Seed(ctx context.Context, initial map[string]string) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	return s.store.Seed(initial), nil
}

func (s *service) HostDocument(ctx context.Context) (*html.Node, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	return s.renderer.HostDocument(s.template, s.store), nil
}

func (s *service) ContentHTML(ctx context.Context) (string, error) {
	if err := ctxErr(ctx); err != nil {
		return "", err
	}
	return dom.OuterHTML(s.renderer.Render(s.template, s.store))
}

// Export renders the current host document and exports req.SourceID, the
// content root when empty.
func (s *service) Export(ctx context.Context, req ExportRequest) (export.Artifact, error) {
	if s.pipeline == nil {
		return export.Artifact{}, export.NewError(export.KindInternal, "editor has no export pipeline", nil)
	}
	if err := ctxErr(ctx); err != nil {
		return export.Artifact{}, err
	}

	sourceID := strings.TrimSpace(req.SourceID)
	if sourceID == "" {
		sourceID = s.renderer.RootID
	}
	if sourceID == "" {
		sourceID = document.ContentRootID
	}

	host := s.renderer.HostDocument(s.template, s.store)
	artifact, err := s.pipeline.Export(ctx, host, sourceID, req.Filename)
	if err != nil {
		return export.Artifact{}, err
	}

	s.mu.Lock()
	s.last = &ExportSummary{
		ID:           artifact.ID,
		Filename:     artifact.Filename,
		Bytes:        len(artifact.PDF),
		RasterWidth:  artifact.Raster.Width,
		RasterHeight: artifact.Raster.Height,
		CreatedAt:    artifact.CreatedAt,
		Duration:     artifact.Duration,
	}
	s.mu.Unlock()
	return artifact, nil
}

func (s *service) LastExport() (ExportSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return ExportSummary{}, false
	}
	return *s.last, true
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
