package command

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-policydoc/editor"
	"github.com/goliatone/go-policydoc/export"
)

// BatchItem is one proposal to export in a batch.
type BatchItem struct {
	Filename  string            `json:"filename"`
	ElementID string            `json:"element_id,omitempty"`
	Values    map[string]string `json:"values"`
}

// BatchLoader loads batch items from a source.
type BatchLoader func(ctx context.Context) ([]BatchItem, error)

// ServiceFactory builds an editor seeded with initial values.
type ServiceFactory func(initial map[string]string) editor.Service

// ArtifactSink receives every exported artifact.
type ArtifactSink func(ctx context.Context, artifact export.Artifact) error

// BatchLimits bounds batch execution throughput.
type BatchLimits struct {
	MaxItems    int
	MinInterval time.Duration
}

// BatchOption customizes batch commands.
type BatchOption func(*BatchCommand)

// WithBatchLimits overrides batch execution limits.
func WithBatchLimits(limits BatchLimits) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.limits = limits
	}
}

// WithBatchLoader sets the loader used when no file is given.
func WithBatchLoader(loader BatchLoader) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.loader = loader
	}
}

// BatchCommand exports one proposal per batch item, each from its own
// freshly seeded editor.
type BatchCommand struct {
	factory ServiceFactory
	sink    ArtifactSink
	loader  BatchLoader
	limits  BatchLimits
	sleep   func(time.Duration)
}

// NewBatchExportCommand creates a batch export command.
func NewBatchExportCommand(factory ServiceFactory, sink ArtifactSink, opts ...BatchOption) *BatchCommand {
	cmd := &BatchCommand{
		factory: factory,
		sink:    sink,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cmd)
		}
	}
	return cmd
}

// Run exports every item loaded from the file at from, or from the
// configured loader when from is empty. It stops at the first failure and
// returns how many items were exported.
func (c *BatchCommand) Run(ctx context.Context, from string) (int, error) {
	if c == nil {
		return 0, errors.New("batch command is nil", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	if c.factory == nil || c.sink == nil {
		return 0, errors.New("batch service factory and sink are required", errors.CategoryValidation).
			WithTextCode("BATCH_DEPS_REQUIRED")
	}

	items, err := c.loadItems(ctx, from)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range items {
		if c.limits.MaxItems > 0 && count >= c.limits.MaxItems {
			break
		}
		if err := ctx.Err(); err != nil {
			return count, err
		}
		svc := c.factory(item.Values)
		artifact, err := svc.Export(ctx, editor.ExportRequest{SourceID: item.ElementID, Filename: item.Filename})
		if err != nil {
			return count, err
		}
		if err := c.sink(ctx, artifact); err != nil {
			return count, err
		}
		count++
		if c.limits.MinInterval > 0 && c.sleep != nil {
			c.sleep(c.limits.MinInterval)
		}
	}
	return count, nil
}

func (c *BatchCommand) loadItems(ctx context.Context, from string) ([]BatchItem, error) {
	if strings.TrimSpace(from) != "" {
		return LoadBatchItemsFromFile(from)
	}
	if c.loader == nil {
		return nil, errors.New("batch loader not configured", errors.CategoryValidation).
			WithTextCode("LOADER_REQUIRED")
	}
	return c.loader(ctx)
}

// LoadBatchItemsFromFile reads a JSON array of batch items.
func LoadBatchItemsFromFile(path string) ([]BatchItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "read batch file failed").
			WithTextCode("BATCH_FILE_READ")
	}

	var items []BatchItem
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "batch file invalid JSON").
			WithTextCode("BATCH_FILE_INVALID")
	}
	return items, nil
}
