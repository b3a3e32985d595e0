package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-policydoc/document"
	"github.com/goliatone/go-policydoc/editor"
	"github.com/goliatone/go-policydoc/export"
)

func TestBatchCommand_RunHonorsLimits(t *testing.T) {
	exporter := &stubExporter{}
	var names []string
	sink := func(ctx context.Context, artifact export.Artifact) error {
		names = append(names, artifact.Filename)
		return nil
	}
	loader := func(ctx context.Context) ([]BatchItem, error) {
		return []BatchItem{
			{Filename: "a", Values: document.SampleData()},
			{Filename: "b", Values: document.SampleData()},
		}, nil
	}
	factory := func(initial map[string]string) editor.Service {
		return newTestService(exporter, initial)
	}

	cmd := NewBatchExportCommand(factory, sink, WithBatchLoader(loader), WithBatchLimits(BatchLimits{MaxItems: 1, MinInterval: time.Millisecond}))
	cmd.sleep = func(time.Duration) {}

	count, err := cmd.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 1 || len(names) != 1 || names[0] != "a.pdf" {
		t.Fatalf("expected a single export, got %d %v", count, names)
	}
}

func TestBatchCommand_RunFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	content := `[
  {"filename": "one.pdf", "values": {"name": "এক,"}},
  {"filename": "two.pdf", "values": {"name": "দুই,"}}
]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write batch file: %v", err)
	}

	exporter := &stubExporter{}
	var texts []string
	sink := func(ctx context.Context, artifact export.Artifact) error {
		texts = append(texts, exporter.text)
		return nil
	}
	factory := func(initial map[string]string) editor.Service {
		return newTestService(exporter, initial)
	}

	count, err := NewBatchExportCommand(factory, sink).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 2 || exporter.calls != 2 {
		t.Fatalf("expected 2 exports, got %d (%d calls)", count, exporter.calls)
	}
	if texts[0][:len("এক,")] != "এক," || texts[1][:len("দুই,")] != "দুই," {
		t.Fatalf("expected each item exported from its own values, got %q", texts)
	}
}

func TestBatchCommand_StopsOnFailure(t *testing.T) {
	exporter := &stubExporter{}
	loader := func(ctx context.Context) ([]BatchItem, error) {
		return []BatchItem{
			{Filename: "ok"},
			{Filename: "bad", ElementID: "missing"},
			{Filename: "never"},
		}, nil
	}
	factory := func(initial map[string]string) editor.Service {
		return newTestService(exporter, initial)
	}
	sink := func(ctx context.Context, artifact export.Artifact) error { return nil }

	count, err := NewBatchExportCommand(factory, sink, WithBatchLoader(loader)).Run(context.Background(), "")
	if export.KindFromError(err) != export.KindElementNotFound {
		t.Fatalf("expected element not found, got %v", err)
	}
	if count != 1 || exporter.calls != 2 {
		t.Fatalf("expected stop after failure, count=%d calls=%d", count, exporter.calls)
	}
}

func TestLoadBatchItemsFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadBatchItemsFromFile(path); err == nil {
		t.Fatalf("expected invalid json error")
	}
	if _, err := LoadBatchItemsFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}
