package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-policydoc/command"
	"github.com/goliatone/go-policydoc/document"
	"github.com/goliatone/go-policydoc/editor"
	"github.com/goliatone/go-policydoc/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the proposal to a single page A4 PDF",
	Long: `Renders the proposal with the sample data, applies any --set edits and
writes the rasterized PDF to --out.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportOut     string
	exportElement string
	exportPNG     string
	exportSets    []string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", export.DefaultFilename, "Output PDF path")
	exportCmd.Flags().StringVar(&exportElement, "element", "", "Element id to export (defaults to the content root)")
	exportCmd.Flags().StringVar(&exportPNG, "png", "", "Also write the captured raster to this path")
	exportCmd.Flags().StringArrayVar(&exportSets, "set", nil, "Field edit as id=value (repeatable)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	edits, err := parseSets(exportSets)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			app.Logger.Errorf("close: %v", cerr)
		}
	}()

	for _, edit := range edits {
		if _, err := dispatcher.DispatchWithResult[command.UpdateField, document.Field](ctx, command.UpdateField{ID: edit[0], Value: edit[1]}); err != nil {
			return err
		}
	}

	artifact, err := dispatcher.DispatchWithResult[command.ExportDocument, export.Artifact](ctx, command.ExportDocument{
		Request: editor.ExportRequest{
			SourceID: exportElement,
			Filename: filepath.Base(exportOut),
		},
	})
	if err != nil {
		return err
	}

	if err := writeFile(exportOut, artifact.PDF); err != nil {
		return err
	}
	if exportPNG != "" {
		if err := writeFile(exportPNG, artifact.Raster.PNG); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes, raster %dx%d, export %s\n",
		exportOut, len(artifact.PDF), artifact.Raster.Width, artifact.Raster.Height, artifact.ID)
	return nil
}

// parseSets splits id=value pairs. Values may contain '='.
func parseSets(sets []string) ([][2]string, error) {
	out := make([][2]string, 0, len(sets))
	for _, raw := range sets {
		id, value, ok := strings.Cut(raw, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --set %q, expected id=value", raw)
		}
		out = append(out, [2]string{id, value})
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
