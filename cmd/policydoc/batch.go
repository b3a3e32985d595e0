package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-policydoc/command"
	"github.com/goliatone/go-policydoc/export"
)

var batchCmd = &cobra.Command{
	Use:   "batch [items.json]",
	Short: "Export one PDF per proposal in a JSON file",
	Long: `Reads a JSON array of {"filename", "element_id", "values"} items and
exports each proposal from its own freshly seeded editor into --dir.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchDir      string
	batchMax      int
	batchInterval time.Duration
)

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", ".", "Output directory")
	batchCmd.Flags().IntVar(&batchMax, "max", 0, "Stop after this many exports (0 = all)")
	batchCmd.Flags().DurationVar(&batchInterval, "interval", 0, "Pause between exports")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
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

	sink := func(ctx context.Context, artifact export.Artifact) error {
		path := filepath.Join(batchDir, artifact.Filename)
		if err := writeFile(path, artifact.PDF); err != nil {
			return err
		}
		app.Logger.Infof("wrote %s (%d bytes)", path, len(artifact.PDF))
		return nil
	}

	batch := command.NewBatchExportCommand(app.NewService, sink,
		command.WithBatchLimits(command.BatchLimits{MaxItems: batchMax, MinInterval: batchInterval}),
	)
	count, err := batch.Run(ctx, args[0])
	app.Logger.Infof("exported %d proposal(s)", count)
	return err
}
