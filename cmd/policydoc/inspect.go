package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	exportpdf "github.com/goliatone/go-policydoc/adapters/pdf"
	"github.com/goliatone/go-policydoc/export"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file.pdf]",
	Short: "Validate a PDF and report its page geometry",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var inspectJSON bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := exportpdf.Inspect(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if inspectJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "pages: %d\n", info.PageCount)
	for i, page := range info.Pages {
		fmt.Fprintf(out, "page %d: %.1f x %.1f mm%s\n", i+1, page.WidthMM, page.HeightMM, a4Marker(page))
	}
	if info.Title != "" {
		fmt.Fprintf(out, "title: %s\n", info.Title)
	}
	if info.Creator != "" {
		fmt.Fprintf(out, "creator: %s\n", info.Creator)
	}
	if info.PageCount != 1 || !lo.EveryBy(info.Pages, isA4) {
		fmt.Fprintln(out, "warning: not a single A4 page")
	}
	return nil
}

func isA4(page exportpdf.PageInfo) bool {
	return math.Abs(page.WidthMM-export.A4.WidthMM) < 0.5 && math.Abs(page.HeightMM-export.A4.HeightMM) < 0.5
}

func a4Marker(page exportpdf.PageInfo) string {
	return lo.Ternary(isA4(page), " (A4)", "")
}
