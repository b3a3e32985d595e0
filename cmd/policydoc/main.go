// Command policydoc serves the editable pension proposal and exports it to
// single page A4 PDFs.
package main

import (
	"fmt"
	"os"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-policydoc/config"
)

var (
	configPath string
	engineFlag string
	logFlags   = logger.Flags{
		Level:       "info",
		LogToStderr: true,
	}
)

var rootCmd = &cobra.Command{
	Use:           "policydoc",
	Short:         "Edit and export the pension policy proposal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Configure(logFlags)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	flags.StringVar(&engineFlag, "engine", "", "Rasterization engine: chromium or playwright")
	flags.CountVarP(&logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&logFlags.Level, "log-level", logFlags.Level, "Set the default log level")
	flags.BoolVar(&logFlags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
}

// loadConfig resolves defaults, the config file, the environment and the
// flags shared by every command.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if engineFlag != "" {
		cfg.Browser.Engine = engineFlag
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
