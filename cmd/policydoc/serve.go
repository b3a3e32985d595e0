package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/goliatone/go-router"
	"github.com/spf13/cobra"

	exportrouter "github.com/goliatone/go-policydoc/adapters/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the editable proposal",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	serveHost string
	servePort string
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != "" {
		cfg.Server.Port = servePort
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

	srv := router.NewFiberAdapter(fiberAppInitializer())
	handler := exportrouter.NewHandler(exportrouter.Config{
		Service:    app.Service,
		Logger:     app.Logger,
		Typography: cfg.TypographySettings(),
		Filename:   cfg.Export.Filename,
	})
	handler.RegisterRoutes(srv.Router())

	addr := cfg.Addr()
	errs := make(chan error, 1)
	go func() {
		app.Logger.Infof("serving proposal editor on http://%s", addr)
		errs <- srv.Serve(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errs:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	app.Logger.Infof("shutting down server")
	return srv.Shutdown(context.Background())
}

func fiberAppInitializer() func(*fiber.App) *fiber.App {
	return func(*fiber.App) *fiber.App {
		fiberApp := fiber.New(fiber.Config{
			AppName:   "policydoc",
			BodyLimit: 1 << 20,
		})
		fiberApp.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		}))
		return fiberApp
	}
}
