package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trends-go/internal/config"
	"trends-go/internal/handler"
	"trends-go/internal/service"
	"trends-go/pkg/logger"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "", "Configuration file path")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "trends-go server failed: %v\n", err)
		os.Exit(1)
	}
}

func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return err
	}
	if app.debug {
		cfg.Logger.Level = "debug"
	}
	log := logger.Configure(cfg.Logger.Logger()).WithField("component", "main")

	client, err := service.NewGoogleClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	log.WithFields(map[string]interface{}{
		"provider": logger.MaskURL(cfg.Provider.BaseURL),
		"locale":   cfg.Provider.Locale,
		"config":   app.configPath,
	}).Info("Starting trends-go server")

	fiberApp := handler.NewApp(service.NewTrendService(cfg, client))
	if err := handler.Serve(ctx, fiberApp, cfg.Server.Host, cfg.Server.Port, cfg.Server.ShutdownTimeout); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
