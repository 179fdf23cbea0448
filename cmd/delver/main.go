// Package main is the entry point for delver.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/samdwyer/delver/internal/config"
	"github.com/samdwyer/delver/internal/game"
	"github.com/samdwyer/delver/internal/gamedata"
	"github.com/samdwyer/delver/internal/logger"
	"github.com/samdwyer/delver/internal/telemetry"
)

func main() {
	var (
		configPath = flag.String("config", "delver.yaml", "path to the YAML config file")
		seed       = flag.Int64("seed", 0, "level seed; overrides the config file when non-zero")
		generator  = flag.String("gen", "", "map generator: bsp, cellular or simple")
	)
	flag.Parse()

	// Not fatal: variables may be set directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *generator != "" {
		cfg.Map.Generator = *generator
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid flags: %v", err)
		}
	}

	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	logger.Init(logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Telemetry.Enabled {
		setupOTelEnv()
		shutdown, err := telemetry.Setup(ctx, telemetry.Options{
			ServiceName: cfg.Telemetry.ServiceName,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			logger.Log.WithError(err).Warn("telemetry setup failed, running without tracing")
			telemetry.Disable()
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Log.WithError(err).Error("shutting down telemetry")
				}
			}()
		}
	} else {
		telemetry.Disable()
	}

	g, err := game.New(game.ConfigFrom(cfg), gamedata.MustLoadSpawnRegistry())
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}
	if err := g.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Log.WithError(err).Error("game error")
		fmt.Fprintf(os.Stderr, "Game error: %v\n", err)
		os.Exit(1)
	}
}

// setupOTelEnv points the OTLP exporter at Honeycomb when an API key is
// present and no endpoint was configured explicitly.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_API_KEY")
	if apiKey == "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_DATASET")
	if dataset == "" {
		dataset = "delver"
	}
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
