// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/prompt-battle/cliparse"
	"github.com/danielhkuo/prompt-battle/db"
	"github.com/danielhkuo/prompt-battle/generate"
	"github.com/danielhkuo/prompt-battle/router"
)

func main() {
	var err error
	ctx := context.Background()

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Warn("could not load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	if err := os.MkdirAll(cfg.ImagesDir, 0o755); err != nil {
		slog.Error("cannot create images directory", "dir", cfg.ImagesDir, "error", err)
		os.Exit(1)
	}

	// Artifact generators
	gens := router.Generators{
		Image: generate.NewPollinations(cfg.ImageAPIURL, cfg.ImagesDir),
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := generate.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("gemini client failed", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		gens.Text = gemini
		slog.Info("Text generation ready", "model", cfg.GeminiModel)
	} else {
		slog.Warn("GEMINI_API_KEY not set, text round will answer 503")
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg, gens)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "images", cfg.ImagesDir)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
