// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/justinas/alice"

	"github.com/danielhkuo/prompt-battle/cliparse"
	"github.com/danielhkuo/prompt-battle/generate"
	"github.com/danielhkuo/prompt-battle/handlers"
	"github.com/danielhkuo/prompt-battle/middleware"
	"github.com/danielhkuo/prompt-battle/models"
)

// Generators groups the artifact generators used by the submit endpoints
type Generators struct {
	Image generate.ImageGenerator
	Text  generate.TextGenerator
}

func NewRouter(db *sql.DB, cfg cliparse.Config, gens Generators) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	submissionHandler := handlers.NewSubmissionHandler(db, cfg, gens.Image, gens.Text)
	reviewHandler := handlers.NewReviewHandler(db)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Participant submissions
	mux.HandleFunc("POST /submit-image", middleware.WithLogging(submissionHandler.SubmitImage))
	mux.HandleFunc("POST /submit-text", middleware.WithLogging(submissionHandler.SubmitText))

	// Judge review
	mux.HandleFunc("GET /image-submissions", middleware.WithLogging(reviewHandler.ListImage))
	mux.HandleFunc("GET /text-submissions", middleware.WithLogging(reviewHandler.ListText))
	mux.HandleFunc("PUT /score-image/{id}", middleware.WithLogging(reviewHandler.ScoreImage))
	mux.HandleFunc("PUT /score-text/{id}", middleware.WithLogging(reviewHandler.ScoreText))

	// Generated images
	mux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.ImagesDir))))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.RootResponse{Message: "Prompt Battle API is running"})
	})

	return alice.New(middleware.Recover, middleware.CORS).Then(mux)
}
