// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/danielhkuo/prompt-battle/auth"
	"github.com/danielhkuo/prompt-battle/cliparse"
	"github.com/danielhkuo/prompt-battle/db"
	"github.com/danielhkuo/prompt-battle/generate"
	"github.com/danielhkuo/prompt-battle/middleware"
	"github.com/danielhkuo/prompt-battle/models"
)

const (
	minNameLen   = 2
	minPromptLen = 10
)

type SubmissionHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	image generate.ImageGenerator
	text  generate.TextGenerator
}

// NewSubmissionHandler wires the artifact generators. A nil text generator
// makes the text round answer 503.
func NewSubmissionHandler(db *sql.DB, cfg cliparse.Config, image generate.ImageGenerator, text generate.TextGenerator) *SubmissionHandler {
	return &SubmissionHandler{db: db, cfg: cfg, image: image, text: text}
}

// SubmitImage handles POST /submit-image
func (h *SubmissionHandler) SubmitImage(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.RoundImage)
}

// SubmitText handles POST /submit-text
func (h *SubmissionHandler) SubmitText(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.RoundText)
}

func (h *SubmissionHandler) submit(w http.ResponseWriter, r *http.Request, round string) {
	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateSubmission(req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	deviceKey := r.Header.Get(models.DeviceKeyHeader)
	if deviceKey != "" {
		if err := auth.ValidateDeviceKey(deviceKey); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid device key")
			return
		}

		// A device that already has an accepted submission gets it back
		existing, err := findDeviceEntry(r.Context(), h.db, deviceKey)
		if err != nil {
			slog.Error("failed to query device entry", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if existing != nil {
			slog.Info("submission replayed", "round", existing.Round, "submission_id", existing.ID)
			middleware.JSONResponse(w, http.StatusOK, existing)
			return
		}
	}

	artifact, status, err := h.generate(r.Context(), round, req.Prompt)
	if err != nil {
		slog.Error("generation failed", "round", round, "error", err)
		prefix := "Image API Error: "
		if round == models.RoundText {
			prefix = "Text API Error: "
		}
		middleware.ErrorResponse(w, status, prefix+err.Error())
		return
	}

	resp := &models.SubmitResponse{
		ID:     models.ID(auth.GenerateID()),
		Round:  round,
		Name:   req.Name,
		Prompt: req.Prompt,
	}
	if round == models.RoundImage {
		resp.ImagePath = artifact
	} else {
		resp.Response = artifact
	}

	existing, err := insertSubmission(r.Context(), h.db, round, resp, artifact, deviceKey)
	if err != nil {
		h.discardArtifact(round, artifact)
		slog.Error("failed to store submission", "round", round, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store submission")
		return
	}
	if existing != nil {
		// Lost a race with a concurrent submission from the same device
		h.discardArtifact(round, artifact)
		slog.Info("submission replayed after race", "round", existing.Round, "submission_id", existing.ID)
		middleware.JSONResponse(w, http.StatusOK, existing)
		return
	}

	slog.Info("submission accepted",
		"round", round,
		"submission_id", resp.ID,
		"name", req.Name,
		"remote", middleware.GetClientIP(r),
	)

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

func (h *SubmissionHandler) generate(ctx context.Context, round, prompt string) (string, int, error) {
	if round == models.RoundImage {
		if h.image == nil {
			return "", http.StatusServiceUnavailable, errors.New("image generation is not configured")
		}
		out, err := h.image.GenerateImage(ctx, prompt)
		return out, http.StatusInternalServerError, err
	}
	if h.text == nil {
		return "", http.StatusServiceUnavailable, errors.New("text generation is not configured")
	}
	out, err := h.text.GenerateText(ctx, prompt)
	return out, http.StatusInternalServerError, err
}

// discardArtifact removes a generated image that no row references
func (h *SubmissionHandler) discardArtifact(round, artifact string) {
	if round != models.RoundImage || artifact == "" {
		return
	}
	file := filepath.Join(h.cfg.ImagesDir, path.Base(filepath.ToSlash(artifact)))
	if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to remove unused image", "path", file, "error", err)
	}
}

func validateSubmission(req models.SubmitRequest) string {
	if len([]rune(strings.TrimSpace(req.Name))) < minNameLen {
		return "Name must be at least 2 characters long."
	}
	if len([]rune(strings.TrimSpace(req.Prompt))) < minPromptLen {
		return "Prompt must be at least 10 characters long to ensure quality results."
	}
	return ""
}

// insertSubmission stores the row and claims the device key in one
// transaction. When the key was claimed concurrently it returns the
// winning submission instead.
func insertSubmission(ctx context.Context, conn *sql.DB, round string, resp *models.SubmitResponse, artifact, deviceKey string) (*models.SubmitResponse, error) {
	table, _ := db.RoundTable(round)
	column := db.ArtifactColumn(round)
	now := time.Now().UTC()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO `+table+` (id, name, prompt, `+column+`, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, string(resp.ID), resp.Name, resp.Prompt, artifact, now)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}

	if deviceKey != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO device_entry (device_key, round, submission_id, created_at)
			VALUES ($1, $2, $3, $4)
		`, deviceKey, round, string(resp.ID), now)
		if err != nil {
			if db.IsUniqueViolation(err) {
				tx.Rollback()
				existing, ferr := findDeviceEntry(ctx, conn, deviceKey)
				if ferr != nil {
					return nil, ferr
				}
				if existing == nil {
					return nil, fmt.Errorf("device entry vanished after conflict: %w", err)
				}
				return existing, nil
			}
			return nil, fmt.Errorf("insert device_entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return nil, nil
}

// findDeviceEntry returns the accepted submission of a device, or nil
func findDeviceEntry(ctx context.Context, conn *sql.DB, deviceKey string) (*models.SubmitResponse, error) {
	var round, submissionID string
	err := conn.QueryRowContext(ctx, `
		SELECT round, submission_id FROM device_entry WHERE device_key = $1
	`, deviceKey).Scan(&round, &submissionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	table, ok := db.RoundTable(round)
	if !ok {
		return nil, fmt.Errorf("device entry has unknown round %q", round)
	}

	resp := &models.SubmitResponse{ID: models.ID(submissionID), Round: round}
	var artifact string
	err = conn.QueryRowContext(ctx, `
		SELECT name, prompt, `+db.ArtifactColumn(round)+` FROM `+table+` WHERE id = $1
	`, submissionID).Scan(&resp.Name, &resp.Prompt, &artifact)
	if err != nil {
		return nil, fmt.Errorf("load submission %s: %w", submissionID, err)
	}
	if round == models.RoundImage {
		resp.ImagePath = artifact
	} else {
		resp.Response = artifact
	}
	return resp, nil
}
