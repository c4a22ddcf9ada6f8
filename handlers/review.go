// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/prompt-battle/db"
	"github.com/danielhkuo/prompt-battle/middleware"
	"github.com/danielhkuo/prompt-battle/models"
)

type ReviewHandler struct {
	db *sql.DB
}

func NewReviewHandler(db *sql.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ListImage handles GET /image-submissions
func (h *ReviewHandler) ListImage(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.RoundImage)
}

// ListText handles GET /text-submissions
func (h *ReviewHandler) ListText(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.RoundText)
}

// ScoreImage handles PUT /score-image/{id}
func (h *ReviewHandler) ScoreImage(w http.ResponseWriter, r *http.Request) {
	h.score(w, r, models.RoundImage)
}

// ScoreText handles PUT /score-text/{id}
func (h *ReviewHandler) ScoreText(w http.ResponseWriter, r *http.Request) {
	h.score(w, r, models.RoundText)
}

// list returns every submission of a round, newest first
func (h *ReviewHandler) list(w http.ResponseWriter, r *http.Request, round string) {
	table, _ := db.RoundTable(round)

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, name, prompt, `+db.ArtifactColumn(round)+`, score, created_at
		FROM `+table+`
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query submissions", "round", round, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	submissions := []models.Submission{}
	for rows.Next() {
		var s models.Submission
		var id, artifact string
		var score sql.NullInt64
		if err := rows.Scan(&id, &s.Name, &s.Prompt, &artifact, &score, &s.CreatedAt); err != nil {
			slog.Error("failed to scan submission", "round", round, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		s.ID = models.ID(id)
		if round == models.RoundImage {
			s.ImagePath = artifact
		} else {
			s.Response = artifact
		}
		if score.Valid {
			v := int(score.Int64)
			s.Score = &v
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate submissions", "round", round, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, submissions)
}

func (h *ReviewHandler) score(w http.ResponseWriter, r *http.Request, round string) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.ScoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Score < models.MinScore || req.Score > models.MaxScore {
		middleware.ErrorResponse(w, http.StatusBadRequest, "score must be between 1 and 25")
		return
	}

	table, _ := db.RoundTable(round)
	result, err := h.db.ExecContext(r.Context(), `
		UPDATE `+table+` SET score = $1 WHERE id = $2
	`, req.Score, id)
	if err != nil {
		slog.Error("failed to update score", "round", round, "submission_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read affected rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Submission not found")
		return
	}

	slog.Info("score saved", "round", round, "submission_id", id, "score", req.Score)

	middleware.JSONResponse(w, http.StatusOK, models.ScoreResponse{Status: "success"})
}
