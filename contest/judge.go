// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/prompt-battle/auth"
)

// Submission is a stored entry as listed by the backend
type Submission struct {
	ID        string
	Name      string
	Prompt    string
	ImagePath string
	Response  string
	Score     *int
	CreatedAt time.Time
}

// ImageFile is the served file name of an image submission
func (s Submission) ImageFile() string {
	return ImageFileName(s.ImagePath)
}

// Reviewer lists and scores submissions on the backend
type Reviewer interface {
	ListSubmissions(ctx context.Context, round Round) ([]Submission, error)
	SaveScore(ctx context.Context, round Round, id string, score int) error
}

// JudgeController holds a judge's in-memory review state. Nothing is
// persisted: a new controller starts unauthorized.
type JudgeController struct {
	backend    Reviewer
	accessCode string
	log        *slog.Logger

	mu          sync.Mutex
	authorized  bool
	round       Round
	submissions []Submission
	loading     int
	generation  uint64
}

// NewJudgeController uses auth.DefaultAccessCode when accessCode is empty
func NewJudgeController(backend Reviewer, accessCode string, logger *slog.Logger) *JudgeController {
	if accessCode == "" {
		accessCode = auth.DefaultAccessCode
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JudgeController{
		backend:    backend,
		accessCode: accessCode,
		log:        logger,
		round:      RoundImage,
	}
}

// Authorize compares code with the shared access code. This is a
// convenience gate for the event, not a security check: the backend does
// not verify anything.
func (c *JudgeController) Authorize(code string) bool {
	ok := auth.CheckAccessCode(code, c.accessCode) == nil

	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		c.authorized = true
	}
	return ok
}

func (c *JudgeController) Authorized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authorized
}

func (c *JudgeController) Round() Round {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

// Loading reports whether a fetch is outstanding
func (c *JudgeController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

// Submissions returns a copy of the current list
func (c *JudgeController) Submissions() []Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Submission(nil), c.submissions...)
}

// LoadSubmissions replaces the list with the backend's and makes round
// current. On failure the previous list and its round stay, so scores always
// go to the round the displayed list came from. A response that arrives
// after a newer load was started is dropped.
func (c *JudgeController) LoadSubmissions(ctx context.Context, round Round) error {
	if !round.Valid() {
		return &ValidationError{Field: "round", Message: "unknown round " + string(round)}
	}

	c.mu.Lock()
	if !c.authorized {
		c.mu.Unlock()
		return ErrUnauthorized
	}
	c.generation++
	gen := c.generation
	c.loading++
	c.mu.Unlock()

	list, err := c.backend.ListSubmissions(ctx, round)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.log.Error("failed to fetch submissions", "round", round, "error", err)
		return err
	}
	if gen != c.generation {
		return nil
	}
	c.round = round
	c.submissions = list
	return nil
}

// SaveScore parses raw as an integer and stores it for submission id in
// the current round, then reloads the list so it shows the stored value.
// Non-numeric input is rejected without a network call; the 1..25 range is
// left to the backend.
func (c *JudgeController) SaveScore(ctx context.Context, id, raw string) error {
	c.mu.Lock()
	authorized := c.authorized
	round := c.round
	c.mu.Unlock()
	if !authorized {
		return ErrUnauthorized
	}

	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return &ValidationError{Field: "score", Message: fmt.Sprintf("score %q is not a whole number", raw)}
	}

	if err := c.backend.SaveScore(ctx, round, id, score); err != nil {
		c.log.Error("failed to save score", "round", round, "submission_id", id, "error", err)
		return err
	}
	c.log.Info("score saved", "round", round, "submission_id", id, "score", score)

	if err := c.LoadSubmissions(ctx, round); err != nil {
		return fmt.Errorf("score saved but reload failed: %w", err)
	}
	return nil
}
