// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Submitter sends a participant's prompt to the backend
type Submitter interface {
	Submit(ctx context.Context, deviceKey string, round Round, name, prompt string) (Result, error)
}

// View is what the participant screen should show
type View int

const (
	// AwaitingName: no identity yet and nothing submitted
	AwaitingName View = iota
	// AwaitingSubmission: identity known, device not locked
	AwaitingSubmission
	// ShowingResult: device locked. The selected round may have no
	// cached result, in which case only the submitted state is shown.
	ShowingResult
)

func (v View) String() string {
	switch v {
	case AwaitingName:
		return "awaiting-name"
	case AwaitingSubmission:
		return "awaiting-submission"
	case ShowingResult:
		return "showing-result"
	}
	return "unknown"
}

// SubmissionController drives the participant flow of one device
type SubmissionController struct {
	session *Session
	backend Submitter
	log     *slog.Logger

	mu    sync.Mutex
	round Round
}

func NewSubmissionController(session *Session, backend Submitter, logger *slog.Logger) *SubmissionController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionController{
		session: session,
		backend: backend,
		log:     logger,
		round:   RoundImage,
	}
}

// EnterIdentity stores the participant's name
func (c *SubmissionController) EnterIdentity(ctx context.Context, name string) error {
	return c.session.SetIdentity(ctx, name)
}

// SelectRound switches the displayed round and reloads its persisted state.
// The lock itself is never touched.
func (c *SubmissionController) SelectRound(ctx context.Context, round Round) error {
	if !round.Valid() {
		return &ValidationError{Field: "round", Message: "unknown round " + string(round)}
	}
	c.session.Refresh(ctx, round)

	c.mu.Lock()
	c.round = round
	c.mu.Unlock()
	return nil
}

func (c *SubmissionController) Round() Round {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

// Submit sends prompt for round. At most one submission per device is ever
// accepted: a locked device or an outstanding call is rejected before any
// network traffic, and the backend dedups replays by device key.
func (c *SubmissionController) Submit(ctx context.Context, round Round, prompt string) (Result, error) {
	if !round.Valid() {
		return nil, &ValidationError{Field: "round", Message: "unknown round " + string(round)}
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, &ValidationError{Field: "prompt", Message: "prompt is required"}
	}

	name, deviceKey, err := c.session.beginSubmit()
	if err != nil {
		return nil, err
	}

	res, err := c.backend.Submit(ctx, deviceKey, round, name, prompt)
	if err == nil && res == nil {
		err = &BackendRejectedError{Detail: "empty response from server"}
	}
	if err != nil {
		c.session.endSubmit(ctx, nil)
		var rejected *BackendRejectedError
		if errors.As(err, &rejected) {
			c.log.Warn("submission rejected", "round", round, "status", rejected.StatusCode, "detail", rejected.Detail)
		} else {
			c.log.Warn("submission failed", "round", round, "error", err)
		}
		return nil, err
	}

	c.session.endSubmit(ctx, res)
	if res.Round() != round {
		c.log.Info("backend returned an earlier submission", "requested", round, "round", res.Round())
	}
	c.log.Info("submission accepted", "round", res.Round(), "submission_id", res.SubmissionID())
	return res, nil
}

// Result is the cached result for the selected round, or nil
func (c *SubmissionController) Result() Result {
	return c.session.Result(c.Round())
}

// CurrentView derives the screen from identity, lock and the selected
// round's result. It has no side effects.
func (c *SubmissionController) CurrentView() View {
	identity := c.session.Identity()
	locked := c.session.Locked()

	switch {
	case identity == "" && !locked:
		return AwaitingName
	case !locked:
		return AwaitingSubmission
	default:
		return ShowingResult
	}
}
