// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Round is one of the two contest phases
type Round string

const (
	RoundImage Round = "image"
	RoundText  Round = "text"
)

// Rounds lists every round in display order
var Rounds = []Round{RoundImage, RoundText}

// ParseRound validates a round name
func ParseRound(s string) (Round, error) {
	r := Round(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", &ValidationError{Field: "round", Message: fmt.Sprintf("unknown round %q (use image or text)", s)}
	}
	return r, nil
}

func (r Round) Valid() bool {
	return r == RoundImage || r == RoundText
}

// Result is what the backend hands back for an accepted submission.
// The concrete type is fixed by the round: ImageResult or TextResult.
type Result interface {
	Round() Round
	SubmissionID() string
	isResult()
}

// ImageResult references the generated image of an image round submission
type ImageResult struct {
	ID        string
	ImagePath string
}

func (ImageResult) Round() Round { return RoundImage }
func (r ImageResult) SubmissionID() string { return r.ID }
func (ImageResult) isResult() {}

// ImageFile is the file name the backend serves under /images/
func (r ImageResult) ImageFile() string {
	return ImageFileName(r.ImagePath)
}

// TextResult carries the generated response of a text round submission
type TextResult struct {
	ID       string
	Response string
}

func (TextResult) Round() Round { return RoundText }
func (r TextResult) SubmissionID() string { return r.ID }
func (TextResult) isResult() {}

// ImageFileName strips any directory prefix from a stored image path,
// whichever separator the backend used.
func ImageFileName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// storedResult is the persisted form of a Result
type storedResult struct {
	Round     Round  `json:"round"`
	ID        string `json:"id"`
	ImagePath string `json:"image_path,omitempty"`
	Response  string `json:"response,omitempty"`
}

func encodeResult(res Result) (string, error) {
	sr := storedResult{Round: res.Round(), ID: res.SubmissionID()}
	switch r := res.(type) {
	case ImageResult:
		sr.ImagePath = r.ImagePath
	case TextResult:
		sr.Response = r.Response
	default:
		return "", fmt.Errorf("unsupported result type %T", res)
	}
	b, err := json.Marshal(sr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeResult parses a persisted result and checks it belongs to want
func decodeResult(raw string, want Round) (Result, error) {
	var sr storedResult
	if err := json.Unmarshal([]byte(raw), &sr); err != nil {
		return nil, fmt.Errorf("decode stored result: %w", err)
	}
	// entries written without a round tag belong to the key's round
	if sr.Round == "" {
		sr.Round = want
	}
	if sr.Round != want {
		return nil, fmt.Errorf("stored result is for round %q, expected %q", sr.Round, want)
	}
	switch want {
	case RoundImage:
		return ImageResult{ID: sr.ID, ImagePath: sr.ImagePath}, nil
	case RoundText:
		return TextResult{ID: sr.ID, Response: sr.Response}, nil
	}
	return nil, fmt.Errorf("unknown round %q", want)
}
