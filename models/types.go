// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Round constants
const (
	RoundImage = "image"
	RoundText  = "text"
)

// Score bounds
const (
	MinScore = 1
	MaxScore = 25
)

// DeviceKeyHeader carries the participant's persistent device key
const DeviceKeyHeader = "X-Device-Key"

// ID is a submission identifier. The server always writes strings, but
// numeric IDs are accepted when decoding.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Request types

type SubmitRequest struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

type ScoreRequest struct {
	Score int `json:"score"`
}

// Response types

// SubmitResponse is returned by the submit endpoints. Exactly one of
// ImagePath and Response is set, depending on Round.
type SubmitResponse struct {
	ID        ID     `json:"id"`
	Round     string `json:"round,omitempty"`
	Name      string `json:"name,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
	Response  string `json:"response,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type ScoreResponse struct {
	Status string `json:"status"`
}

type RootResponse struct {
	Message string `json:"message"`
}

// Domain types

type Submission struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Prompt    string    `json:"prompt"`
	ImagePath string    `json:"image_path,omitempty"`
	Response  string    `json:"response,omitempty"`
	Score     *int      `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
