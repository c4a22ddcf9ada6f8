// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/prompt-battle/auth"
	"github.com/danielhkuo/prompt-battle/cliparse"
	"github.com/danielhkuo/prompt-battle/db"
)

// SetupTestDB creates a fresh SQLite database file with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	return cliparse.Config{
		Port:         8000,
		DatabaseURL:  "file:test.db",
		DatabaseType: "sqlite",
		ImagesDir:    t.TempDir(),
	}
}

// CreateTestSubmission inserts a submission row directly and returns its ID.
// score may be nil for an unscored entry.
func CreateTestSubmission(t *testing.T, conn *sql.DB, round, name, prompt, artifact string, score *int, createdAt time.Time) string {
	t.Helper()

	table, ok := db.RoundTable(round)
	if !ok {
		t.Fatalf("unknown round %q", round)
	}

	id := auth.GenerateID()
	var sc sql.NullInt64
	if score != nil {
		sc = sql.NullInt64{Int64: int64(*score), Valid: true}
	}
	_, err := conn.Exec(`
		INSERT INTO `+table+` (id, name, prompt, `+db.ArtifactColumn(round)+`, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, name, prompt, artifact, sc, createdAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test submission: %v", err)
	}

	return id
}

// CountRows returns the number of rows in a table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// FakeImageGenerator returns "generated_images/fake-<n>.png" paths and counts calls
type FakeImageGenerator struct {
	Err   error
	Delay time.Duration
	calls atomic.Int32
}

func (f *FakeImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	n := f.calls.Add(1)
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.Err != nil {
		return "", f.Err
	}
	return fmt.Sprintf("generated_images/fake-%d.png", n), nil
}

func (f *FakeImageGenerator) Calls() int { return int(f.calls.Load()) }

// FakeTextGenerator echoes the prompt and records every prompt received
type FakeTextGenerator struct {
	Err     error
	mu      sync.Mutex
	prompts []string
}

func (f *FakeTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return "Response to: " + prompt, nil
}

func (f *FakeTextGenerator) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
