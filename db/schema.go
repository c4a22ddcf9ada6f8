// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are portable across SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// RoundTable maps a round name to the table holding its submissions
func RoundTable(round string) (string, bool) {
	switch round {
	case "image":
		return "image_round", true
	case "text":
		return "text_round", true
	}
	return "", false
}

// ArtifactColumn maps a round name to the column holding its generated artifact
func ArtifactColumn(round string) string {
	if round == "image" {
		return "image_path"
	}
	return "response"
}

// IsUniqueViolation reports whether err is a primary key or unique
// constraint failure from either supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		// primary result code only when extended codes are off
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const schema = `
-- Image round submissions
CREATE TABLE IF NOT EXISTS image_round (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    prompt TEXT NOT NULL,
    image_path TEXT NOT NULL,
    score INTEGER CHECK (score IS NULL OR (score >= 1 AND score <= 25)),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_image_round_created_at ON image_round(created_at);

-- Text round submissions
CREATE TABLE IF NOT EXISTS text_round (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    prompt TEXT NOT NULL,
    response TEXT NOT NULL,
    score INTEGER CHECK (score IS NULL OR (score >= 1 AND score <= 25)),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_text_round_created_at ON text_round(created_at);

-- One accepted submission per participant device, across both rounds
CREATE TABLE IF NOT EXISTS device_entry (
    device_key TEXT PRIMARY KEY,
    round TEXT NOT NULL CHECK (round IN ('image', 'text')),
    submission_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)
`
