// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("GenerateID() = %q, not a UUID: %v", id, err)
	}

	// Test randomness - two IDs should be different
	if GenerateID() == GenerateID() {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateImageName(t *testing.T) {
	name := GenerateImageName()
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("GenerateImageName() = %q, want .png suffix", name)
	}
	if strings.Contains(name, "/") {
		t.Errorf("GenerateImageName() = %q, must not contain a directory", name)
	}
}

func TestGenerateDeviceKey(t *testing.T) {
	key, err := GenerateDeviceKey()
	if err != nil {
		t.Fatalf("GenerateDeviceKey() error = %v", err)
	}

	// 24 bytes base64 encoded = 32 chars
	if len(key) != 32 {
		t.Errorf("GenerateDeviceKey() length = %d, want 32", len(key))
	}
	if strings.Contains(key, "=") {
		t.Error("GenerateDeviceKey() should not contain padding")
	}
	if err := ValidateDeviceKey(key); err != nil {
		t.Errorf("generated key failed validation: %v", err)
	}

	key2, _ := GenerateDeviceKey()
	if key == key2 {
		t.Error("GenerateDeviceKey() produced duplicate keys (extremely unlikely)")
	}
}

func TestValidateDeviceKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"generated shape", "abcdefghijklmnop_-ABCDEF01234567", false},
		{"uuid", "0b6a3c1e-5f1d-4d69-9b8a-3a4e2f6c7d8e", false},
		{"too short", "abc", true},
		{"empty", "", true},
		{"bad chars", "abcdefghijklmnop qrstuvwxyz", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeviceKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDeviceKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestCheckAccessCode(t *testing.T) {
	if err := CheckAccessCode(DefaultAccessCode, DefaultAccessCode); err != nil {
		t.Errorf("expected default code to pass, got %v", err)
	}
	if err := CheckAccessCode("1234", DefaultAccessCode); !errors.Is(err, ErrInvalidAccessCode) {
		t.Errorf("expected ErrInvalidAccessCode, got %v", err)
	}
	if err := CheckAccessCode("", DefaultAccessCode); err == nil {
		t.Error("empty code should be rejected")
	}
}
