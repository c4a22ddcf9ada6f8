// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultAccessCode is the shared judge code used by the event.
const DefaultAccessCode = "0000"

var (
	ErrInvalidAccessCode = errors.New("invalid access code")
	ErrInvalidDeviceKey  = errors.New("invalid device key format")
)

// GenerateID creates a random UUID for a stored submission
func GenerateID() string {
	return uuid.NewString()
}

// GenerateImageName returns a fresh file name for a generated image
func GenerateImageName() string {
	return uuid.NewString() + ".png"
}

// GenerateDeviceKey creates a random key identifying one participant device.
// The key is sent with every submission so the backend can accept at most
// one submission per device.
func GenerateDeviceKey() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate device key: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// ValidateDeviceKey checks the shape of a device key received in a header
func ValidateDeviceKey(key string) error {
	if len(key) < 16 || len(key) > 128 {
		return ErrInvalidDeviceKey
	}
	for _, c := range key {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return ErrInvalidDeviceKey
		}
	}
	return nil
}

// CheckAccessCode compares a judge access code with the expected one.
//
// This is a client-side gate for a LAN event, not a security boundary:
// there is no token, no session and no server-side check. Anything exposed
// beyond the event network needs a real authorization layer.
func CheckAccessCode(code, expected string) error {
	if code != expected {
		return ErrInvalidAccessCode
	}
	return nil
}
