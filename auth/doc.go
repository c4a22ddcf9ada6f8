// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation and the judge access gate.

# Identifiers

Submission IDs and generated image names are random UUIDs:

	id := auth.GenerateID()
	file := auth.GenerateImageName() // "<uuid>.png"

# Device Keys

Each participant device holds one random key for the whole contest:

	key, err := auth.GenerateDeviceKey()

The key is 24 random bytes, URL-safe base64 without padding. The client
persists it and sends it in the X-Device-Key header; the backend accepts
at most one submission per key. ValidateDeviceKey checks the shape of a
received key.

# Judge Access

CheckAccessCode compares the judge's code with a fixed shared code
(DefaultAccessCode unless configured). It is a placeholder gate for a LAN
event and NOT an authentication mechanism: nothing is checked server-side.
*/
package auth
