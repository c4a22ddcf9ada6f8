// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Prompt Battle backend.

Prompt Battle is a two-round prompt contest run on a local network.
Participants submit one prompt, either to the image round or the text
round; the backend turns it into an image (Pollinations) or a text answer
(Gemini) and stores it. A judge lists the submissions and scores each one
from 1 to 25.

# Starting the Server

With defaults (SQLite file, port 8000):

	go run .

Or with flags:

	go run . -t postgres -d "postgres://..." -images ./generated_images

# Configuration

Settings come from flags, then environment variables (a .env file is
loaded first if present), then defaults:

  - PORT (-p): server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): DSN (default: file:promptbattle.db)
  - IMAGES_DIR (-images): generated image directory (default: generated_images)
  - IMAGE_API_URL: image service base URL (default: https://image.pollinations.ai)
  - GEMINI_API_KEY (-gemini-key): enables the text round
  - GEMINI_MODEL: Gemini model name (default: gemini-1.5-flash)

# Architecture

  - handlers: submit, list and score endpoints
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, recovery, logging, JSON helpers
  - generate: image and text generation clients
  - models: request/response types
  - auth: identifiers, device keys, judge access code
  - db: connection and schema
  - cliparse: configuration parsing

The participant and judge client lives in cmd/promptbattle, built on the
contest, gateway and clientstore packages.
*/
package main
