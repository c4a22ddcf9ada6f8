// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Server Configuration

ParseFlags returns a Config struct with all server settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

  - Port: listen port (default: 8000)
  - DatabaseURL: SQLite file or PostgreSQL connection string (default: file:promptbattle.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - ImagesDir: where generated images are written (default: generated_images)
  - ImageAPIURL: image generation service (default: https://image.pollinations.ai)
  - GeminiAPIKey: enables the text round generator
  - GeminiModel: text model name (default: gemini-1.5-flash)

# Client Configuration

ParseClientFlags parses the terminal client:

	promptbattle [-host H] [-store PATH] [-access-code CODE] participant|judge

The backend URL is always http://<host>:8000.

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	IMAGES_DIR     → -images
	GEMINI_API_KEY → --gemini-key
	PROMPTBATTLE_HOST  → -host
	PROMPTBATTLE_STORE → -store
	JUDGE_ACCESS_CODE  → -access-code

CLI flags take precedence over environment variables. LoadDotEnv reads a
.env file first without overwriting variables already set.
*/
package cliparse
