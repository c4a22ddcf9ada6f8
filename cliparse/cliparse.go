// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// BackendPort is the fixed port the backend listens on and clients dial.
const BackendPort = 8000

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	ImagesDir    string
	ImageAPIURL  string
	GeminiAPIKey string
	GeminiModel  string
}

// ClientConfig configures the terminal client
type ClientConfig struct {
	Mode       string // "participant" or "judge"
	Host       string
	StorePath  string
	AccessCode string
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// ParseFlags validates server flags and fills defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("prompt-battle", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.ImagesDir, "images", "", "Directory for generated images")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.GeminiAPIKey, "gemini-key", "", "Gemini API key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = BackendPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "file:promptbattle.db"
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.ImagesDir == "" {
		cfg.ImagesDir = envOr("IMAGES_DIR", "generated_images")
	}
	cfg.ImageAPIURL = envOr("IMAGE_API_URL", "https://image.pollinations.ai")

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.GeminiModel = envOr("GEMINI_MODEL", "gemini-1.5-flash")

	return cfg, nil
}

// ParseClientFlags parses the terminal client's mode and settings
func ParseClientFlags(args []string) (ClientConfig, error) {
	var cfg ClientConfig

	fs := flag.NewFlagSet("promptbattle", flag.ContinueOnError)
	fs.StringVar(&cfg.Host, "host", "", "Backend host (port is always 8000)")
	fs.StringVar(&cfg.StorePath, "store", "", "Path of the local participant store")
	fs.StringVar(&cfg.AccessCode, "access-code", "", "Judge access code")

	if err := fs.Parse(args); err != nil {
		return ClientConfig{}, err
	}

	switch fs.NArg() {
	case 0:
		return ClientConfig{}, errors.New("mode required: participant or judge")
	case 1:
		cfg.Mode = fs.Arg(0)
	default:
		return ClientConfig{}, fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	if cfg.Mode != "participant" && cfg.Mode != "judge" {
		return ClientConfig{}, fmt.Errorf("unknown mode %q (use participant or judge)", cfg.Mode)
	}

	if cfg.Host == "" {
		cfg.Host = envOr("PROMPTBATTLE_HOST", "localhost")
	}
	if cfg.StorePath == "" {
		cfg.StorePath = envOr("PROMPTBATTLE_STORE", "promptbattle-client.db")
	}
	if cfg.AccessCode == "" {
		cfg.AccessCode = envOr("JUDGE_ACCESS_CODE", "0000")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
