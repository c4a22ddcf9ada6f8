// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/danielhkuo/prompt-battle/auth"
)

// SystemInstruction steers the text round model
const SystemInstruction = "You are a creative assistant for a Prompt Battle event. Keep responses concise but impressive."

var ErrEmptyResponse = errors.New("generator returned no content")

// ImageGenerator turns a prompt into a stored image and returns its path
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// TextGenerator turns a prompt into a text response
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Pollinations fetches images from a Pollinations-compatible endpoint and
// writes them under Dir.
type Pollinations struct {
	BaseURL string
	Dir     string
	Client  *http.Client
	Size    int
	Model   string
}

func NewPollinations(baseURL, dir string) *Pollinations {
	return &Pollinations{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Dir:     dir,
		Client:  &http.Client{Timeout: 2 * time.Minute},
		Size:    1024,
		Model:   "flux",
	}
}

// GenerateImage returns the stored path as "<dir>/<uuid>.png"
func (p *Pollinations) GenerateImage(ctx context.Context, prompt string) (string, error) {
	q := url.Values{}
	q.Set("width", fmt.Sprint(p.Size))
	q.Set("height", fmt.Sprint(p.Size))
	q.Set("seed", fmt.Sprint(rand.IntN(1_000_001)))
	q.Set("model", p.Model)
	q.Set("nologo", "true")
	endpoint := p.BaseURL + "/prompt/" + url.PathEscape(prompt) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("image service returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyResponse
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image dir: %w", err)
	}
	name := auth.GenerateImageName()
	if err := os.WriteFile(filepath.Join(p.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	slog.Info("image generated", "file", name, "size", humanize.Bytes(uint64(len(data))))

	return path.Join(filepath.ToSlash(p.Dir), name), nil
}

// Gemini generates text round responses
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create generative client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemInstruction)}}
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(500)

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
		// first candidate only
		break
	}
	return strings.TrimSpace(b.String())
}
