// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/prompt-battle/cliparse"
	"github.com/danielhkuo/prompt-battle/contest"
	"github.com/danielhkuo/prompt-battle/models"
)

// maxBody caps how much of a response is read
const maxBody = 1 << 20

// Client talks to the contest backend. It implements contest.Submitter and
// contest.Reviewer.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// BaseURL is the backend address for host on the fixed backend port
func BaseURL(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		host = "localhost"
	}
	return "http://" + host + ":" + strconv.Itoa(cliparse.BackendPort)
}

// New returns a client for baseURL. A nil httpClient gets a client with a
// timeout long enough for image generation.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     logger,
	}
}

// Submit posts a prompt for round. The device key rides along so the
// backend can answer a repeat with the submission it already accepted; the
// returned Result is keyed by the round the backend reports.
func (c *Client) Submit(ctx context.Context, deviceKey string, round contest.Round, name, prompt string) (contest.Result, error) {
	body, err := json.Marshal(models.SubmitRequest{Name: name, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	var resp models.SubmitResponse
	if err := c.do(ctx, http.MethodPost, "/submit-"+string(round), deviceKey, body, &resp); err != nil {
		return nil, err
	}
	if resp.Detail != "" {
		return nil, &contest.BackendRejectedError{StatusCode: http.StatusOK, Detail: resp.Detail}
	}

	got := round
	if resp.Round != "" {
		got = contest.Round(resp.Round)
	}
	switch got {
	case contest.RoundImage:
		return contest.ImageResult{ID: string(resp.ID), ImagePath: resp.ImagePath}, nil
	case contest.RoundText:
		return contest.TextResult{ID: string(resp.ID), Response: resp.Response}, nil
	}
	return nil, &contest.BackendRejectedError{StatusCode: http.StatusOK, Detail: fmt.Sprintf("unexpected round %q in response", resp.Round)}
}

// ListSubmissions fetches every submission of round, newest first
func (c *Client) ListSubmissions(ctx context.Context, round contest.Round) ([]contest.Submission, error) {
	var list []models.Submission
	if err := c.do(ctx, http.MethodGet, "/"+string(round)+"-submissions", "", nil, &list); err != nil {
		return nil, err
	}

	out := make([]contest.Submission, 0, len(list))
	for _, s := range list {
		out = append(out, contest.Submission{
			ID:        string(s.ID),
			Name:      s.Name,
			Prompt:    s.Prompt,
			ImagePath: s.ImagePath,
			Response:  s.Response,
			Score:     s.Score,
			CreatedAt: s.CreatedAt,
		})
	}
	return out, nil
}

// SaveScore stores score for submission id of round
func (c *Client) SaveScore(ctx context.Context, round contest.Round, id string, score int) error {
	body, err := json.Marshal(models.ScoreRequest{Score: score})
	if err != nil {
		return err
	}
	var resp models.ScoreResponse
	return c.do(ctx, http.MethodPut, "/score-"+string(round)+"/"+url.PathEscape(id), "", body, &resp)
}

// ImageURL is where the backend serves a stored image path
func (c *Client) ImageURL(imagePath string) string {
	return c.baseURL + "/images/" + url.PathEscape(contest.ImageFileName(imagePath))
}

func (c *Client) do(ctx context.Context, method, path, deviceKey string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &contest.NetworkError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if deviceKey != "" {
		req.Header.Set(models.DeviceKeyHeader, deviceKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend unreachable", "method", method, "path", path, "error", err)
		return &contest.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.log.Debug("backend call", "method", method, "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &contest.BackendRejectedError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}
	if err != nil {
		return &contest.NetworkError{Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &contest.NetworkError{Err: fmt.Errorf("decode %s response: %w", path, err)}
	}
	return nil
}

// errorDetail extracts the detail of an error body. Anything else,
// including non-string details, yields "".
func errorDetail(raw []byte) string {
	var e models.ErrorResponse
	if err := json.Unmarshal(raw, &e); err != nil {
		return ""
	}
	return e.Detail
}
