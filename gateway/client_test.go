// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/prompt-battle/contest"
	"github.com/danielhkuo/prompt-battle/models"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"localhost", "http://localhost:8000"},
		{" 192.168.1.20 ", "http://192.168.1.20:8000"},
		{"", "http://localhost:8000"},
	}
	for _, tt := range tests {
		if got := BaseURL(tt.host); got != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestSubmit_Image(t *testing.T) {
	var gotKey, gotPath string
	var gotBody models.SubmitRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(models.DeviceKeyHeader)
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1,"name":"Ada","prompt":"a red fox","image_path":"/gen/abc.png"}`))
	})

	res, err := c.Submit(context.Background(), "device-key-abcdefgh", contest.RoundImage, "Ada", "a red fox")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	want := contest.ImageResult{ID: "1", ImagePath: "/gen/abc.png"}
	if res != want {
		t.Errorf("Submit() = %#v, want %#v", res, want)
	}
	if gotPath != "/submit-image" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "device-key-abcdefgh" {
		t.Errorf("device key header = %q", gotKey)
	}
	if gotBody.Name != "Ada" || gotBody.Prompt != "a red fox" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestSubmit_TextAndReplayedRound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/submit-text" {
			_, _ = w.Write([]byte(`{"id":"t1","round":"text","response":"old pond"}`))
			return
		}
		// replay of an earlier text submission
		_, _ = w.Write([]byte(`{"id":"t1","round":"text","response":"old pond"}`))
	})

	res, err := c.Submit(context.Background(), "k", contest.RoundText, "Ada", "a haiku")
	if err != nil {
		t.Fatal(err)
	}
	if res != (contest.TextResult{ID: "t1", Response: "old pond"}) {
		t.Errorf("text result = %#v", res)
	}

	res, err = c.Submit(context.Background(), "k", contest.RoundImage, "Ada", "a red fox")
	if err != nil {
		t.Fatal(err)
	}
	if res.Round() != contest.RoundText {
		t.Errorf("replayed result round = %s, want text", res.Round())
	}
}

func TestSubmit_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantStatus int
		network    bool
	}{
		{name: "400 with detail", status: 400, body: `{"error":"Bad Request","detail":"duplicate name"}`, wantDetail: "duplicate name", wantStatus: 400},
		{name: "500 api error", status: 500, body: `{"detail":"Image API Error: timeout"}`, wantDetail: "Image API Error: timeout", wantStatus: 500},
		{name: "502 without body", status: 502, body: ``, wantDetail: "request failed with status 502", wantStatus: 502},
		{name: "422 list detail", status: 422, body: `{"detail":[{"msg":"field required"}]}`, wantDetail: "request failed with status 422", wantStatus: 422},
		{name: "200 with detail", status: 200, body: `{"detail":"Contest closed"}`, wantDetail: "Contest closed", wantStatus: 200},
		{name: "200 garbage", status: 200, body: `<html>`, network: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Submit(context.Background(), "k", contest.RoundImage, "Ada", "a red fox")
			if tt.network {
				var nerr *contest.NetworkError
				if !errors.As(err, &nerr) {
					t.Fatalf("error = %v, want NetworkError", err)
				}
				return
			}
			var rerr *contest.BackendRejectedError
			if !errors.As(err, &rerr) {
				t.Fatalf("error = %v, want BackendRejectedError", err)
			}
			if rerr.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", rerr.StatusCode, tt.wantStatus)
			}
			if err.Error() != tt.wantDetail {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantDetail)
			}
		})
	}
}

func TestSubmit_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.Submit(context.Background(), "k", contest.RoundImage, "Ada", "a red fox")
	var nerr *contest.NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if err.Error() != "network error: could not reach the contest server" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestListSubmissions(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/text-submissions" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"id":"b","name":"Grace","prompt":"p2","response":"r2","score":18,"created_at":"2025-03-01T12:02:00Z"},
			{"id":"a","name":"Ada","prompt":"p1","response":"r1","score":null,"created_at":"2025-03-01T12:00:00Z"}
		]`))
	})

	list, err := c.ListSubmissions(context.Background(), contest.RoundText)
	if err != nil {
		t.Fatalf("ListSubmissions() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d submissions", len(list))
	}
	if list[0].ID != "b" || list[0].Score == nil || *list[0].Score != 18 {
		t.Errorf("first = %+v", list[0])
	}
	if list[1].Score != nil {
		t.Errorf("unscored entry has score %d", *list[1].Score)
	}
	if list[0].CreatedAt.IsZero() {
		t.Error("created_at not decoded")
	}
}

func TestListSubmissions_Empty(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	list, err := c.ListSubmissions(context.Background(), contest.RoundImage)
	if err != nil || len(list) != 0 {
		t.Errorf("ListSubmissions() = %v, %v", list, err)
	}
}

func TestSaveScore(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody models.ScoreRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	if err := c.SaveScore(context.Background(), contest.RoundImage, "7", 18); err != nil {
		t.Fatalf("SaveScore() error = %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/score-image/7" || gotBody.Score != 18 {
		t.Errorf("request = %s %s %+v", gotMethod, gotPath, gotBody)
	}
}

func TestSaveScore_NotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found","detail":"Submission not found"}`))
	})

	err := c.SaveScore(context.Background(), contest.RoundText, "missing", 5)
	var rerr *contest.BackendRejectedError
	if !errors.As(err, &rerr) || rerr.StatusCode != 404 || rerr.Detail != "Submission not found" {
		t.Errorf("SaveScore() error = %v", err)
	}
}

func TestImageURL(t *testing.T) {
	c := New("http://localhost:8000/", nil, nil)
	tests := []struct {
		path string
		want string
	}{
		{"generated_images/abc.png", "http://localhost:8000/images/abc.png"},
		{`generated_images\abc.png`, "http://localhost:8000/images/abc.png"},
		{"/gen/abc.png", "http://localhost:8000/images/abc.png"},
	}
	for _, tt := range tests {
		if got := c.ImageURL(tt.path); got != tt.want {
			t.Errorf("ImageURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
