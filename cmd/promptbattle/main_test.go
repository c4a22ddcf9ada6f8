// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielhkuo/prompt-battle/cliparse"
	"github.com/danielhkuo/prompt-battle/gateway"
	"github.com/danielhkuo/prompt-battle/router"
	"github.com/danielhkuo/prompt-battle/testutil"
)

func startBackend(t *testing.T) *gateway.Client {
	t.Helper()
	db := testutil.SetupTestDB(t)
	srv := httptest.NewServer(router.NewRouter(db, testutil.GetTestConfig(t), router.Generators{
		Image: &testutil.FakeImageGenerator{},
		Text:  &testutil.FakeTextGenerator{},
	}))
	t.Cleanup(srv.Close)
	return gateway.New(srv.URL, srv.Client(), quiet())
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runScript(t *testing.T, cfg cliparse.ClientConfig, client backend, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := run(context.Background(), cfg, client, quiet(), in, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	return out.String()
}

func TestParticipantSession(t *testing.T) {
	client := startBackend(t)
	cfg := cliparse.ClientConfig{Mode: "participant", StorePath: filepath.Join(t.TempDir(), "client.db")}

	out := runScript(t, cfg, client,
		"submit too early",
		"name Ada",
		"round text",
		"submit write a haiku about compilers",
		"submit again please, once more",
		"round image",
		"quit",
	)

	for _, want := range []string{
		"Welcome to Prompt Battle!",
		"Error: enter your name before submitting",
		"text round. Send your prompt",
		"Response:\nResponse to: write a haiku about compilers",
		"You have already submitted.",
		"Submitted! Your entry is in another round.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// a restart on the same store comes back locked
	out = runScript(t, cfg, client, "round text", "quit")
	if !strings.Contains(out, "Response to: write a haiku about compilers") {
		t.Errorf("restart lost the result\n%s", out)
	}
}

func TestJudgeSession(t *testing.T) {
	client := startBackend(t)
	pcfg := cliparse.ClientConfig{Mode: "participant", StorePath: filepath.Join(t.TempDir(), "client.db")}
	runScript(t, pcfg, client, "name Ada", "submit a red fox in the snow", "quit")

	list, err := client.ListSubmissions(context.Background(), "image")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListSubmissions() = %v, %v", list, err)
	}
	id := list[0].ID

	out := runScript(t, cliparse.ClientConfig{Mode: "judge"}, client,
		"list",
		"1234",
		"0000",
		"score "+id+" abc",
		"score "+id+" 30",
		"score "+id+" 18",
		"quit",
	)

	for _, want := range []string{
		"Judge access. Enter the access code.",
		"Incorrect access code",
		"image round: 1 submission(s)",
		"unscored",
		"is not a whole number",
		"Error: score must be between 1 and 25",
		"Score saved.",
		"18/25",
		"/images/fake-1.png",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRun_UnknownMode(t *testing.T) {
	err := run(context.Background(), cliparse.ClientConfig{Mode: "spectator"}, nil, quiet(), strings.NewReader(""), io.Discard)
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
