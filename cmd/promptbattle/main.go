// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command promptbattle is the terminal client for participants and judges.
//
//	promptbattle [-host 192.168.1.20] [-store promptbattle-client.db] participant
//	promptbattle [-host 192.168.1.20] [-access-code 0000] judge
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/danielhkuo/prompt-battle/cliparse"
	"github.com/danielhkuo/prompt-battle/clientstore"
	"github.com/danielhkuo/prompt-battle/contest"
	"github.com/danielhkuo/prompt-battle/gateway"
)

func main() {
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Warn("could not load .env", "error", err)
	}

	cfg, err := cliparse.ParseClientFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logs go to stderr so they do not interleave with the prompt
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := gateway.New(gateway.BaseURL(cfg.Host), nil, logger)

	if err := run(ctx, cfg, client, logger, os.Stdin, os.Stdout); err != nil {
		slog.Error("client stopped", "error", err)
		os.Exit(1)
	}
}

// backend is what the client loops need from the gateway
type backend interface {
	contest.Submitter
	contest.Reviewer
	ImageURL(imagePath string) string
}

func run(ctx context.Context, cfg cliparse.ClientConfig, client backend, logger *slog.Logger, in io.Reader, out io.Writer) error {
	switch cfg.Mode {
	case "participant":
		store, closeStore := openStore(ctx, cfg.StorePath, logger)
		defer closeStore()
		session := contest.OpenSession(ctx, store, logger)
		p := &participant{
			ctrl:   contest.NewSubmissionController(session, client, logger),
			client: client,
			out:    out,
		}
		return loop(ctx, in, out, p)
	case "judge":
		j := &judge{
			ctrl:   contest.NewJudgeController(client, cfg.AccessCode, logger),
			client: client,
			out:    out,
		}
		return loop(ctx, in, out, j)
	}
	return fmt.Errorf("unknown mode %q", cfg.Mode)
}

// openStore falls back to memory when the store file cannot be opened
func openStore(ctx context.Context, path string, logger *slog.Logger) (contest.Store, func()) {
	store, err := clientstore.Open(ctx, path)
	if err != nil {
		logger.Warn("using in-memory store, state will not survive a restart", "path", path, "error", err)
		return clientstore.NewMemoryStore(), func() {}
	}
	return store, func() { store.Close() }
}

type screen interface {
	prompt() string
	// handle runs one command; done ends the loop
	handle(ctx context.Context, cmd, arg string) (done bool)
	render()
}

func loop(ctx context.Context, in io.Reader, out io.Writer, s screen) error {
	s.render()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, s.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		if s.handle(ctx, strings.ToLower(cmd), strings.TrimSpace(arg)) {
			return nil
		}
	}
}
