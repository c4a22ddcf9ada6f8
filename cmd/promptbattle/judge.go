// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/prompt-battle/contest"
)

type judge struct {
	ctrl   *contest.JudgeController
	client backend
	out    io.Writer
}

func (j *judge) prompt() string {
	if !j.ctrl.Authorized() {
		return "access code > "
	}
	return fmt.Sprintf("judge [%s] > ", j.ctrl.Round())
}

func (j *judge) handle(ctx context.Context, cmd, arg string) bool {
	if cmd == "quit" || cmd == "exit" {
		return true
	}
	if !j.ctrl.Authorized() {
		// a bare line is taken as the code
		code := arg
		if cmd != "auth" {
			code = cmd
		}
		if !j.ctrl.Authorize(code) {
			fmt.Fprintln(j.out, "Incorrect access code")
			return false
		}
		if err := j.ctrl.LoadSubmissions(ctx, j.ctrl.Round()); err != nil {
			j.fail(err)
			return false
		}
		j.render()
		return false
	}

	switch cmd {
	case "help":
		j.help()
	case "round":
		round, err := contest.ParseRound(arg)
		if err != nil {
			j.fail(err)
			return false
		}
		if err := j.ctrl.LoadSubmissions(ctx, round); err != nil {
			j.fail(err)
			return false
		}
		j.render()
	case "list", "refresh":
		if err := j.ctrl.LoadSubmissions(ctx, j.ctrl.Round()); err != nil {
			j.fail(err)
			return false
		}
		j.render()
	case "score":
		id, value, ok := strings.Cut(arg, " ")
		if !ok {
			fmt.Fprintln(j.out, "Usage: score <id> <1-25>")
			return false
		}
		if err := j.ctrl.SaveScore(ctx, id, value); err != nil {
			j.fail(err)
			return false
		}
		fmt.Fprintln(j.out, "Score saved.")
		j.render()
	default:
		fmt.Fprintf(j.out, "Unknown command %q. Type help.\n", cmd)
	}
	return false
}

func (j *judge) help() {
	fmt.Fprintln(j.out, "Commands:")
	fmt.Fprintln(j.out, "  round image|text     switch round and load its entries")
	fmt.Fprintln(j.out, "  list                 reload the current round")
	fmt.Fprintln(j.out, "  score <id> <1-25>    save a score")
	fmt.Fprintln(j.out, "  quit")
}

func (j *judge) fail(err error) {
	if errors.Is(err, contest.ErrUnauthorized) {
		fmt.Fprintln(j.out, "Enter the access code first.")
		return
	}
	fmt.Fprintf(j.out, "Error: %v\n", err)
}

func (j *judge) render() {
	if !j.ctrl.Authorized() {
		fmt.Fprintln(j.out, "Judge access. Enter the access code.")
		return
	}

	list := j.ctrl.Submissions()
	fmt.Fprintf(j.out, "%s round: %d submission(s)\n", j.ctrl.Round(), len(list))
	for _, s := range list {
		score := "unscored"
		if s.Score != nil {
			score = fmt.Sprintf("%d/25", *s.Score)
		}
		fmt.Fprintf(j.out, "\n#%s  %s  (%s, %s)\n", s.ID, s.Name, score, humanize.Time(s.CreatedAt))
		fmt.Fprintf(j.out, "  prompt: %s\n", s.Prompt)
		if j.ctrl.Round() == contest.RoundImage {
			fmt.Fprintf(j.out, "  image:  %s\n", j.client.ImageURL(s.ImagePath))
		} else {
			fmt.Fprintf(j.out, "  response: %s\n", s.Response)
		}
	}
}
