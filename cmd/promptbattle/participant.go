// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/danielhkuo/prompt-battle/contest"
)

type participant struct {
	ctrl   *contest.SubmissionController
	client backend
	out    io.Writer
}

func (p *participant) prompt() string {
	return fmt.Sprintf("[%s] > ", p.ctrl.Round())
}

func (p *participant) handle(ctx context.Context, cmd, arg string) bool {
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		p.help()
	case "name":
		if err := p.ctrl.EnterIdentity(ctx, arg); err != nil {
			p.fail(err)
			return false
		}
		p.render()
	case "round":
		round, err := contest.ParseRound(arg)
		if err != nil {
			p.fail(err)
			return false
		}
		if err := p.ctrl.SelectRound(ctx, round); err != nil {
			p.fail(err)
			return false
		}
		p.render()
	case "submit":
		fmt.Fprintln(p.out, "Generating, this can take a while...")
		if _, err := p.ctrl.Submit(ctx, p.ctrl.Round(), arg); err != nil {
			p.fail(err)
			return false
		}
		p.render()
	case "show":
		p.render()
	default:
		fmt.Fprintf(p.out, "Unknown command %q. Type help.\n", cmd)
	}
	return false
}

func (p *participant) help() {
	fmt.Fprintln(p.out, "Commands:")
	fmt.Fprintln(p.out, "  name <your name>     set your display name")
	fmt.Fprintln(p.out, "  round image|text     switch round")
	fmt.Fprintln(p.out, "  submit <prompt>      send your one prompt")
	fmt.Fprintln(p.out, "  show                 redraw the screen")
	fmt.Fprintln(p.out, "  quit")
}

func (p *participant) fail(err error) {
	switch {
	case errors.Is(err, contest.ErrLocked):
		fmt.Fprintln(p.out, "You have already submitted. Only one submission is allowed.")
	default:
		fmt.Fprintf(p.out, "Error: %v\n", err)
	}
}

func (p *participant) render() {
	switch p.ctrl.CurrentView() {
	case contest.AwaitingName:
		fmt.Fprintln(p.out, "Welcome to Prompt Battle! Enter your name with: name <your name>")
	case contest.AwaitingSubmission:
		fmt.Fprintf(p.out, "%s round. Send your prompt with: submit <prompt>\n", p.ctrl.Round())
	case contest.ShowingResult:
		res := p.ctrl.Result()
		if res == nil {
			fmt.Fprintln(p.out, "Submitted! Your entry is in another round.")
			return
		}
		fmt.Fprintf(p.out, "Submitted! Entry #%s\n", res.SubmissionID())
		switch r := res.(type) {
		case contest.ImageResult:
			fmt.Fprintf(p.out, "Your image: %s\n", p.client.ImageURL(r.ImagePath))
		case contest.TextResult:
			fmt.Fprintf(p.out, "Response:\n%s\n", r.Response)
		}
	}
}
