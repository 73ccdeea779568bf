// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command pollvote votes on the active questions of a Quickly Poll server
// from the terminal.
//
//	pollvote -server http://localhost:3318 -identity alice@example.com -lang ar
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielhkuo/quickly-poll/controller"
	"github.com/danielhkuo/quickly-poll/i18n"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/pollclient"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := pollclient.New(cfg.ServerURL, nil)
	if err := run(ctx, client, cfg.Identity, cfg.Language, os.Stdin, os.Stdout); err != nil {
		slog.Error("pollvote failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run loads the user's questions, prompts for a choice on every open one and
// prints the tally of every closed one
func run(ctx context.Context, client *pollclient.Client, identity, lang string, in io.Reader, out io.Writer) error {
	text, err := client.Text(ctx, lang)
	if err != nil {
		return err
	}
	texts := text.Texts
	p := printer{w: out, dir: text.Direction}

	p.line("%s", texts[i18n.KeyWebPartTitle])
	p.line("%s", texts[i18n.KeyLoadingMessage])

	c := controller.New(client, identity)
	defer c.Dispose()

	if err := c.Load(ctx); err != nil {
		return err
	}
	if c.NoActivePolls() {
		p.line("%s", texts[i18n.KeyNoQuestionsMessage])
		return nil
	}

	scanner := bufio.NewScanner(in)
	for _, q := range c.Questions() {
		if phase, _ := c.Phase(q.ID); phase == controller.PhaseClosed {
			renderChart(p, texts[i18n.KeyResultsTitle], q)
			continue
		}

		renderBallot(p, q)
		if err := vote(ctx, c, p, texts, q, scanner, out); err != nil {
			return err
		}

		if closed, ok := find(c.Questions(), q.ID); ok {
			renderChart(p, texts[i18n.KeyResultsTitle], closed)
		}
	}
	return nil
}

// vote prompts until the question is closed. Store failures are reported
// and the user may try again.
func vote(ctx context.Context, c *controller.Controller, p printer, texts map[string]string, q models.Question, scanner *bufio.Scanner, out io.Writer) error {
	for {
		fmt.Fprintf(out, "%s [1-%d]: ", texts[i18n.KeySubmitButtonText], len(q.Options))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}

		key, ok := parseChoice(q, scanner.Text())
		if !ok {
			p.line("%s", texts[i18n.KeySelectOptionMessage])
			continue
		}
		if err := c.Select(q.ID, key); err != nil {
			return err
		}

		err := c.Submit(ctx, q.ID, "", "")
		switch {
		case err == nil:
			p.line("%s", texts[i18n.KeyThankYouMessage])
			return nil
		case errors.Is(err, models.ErrAlreadyVoted):
			p.line("%s", texts[i18n.KeyAlreadyVotedMessage])
			return nil
		case controller.IsValidation(err):
			return err
		default:
			slog.Warn("vote not recorded", "question_id", q.ID, "error", err)
			p.line("%v", err)
		}
	}
}

func find(questions []models.Question, id int) (models.Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return models.Question{}, false
}
