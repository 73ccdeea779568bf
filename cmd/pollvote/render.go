// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-poll/i18n"
	"github.com/danielhkuo/quickly-poll/models"
)

const barWidth = 24

// Right-to-left mark, so terminals that honour bidi start Arabic lines on the right
const rlm = "\u200f"

type printer struct {
	w   io.Writer
	dir string
}

func (p printer) line(format string, args ...interface{}) {
	if p.dir == i18n.RTL {
		io.WriteString(p.w, rlm)
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

// renderBallot prints an open question with numbered options
func renderBallot(p printer, q models.Question) {
	p.line("")
	p.line("%s", q.Question)
	for i, opt := range q.Options {
		marker := " "
		if opt.Key == q.SelectedOption {
			marker = "*"
		}
		p.line(" %s %d) %s", marker, i+1, opt.Text)
	}
}

// renderChart prints a closed question's tally as horizontal share bars
func renderChart(p printer, title string, q models.Question) {
	p.line("")
	p.line("%s: %s", title, q.Question)

	var counts []int
	if q.Answer != nil {
		counts = q.Answer.AllAnswers
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	for i, opt := range q.Options {
		n := 0
		if i < len(counts) {
			n = counts[i]
		}
		p.line("  %-20s %s %5.1f%% (%s)", opt.Text, bar(n, total), share(n, total), humanize.Comma(int64(n)))
	}
	p.line("  %s %s", humanize.Comma(int64(total)), plural(total, "vote", "votes"))
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func bar(n, total int) string {
	filled := 0
	if total > 0 {
		filled = (n*barWidth + total/2) / total
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// parseChoice maps a 1-based menu entry to an option key
func parseChoice(q models.Question, input string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(q.Options) {
		return "", false
	}
	return q.Options[n-1].Key, true
}
