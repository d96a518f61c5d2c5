package ui

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"light-chat/internal/chat"
	"light-chat/internal/terminal"
)

// REPL is the line-mode chat loop
type REPL struct {
	Session    *chat.Session
	Profiles   *chat.ProfileLoader
	Display    *Display
	Input      *terminal.Reader
	BackendURL string
	Verbose    bool
	Logger     *zap.Logger
}

type lineResult struct {
	line string
	err  error
}

// Run reads lines until EOF, /exit or ctx is canceled
func (r *REPL) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if r.Profiles != nil {
		// The profile only labels agent entries here; a failure is not shown.
		if err := r.Profiles.Load(ctx); err == nil {
			if p, ok := r.Profiles.Profile(); ok {
				r.Display.SetAgentName(p.Name)
			}
		}
	}

	r.Display.PrintWelcome(r.BackendURL)
	r.Display.PrintEmptyState()

	done := make(chan struct{})
	defer close(done)
	lines := r.readLines(done)

	for {
		r.Display.PrintPrompt()

		var res lineResult
		select {
		case <-ctx.Done():
			r.Display.PrintGoodbye()
			return nil
		case res = <-lines:
		}

		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				r.Display.PrintGoodbye()
				return nil
			}
			return res.err
		}

		if terminal.IsCommand(res.line) {
			if quit := r.handleCommand(ctx, strings.TrimSpace(res.line)); quit {
				r.Display.PrintGoodbye()
				return nil
			}
			continue
		}

		r.exchange(ctx, res.line, logger)

		if ctx.Err() != nil {
			r.Display.PrintGoodbye()
			return nil
		}
	}
}

// exchange submits one line and prints both entries
func (r *REPL) exchange(ctx context.Context, line string, logger *zap.Logger) {
	x, ok := r.Session.Begin(line)
	if !ok {
		return
	}
	r.Display.PrintEntry(x.UserEntry())

	r.Display.StartThinking()
	outcome := x.Run(ctx)
	r.Display.StopThinking()

	entry, applied := r.Session.Complete(outcome)
	if !applied {
		logger.Debug("reply arrived after session closed")
		return
	}

	r.Display.PrintEntry(entry)
	if r.Verbose {
		r.Display.PrintHint(chat.Describe(outcome.Err))
		r.Display.PrintElapsed(outcome.Elapsed)
	}
}

// handleCommand runs a slash command and reports whether to quit
func (r *REPL) handleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]

	switch cmd {
	case "/exit", "/quit":
		return true
	case "/clear":
		r.Display.ClearScreen()
		r.Display.PrintWelcome(r.BackendURL)
	case "/history":
		r.showHistory(fields[1:])
	case "/being", "/profile":
		r.showProfile(ctx)
	default:
		r.Display.PrintWarning("Unknown command " + cmd)
	}
	return false
}

// showHistory prints the whole log, or the last n entries for "/history n"
func (r *REPL) showHistory(args []string) {
	entries := r.Session.Entries()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			r.Display.PrintWarning("Usage: /history [count]")
			return
		}
		entries = r.Session.Recent(n)
	}
	r.Display.PrintHistory(entries, r.Session.StartedAt())
}

func (r *REPL) showProfile(ctx context.Context) {
	if r.Profiles == nil {
		r.Display.PrintProfileUnavailable()
		return
	}

	r.Display.StartThinking()
	err := r.Profiles.Load(ctx)
	r.Display.StopThinking()

	p, ok := r.Profiles.Profile()
	if !ok {
		r.Display.PrintProfileUnavailable()
		if r.Verbose {
			r.Display.PrintHint(chat.Describe(err))
		}
		return
	}
	r.Display.SetAgentName(p.Name)
	r.Display.PrintProfile(p)
}

// readLines feeds input lines to a channel until an error or done closes
func (r *REPL) readLines(done <-chan struct{}) <-chan lineResult {
	lines := make(chan lineResult)
	go func() {
		for {
			line, err := r.Input.ReadLine()
			select {
			case lines <- lineResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}
