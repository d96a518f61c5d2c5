package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"light-chat/internal/chat"
	"light-chat/internal/terminal"
	"light-chat/internal/tui"
	"light-chat/internal/ui"
)

const startupProbeTimeout = 3 * time.Second

func (a *app) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat with the agent",
		Long: `Starts an interactive chat session.

On a terminal this opens the full-screen interface: Enter sends, Tab
switches between the chat and the agent profile, Esc quits. With --plain,
or when input or output is not a terminal, a line-mode prompt is used
instead, with /being, /history, /clear and /exit commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := a.client()

			probeCtx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
			_, err := client.Ping(probeCtx)
			cancel()
			if err != nil {
				a.logger.Warn("backend not reachable at startup",
					zap.String("backend", client.BaseURL()),
					zap.String("hint", chat.Describe(err)),
					zap.Error(err))
			}

			session := chat.NewSession(client,
				chat.WithFallbackMessage(a.cfg.FallbackMessage),
				chat.WithLogger(a.logger))
			defer session.Close()

			profiles := chat.NewProfileLoader(client, a.logger)
			defer profiles.Close()

			if !a.cfg.Plain && a.interactive() {
				a.logger.Debug("starting full-screen chat", zap.String("session", session.ID()))
				return tui.Run(ctx, session, profiles, tui.Options{
					BackendURL: client.BaseURL(),
					Theme:      a.cfg.Theme,
					Verbose:    a.cfg.Verbose,
				})
			}

			a.logger.Debug("starting line-mode chat", zap.String("session", session.ID()))
			repl := &ui.REPL{
				Session:    session,
				Profiles:   profiles,
				Display:    a.display(),
				Input:      terminal.NewReader(a.in),
				BackendURL: client.BaseURL(),
				Verbose:    a.cfg.Verbose,
				Logger:     a.logger,
			}
			return repl.Run(ctx)
		},
	}
}

// interactive reports whether both ends of the session are terminals
func (a *app) interactive() bool {
	in, ok := a.in.(*os.File)
	if !ok || !terminal.IsTerminal(in) {
		return false
	}
	out, ok := a.out.(*os.File)
	return ok && terminal.IsTerminal(out)
}

// display builds a line-mode display; color only goes to a terminal
func (a *app) display() *ui.Display {
	opts := ui.Options{Theme: a.cfg.Theme}
	if f, ok := a.out.(*os.File); ok && terminal.IsTerminal(f) {
		opts.Color = true
		opts.Width, _ = terminal.Size(f)
	}
	return ui.NewDisplay(a.out, opts)
}
