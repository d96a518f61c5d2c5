package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"light-chat/internal/chat"
)

func (a *app) beingCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "being",
		Aliases: []string{"profile"},
		Short:   "Show the agent's profile",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := chat.NewProfileLoader(a.client(), a.logger)
			defer loader.Close()

			err := loader.Load(cmd.Context())
			profile, ok := loader.Profile()
			if !ok {
				if !asJSON {
					a.display().PrintProfileUnavailable()
				}
				return fmt.Errorf("failed to fetch agent details (%s)", chat.Describe(err))
			}

			if asJSON {
				data, err := json.MarshalIndent(profile, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal profile: %w", err)
				}
				fmt.Fprintln(a.out, string(data))
				return nil
			}

			a.display().PrintProfile(profile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the profile as JSON")
	return cmd
}

func (a *app) sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <message...>",
		Short: "Send one message and print the agent's reply",
		Long: `Sends a single message and prints the reply to stdout.

When the request fails the fallback message is printed instead and the
command exits with a non-zero status.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return errors.New("nothing to send")
			}

			session := chat.NewSession(a.client(),
				chat.WithFallbackMessage(a.cfg.FallbackMessage),
				chat.WithLogger(a.logger))
			defer session.Close()

			entry, ok := session.Send(cmd.Context(), text)
			if !ok {
				return errors.New("message was not sent")
			}
			fmt.Fprintln(a.out, entry.Content)

			if err := session.LastError(); err != nil {
				return fmt.Errorf("send failed (%s)", chat.Describe(err))
			}
			return nil
		},
	}
}

func (a *app) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the agent backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := a.client()
			msg, err := client.Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend at %s is not available (%s)", client.BaseURL(), chat.Describe(err))
			}

			d := a.display()
			if msg != "" {
				d.PrintSuccess(fmt.Sprintf("%s: %s", client.BaseURL(), msg))
			} else {
				d.PrintSuccess(client.BaseURL() + " is reachable")
			}
			return nil
		},
	}
}
