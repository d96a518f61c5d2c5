// Package cli wires configuration, logging and the agent client into the
// light-chat commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"light-chat/internal/agent"
	"light-chat/internal/config"
	"light-chat/internal/logging"
)

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// Global flags
	configPath string
	backendURL string
	timeout    time.Duration
	verbose    bool
	logFile    string
	plain      bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the command tree reading from stdin and writing to
// stdout and stderr
func NewRootCmd() *cobra.Command {
	return newApp(os.Stdin, os.Stdout, os.Stderr).rootCmd()
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:     in,
		out:    out,
		errOut: errOut,
		logger: zap.NewNop(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	chat := a.chatCmd()

	root := &cobra.Command{
		Use:   "light-chat",
		Short: "Chat with a remote AI agent from the terminal",
		Long: `light-chat talks to an agent backend over HTTP.

Messages are sent to POST /message and the agent's profile is read from
GET /being. Run without arguments to start an interactive chat.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: chat.RunE,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath(), "config file path")
	flags.StringVar(&a.backendURL, "backend-url", config.DefaultBackendURL, "agent backend base URL")
	flags.DurationVar(&a.timeout, "timeout", 0, "request timeout (0 waits indefinitely)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "show failure categories and log at debug level")
	flags.StringVar(&a.logFile, "log-file", "", "diagnostics log file (empty disables logging)")
	flags.BoolVar(&a.plain, "plain", false, "line-mode chat instead of the full-screen interface")

	root.AddCommand(chat, a.beingCmd(), a.sendCmd(), a.pingCmd())
	return root
}

// setup loads configuration, applies flags that were set explicitly and
// builds the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("backend-url") {
		cfg.BackendURL = a.backendURL
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = a.timeout
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if flags.Changed("plain") {
		cfg.Plain = a.plain
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := logging.New(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("backend", cfg.BackendURL),
		zap.Duration("timeout", cfg.RequestTimeout),
		zap.Bool("plain", cfg.Plain))
	return nil
}

func (a *app) client() *agent.Client {
	return agent.NewClient(a.cfg.BackendURL, a.cfg.RequestTimeout, agent.WithLogger(a.logger))
}

// Execute runs the root command until it finishes or the process is
// interrupted, and returns the exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
