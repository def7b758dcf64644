package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/studiowebux/appclient/internal/actions"
	"github.com/studiowebux/appclient/internal/cli"
	"github.com/studiowebux/appclient/internal/config"
	"github.com/studiowebux/appclient/internal/executor"
	"github.com/studiowebux/appclient/internal/history"
	"github.com/studiowebux/appclient/internal/logging"
	"github.com/studiowebux/appclient/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "appclient",
	Short: "Client for the demo app server",
	Long: `appclient triggers the demo server's endpoints and shows the responses.

Run without arguments to start the interactive TUI, or use a subcommand to
run a single call and print the result.

Examples:
  appclient                          # Start interactive TUI
  appclient hello Ana                # GET /app/hello?name=Ana
  appclient hello Ana --post         # POST /app/hello?name=Ana
  appclient time -o json             # Server time with call metadata
  appclient sum 2 3 --query sum      # Only the sum field
  appclient history --limit 10       # Recent calls
  appclient history --control btnSum # Calls made by one button
  appclient stats                    # Calls per control`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var helloCmd = &cobra.Command{
	Use:   "hello [name]",
	Short: "Greet through /app/hello",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) > 0 {
			name = args[0]
		}
		if flagPost {
			return runAction(cmd, actions.ControlHelloPost, actions.Input{NamePost: name})
		}
		return runAction(cmd, actions.ControlHelloGet, actions.Input{Name: name})
	},
}

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Fetch the server time from /app/time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, actions.ControlTime, actions.Input{})
	},
}

var sumCmd = &cobra.Command{
	Use:   "sum [a] [b]",
	Short: "Add two numbers through /app/sum",
	Long:  "Add two numbers through /app/sum. Missing operands are sent as 0.",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in actions.Input
		if len(args) > 0 {
			in.A = args[0]
		}
		if len(args) > 1 {
			in.B = args[1]
		}
		return runAction(cmd, actions.ControlSum, in)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or clear recorded calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(mgr *history.Manager) error {
			return cli.History(mgr, cli.HistoryOptions{
				Limit:        flagLimit,
				Control:      flagControl,
				Clear:        flagClear,
				OutputFormat: flagOutput,
			}, cmd.OutOrStdout())
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call statistics per control",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(mgr *history.Manager) error {
			return cli.Stats(mgr, flagOutput, cmd.OutOrStdout())
		})
	},
}

// Persistent flags
var (
	flagBaseURL       string
	flagConfig        string
	flagLogLevel      string
	flagSurfaceErrors bool
)

// Output flags
var (
	flagOutput string
	flagQuery  string
	flagSave   string
)

var (
	flagPost    bool
	flagLimit   int
	flagControl string
	flagClear   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Server base URL (default from config, "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.appclient/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().BoolVar(&flagSurfaceErrors, "surface-errors", false, "Write failures into the response pane (TUI)")

	for _, cmd := range []*cobra.Command{helloCmd, timeCmd, sumCmd} {
		cmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml/body)")
		cmd.Flags().StringVar(&flagQuery, "query", "", "JMESPath expression applied to the response")
		cmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save output to file")
	}
	helloCmd.Flags().BoolVar(&flagPost, "post", false, "Use POST instead of GET")

	historyCmd.Flags().IntVar(&flagLimit, "limit", history.DefaultLimit, "Number of entries to show")
	historyCmd.Flags().StringVar(&flagControl, "control", "", "Only show calls made by this control (e.g. btnSum)")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every entry")
	historyCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml)")
	statsCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml)")

	rootCmd.AddCommand(helloCmd)
	rootCmd.AddCommand(timeCmd)
	rootCmd.AddCommand(sumCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig initializes the config directory, loads the config file and
// applies flag overrides.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	if flagConfig == "" {
		flagConfig = config.ConfigFile
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagSurfaceErrors {
		cfg.SurfaceErrors = true
	}
	return cfg, nil
}

// setup loads the config and installs a logger writing to logOut
func setup(logOut io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger, err := logging.Setup(cfg.LogLevel, logOut)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

// withHistory opens the history database for a reporting command
func withHistory(cmd *cobra.Command, fn func(*history.Manager) error) error {
	cfg, logger, err := setup(logging.Console(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	if !cfg.History() {
		return fmt.Errorf("history is disabled in %s", flagConfig)
	}

	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return err
	}
	defer mgr.Close()

	logger.Debug().Str("db", config.DatabasePath).Msg("history opened")
	return fn(mgr)
}

// openHistory returns the history manager, or nil when disabled or broken
func openHistory(cfg *config.Config, logger zerolog.Logger) *history.Manager {
	if !cfg.History() {
		return nil
	}
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable")
		return nil
	}
	return mgr
}

func newClient(cfg *config.Config) (*http.Client, error) {
	client, err := executor.NewClient(cfg.TLS, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}
	return client, nil
}

// runAction executes one action in CLI mode
func runAction(cmd *cobra.Command, control string, in actions.Input) error {
	cfg, logger, err := setup(logging.Console(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	mgr := openHistory(cfg, logger)
	if mgr != nil {
		defer mgr.Close()
	}

	return cli.Run(context.Background(), cli.RunOptions{
		Control:      control,
		Input:        in,
		OutputFormat: flagOutput,
		Query:        flagQuery,
		SavePath:     flagSave,
		Config:       cfg,
		Client:       client,
		History:      mgr,
		Logger:       &logger,
	}, cmd.OutOrStdout())
}

// runTUI starts the interactive TUI, logging to the log file
func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := logging.Setup(cfg.LogLevel, logFile)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	mgr := openHistory(cfg, logger)
	if mgr != nil {
		defer mgr.Close()
	}

	logger.Info().Str("base_url", cfg.BaseURL).Msg("starting TUI")
	return tui.Run(tui.Options{
		BaseURL:       cfg.BaseURL,
		Client:        client,
		History:       mgr,
		Logger:        &logger,
		SurfaceErrors: cfg.SurfaceErrors,
	})
}
