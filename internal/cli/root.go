package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reviewdeck/reviewdeck/internal/app"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	prefsPath  string
	apiBase    string
	logLevel   string
	output     string
}

func (g *globalOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		APIBase:    g.apiBase,
		LogLevel:   g.logLevel,
	}
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the TUI.
func NewRootCommand(version, commit, date string) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "reviewdeck",
		Short: "Terminal client for the app review analysis service",
		Long: `reviewdeck collects app store reviews through the review service, runs AI
analysis and topic modeling on them, and shows the results in a terminal UI.

Every operation is also available as a subcommand for scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default ~/.config/reviewdeck/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.prefsPath, "prefs", "", "prefs file path (default $XDG_CONFIG_HOME/reviewdeck/prefs.toml or ~/.config/reviewdeck/prefs.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.apiBase, "api-base", "", "review service address, overrides api_base")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatTable, "output format (table, json, yaml)")

	rootCmd.AddCommand(newTUICommand(opts))
	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newShowCommand(opts))
	rootCmd.AddCommand(newCrawlCommand(opts))
	rootCmd.AddCommand(newAnalyzeCommand(opts))
	rootCmd.AddCommand(newDeleteCommand(opts))
	rootCmd.AddCommand(newTopicsCommand(opts))
	rootCmd.AddCommand(newLogsCommand(opts))
	rootCmd.AddCommand(newFakeServerCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, version, commit, date string) error {
	return NewRootCommand(version, commit, date).ExecuteContext(ctx)
}

func newTUICommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal UI (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}
}

// withEnv bootstraps the shared components for a headless command.
func withEnv(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, env *app.Env) error) error {
	format, err := parseFormat(opts.output)
	if err != nil {
		return err
	}
	opts.output = format
	env, err := app.Bootstrap(opts.appOptions())
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := fn(ctx, env); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return nil
}
