package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reviewdeck/reviewdeck/internal/config"
	"github.com/reviewdeck/reviewdeck/internal/logtail"
)

func newLogsCommand(opts *globalOptions) *cobra.Command {
	var (
		lines   int
		level   string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the reviewdeck log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			minLevel := logtail.LevelDebug
			if strings.TrimSpace(level) != "" {
				if minLevel = logtail.ParseLevel(level); minLevel == logtail.LevelUnknown {
					return fmt.Errorf("unknown level %q (want debug, info, warn, or error)", level)
				}
			}

			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tail) == 0 {
				_, err := fmt.Fprintf(out, "No log entries in %s\n", cfg.LogFile)
				return err
			}
			tail = logtail.Filter(tail, minLevel)
			if !noColor && detectTerminalWidth(out) > 0 {
				tail = logtail.DefaultPalette().ColorizeLines(tail)
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of lines from the end (0 for all)")
	cmd.Flags().StringVar(&level, "level", "", "minimum level to show (debug, info, warn, error)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
