package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/reviewdeck/reviewdeck/internal/app"
	"github.com/reviewdeck/reviewdeck/internal/ops"
)

// errDeclined is returned when the user answers no to the delete prompt.
var errDeclined = errors.New("delete cancelled")

func newCrawlCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "crawl <app-id>",
		Aliases: []string{"ingest"},
		Short:   "Collect app info and reviews for an app ID",
		Example: "  reviewdeck crawl com.example.app",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				res := env.Ops.Do(ctx, ops.Ingest, args[0])
				if err := printResult(cmd, opts.output, res); err != nil || opts.output != formatTable {
					return err
				}
				if snap := env.Detail.Snapshot(); snap.App != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d reviews collected\n", snap.App.AppInfo.AppID, len(snap.App.Reviews))
				}
				return nil
			})
		},
	}
}

func newAnalyzeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <app-id>",
		Short: "Run AI analysis over an app's reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				// Select first so the refreshed detail lands in the view.
				if _, err := env.Ops.Select(ctx, args[0]); err != nil {
					return notificationError(env.Ops.Notification(), err)
				}
				res := env.Ops.Do(ctx, ops.Analyze, args[0])
				if err := printResult(cmd, opts.output, res); err != nil || opts.output != formatTable {
					return err
				}
				if snap := env.Detail.Snapshot(); snap.App != nil && snap.App.AppInfo.OverallAnalysis != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", snap.App.AppInfo.OverallAnalysis)
				}
				return nil
			})
		},
	}
}

func newDeleteCommand(opts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <app-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an app and all its reviews",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID := strings.TrimSpace(args[0])
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
					fmt.Sprintf("Delete %s and all its reviews? (y/N) ", appID))
				if err != nil {
					return err
				}
				if !ok {
					return errDeclined
				}
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				return printResult(cmd, opts.output, env.Ops.Do(ctx, ops.Delete, appID))
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newTopicsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "topics <app-id>",
		Aliases: []string{"topic-model"},
		Short:   "Run topic modeling over an app's reviews",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				if _, err := env.Ops.Select(ctx, args[0]); err != nil {
					return notificationError(env.Ops.Notification(), err)
				}
				res := env.Ops.Do(ctx, ops.TopicModel, args[0])
				if !res.OK() {
					return printResult(cmd, opts.output, res)
				}
				snap := env.Detail.Snapshot()
				if snap.Topics == nil {
					return fmt.Errorf("topic result was discarded")
				}
				view := newTopicsView(res.AppID, snap.Topics, env.Config.TopicWords)
				return printTopics(cmd.OutOrStdout(), opts.output, view)
			})
		},
	}
}

func printTopics(w io.Writer, format string, v topicsView) error {
	if done, err := writeStructured(w, format, v); done {
		return err
	}
	fmt.Fprintf(w, "%d topics across %d reviews\n", v.TopicCount, v.ReviewCount)
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Topic", "Color", "Points", "Words", "Sample"})
	for _, t := range v.Topics {
		sample := ""
		if len(t.Snippets) > 0 {
			sample = "“" + t.Snippets[0] + "”"
		}
		tw.AppendRow(table.Row{t.Label, t.Color, t.Points, strings.Join(t.Words, ", "), sample})
	}
	textWidth := textColumnWidth(w, 40) / 2
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Transformer: truncTransformer(textWidth)},
		{Number: 5, Transformer: truncTransformer(textWidth)},
	})
	tw.Render()
	return nil
}

// printResult writes the operation's notification and turns a failure into
// the command's error.
func printResult(cmd *cobra.Command, format string, res ops.Result) error {
	w := cmd.OutOrStdout()
	if done, err := writeStructured(w, format, newResultView(res)); done {
		if err != nil {
			return err
		}
		if !res.OK() {
			return res.Err
		}
		return nil
	}
	if !res.OK() {
		return notificationError(res.Notification, res.Err)
	}
	_, err := fmt.Fprintln(w, res.Notification.Text)
	return err
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
