package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/reviewdeck/reviewdeck/internal/app"
	"github.com/reviewdeck/reviewdeck/internal/ops"
)

func newListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List apps known to the review service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				if err := env.Roster.Refresh(ctx); err != nil {
					return err
				}
				return printApps(cmd.OutOrStdout(), opts.output, newAppViews(env.Roster.Apps()))
			})
		},
	}
}

func printApps(w io.Writer, format string, apps []appView) error {
	if done, err := writeStructured(w, format, apps); done {
		return err
	}
	if len(apps) == 0 {
		_, err := fmt.Fprintln(w, "No apps registered yet. Run `reviewdeck crawl <app-id>` to collect reviews.")
		return err
	}
	tw := newTable(w)
	tw.AppendHeader(table.Row{"App ID", "Name", "Rating", "Reviews", "Analyzed"})
	for _, a := range apps {
		rating := "-"
		if a.Rating != nil {
			rating = fmt.Sprintf("%.1f", *a.Rating)
		}
		analyzed := ""
		if a.Analyzed {
			analyzed = "yes"
		}
		tw.AppendRow(table.Row{a.AppID, a.Name, rating, a.ReviewCount, analyzed})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Transformer: truncTransformer(textColumnWidth(w, 60))},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	tw.Render()
	return nil
}

func newShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <app-id>",
		Short: "Show an app with its analysis and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				if _, err := env.Ops.Select(ctx, args[0]); err != nil {
					return notificationError(env.Ops.Notification(), err)
				}
				snap := env.Detail.Snapshot()
				return printDetail(cmd.OutOrStdout(), opts.output, newDetailView(snap.App))
			})
		},
	}
}

func printDetail(w io.Writer, format string, d detailView) error {
	if done, err := writeStructured(w, format, d); done {
		return err
	}

	name := d.Name
	if strings.TrimSpace(name) == "" {
		name = d.AppID
	}
	fmt.Fprintf(w, "%s (%s)\n", name, d.AppID)
	meta := []string{fmt.Sprintf("%d reviews", d.ReviewCount)}
	if d.Rating != nil {
		meta = append([]string{fmt.Sprintf("rating %.1f", *d.Rating)}, meta...)
	}
	if d.DownloadCount != "" {
		meta = append(meta, d.DownloadCount+" downloads")
	}
	fmt.Fprintln(w, strings.Join(meta, " · "))
	fmt.Fprintln(w)
	if d.OverallAnalysis != "" {
		fmt.Fprintln(w, d.OverallAnalysis)
	} else {
		fmt.Fprintln(w, "Not analyzed yet. Run `reviewdeck analyze "+d.AppID+"`.")
	}
	fmt.Fprintln(w)

	if len(d.Reviews) == 0 {
		_, err := fmt.Fprintln(w, "No reviews collected for this app.")
		return err
	}
	tw := newTable(w)
	tw.AppendHeader(table.Row{"#", "Rating", "Date", "Review", "Analysis"})
	for _, r := range d.Reviews {
		tw.AppendRow(table.Row{r.ID, fmt.Sprintf("%.0f", r.Rating), r.Date, r.Content, r.Analysis})
	}
	textWidth := textColumnWidth(w, 40) / 2
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Transformer: truncTransformer(textWidth)},
		{Number: 5, Transformer: truncTransformer(textWidth)},
	})
	tw.Render()
	return nil
}

// notificationError prefers the user-facing notification text over the raw
// error.
func notificationError(note ops.Notification, err error) error {
	if note.Level == ops.Error && note.Text != "" {
		return fmt.Errorf("%s (%w)", note.Text, err)
	}
	return err
}
