package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/evychat/internal/config"
	"github.com/diogo/evychat/internal/history"
	"github.com/diogo/evychat/internal/storage"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the saved conversation",
		Long: `View, export, search and clear the conversation saved for the current
session (select another one with --session).`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, g)
		},
	})

	var format, output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export the conversation as markdown or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryExport(cmd, g, format, output)
		},
	}
	export.Flags().StringVar(&format, "format", "markdown", "Export format (markdown, json)")
	export.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.AddCommand(export)

	cmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Find messages containing a phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistorySearch(cmd, g, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Start the conversation over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryClear(cmd, g)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sessions",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistorySessions(cmd)
		},
	})

	return cmd
}

func runHistoryShow(cmd *cobra.Command, g *globalOptions) error {
	deps, err := loadDependencies(g, loadOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	out := cmd.OutOrStdout()
	msgs := deps.Store.Snapshot()

	fmt.Fprintf(out, "Session: %s\n", deps.Config.Session)
	fmt.Fprintf(out, "Messages: %d\n\n", len(msgs))

	for i, msg := range msgs {
		fmt.Fprintf(out, "[%d] %s:\n", i+1, msg.Role.DisplayName())
		for _, line := range strings.Split(msg.Text, "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
		for j, s := range msg.Sources {
			fmt.Fprintf(out, "  [%d] %s - %s\n", j+1, truncate(s.Title, 60), s.URI)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, g *globalOptions, format, output string) error {
	exportFormat, err := history.ParseExportFormat(format)
	if err != nil {
		return err
	}

	deps, err := loadDependencies(g, loadOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	opts := history.DefaultExportOptions()
	opts.Format = exportFormat
	opts.Session = deps.Config.Session
	opts.Model = deps.Config.DefaultModel

	data, err := history.Export(deps.Store.Snapshot(), opts)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d messages to %s\n", deps.Store.Len(), output)
	return nil
}

func runHistorySearch(cmd *cobra.Command, g *globalOptions, query string) error {
	deps, err := loadDependencies(g, loadOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	out := cmd.OutOrStdout()
	results := history.Search(deps.Store.Snapshot(), query)
	if len(results) == 0 {
		fmt.Fprintf(out, "No messages match %q.\n", query)
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(out, "[%d] %s: %s\n", r.Index+1, r.Message.Role.DisplayName(), r.MatchSnippet)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, g *globalOptions) error {
	deps, err := loadDependencies(g, loadOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	deps.Store.Reset()
	fmt.Fprintf(cmd.OutOrStdout(), "Session %q cleared.\n", deps.Config.Session)
	return nil
}

func runHistorySessions(cmd *cobra.Command) error {
	dir, err := config.GetSessionDir("default")
	if err != nil {
		return err
	}
	// Sessions live side by side under the same root
	names, err := storage.ListSessions(filepath.Dir(dir))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No sessions found.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
