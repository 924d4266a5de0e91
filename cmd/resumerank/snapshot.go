package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSnapshotCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Work with stored vocabulary snapshots",
	}
	var limit int
	inspect := &cobra.Command{
		Use:   "inspect [PATH]",
		Short: "Show snapshot metadata and its first tokens",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Snapshot.Path
			if len(args) == 1 {
				path = args[0]
			}
			f, err := a.snapshotStore().Inspect(cmd.Context(), path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:      %s\n", path)
			fmt.Fprintf(out, "Version:   %d\n", f.Version)
			fmt.Fprintf(out, "Tokenizer: %s\n", f.Tokenizer)
			fmt.Fprintf(out, "Created:   %s\n", f.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "Tokens:    %d\n", len(f.Tokens))

			n := min(limit, len(f.Tokens))
			if n <= 0 {
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Index", "Token"})
			for i := 0; i < n; i++ {
				t.AppendRow(table.Row{i, f.Tokens[i]})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
	inspect.Flags().IntVar(&limit, "limit", 20, "Number of tokens to list")
	cmd.AddCommand(inspect)
	return cmd
}
