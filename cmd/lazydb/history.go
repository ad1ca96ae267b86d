package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhath/lazydb/internal/history"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [CONNECTION]",
		Short: "Show recently run queries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := history.DefaultPath()
			if err != nil {
				return err
			}
			store, err := history.NewStore(path)
			if err != nil {
				return err
			}
			defer store.Close()

			conn := ""
			if len(args) == 1 {
				conn = args[0]
			}
			entries, err := store.List(cmd.Context(), conn, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				status := fmt.Sprintf("%d rows", e.RowCount)
				if e.Status == history.StatusError {
					status = "error: " + e.ErrorMessage
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.ExecutedAt.Local().Format(time.DateTime),
					e.Connection,
					e.Duration.Round(time.Millisecond),
					status,
					e.QueryPreview(80),
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of entries to show")
	return cmd
}
