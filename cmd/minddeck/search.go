package main

import (
	"fmt"
	"strings"

	"github.com/minddeck/minddeck/application/service"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var (
		project string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find log entries similar to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			opts := []service.SearchOption{}
			if project != "" {
				opts = append(opts, service.WithProject(project))
			}
			if limit > 0 {
				opts = append(opts, service.WithLimit(limit))
			}

			results, err := client.Retrieval.FindSimilarEvents(cmd.Context(), strings.Join(args, " "), opts...)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("No matching entries.")
				return nil
			}

			for _, scored := range results {
				ev := scored.Event()
				fmt.Printf("%.3f  [%s] (%s) [%s]: %s\n",
					scored.Similarity(), ev.ID(), ev.Timestamp().Format("2006-01-02 15:04"), ev.Type(), ev.Text())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "restrict results to a single project")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default: SEARCH_LIMIT)")
	return cmd
}
