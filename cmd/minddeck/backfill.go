package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func backfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Embed every event that is missing an embedding",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			task := client.Embedding.Backfill(cmd.Context())
			if err := task.Wait(); err != nil {
				return err
			}

			fmt.Printf("embedded %d, skipped %d, failed %d\n",
				task.Embedded(), task.Skipped(), task.Failed())
			return nil
		},
	}
}
