package main

import (
	"fmt"
	"strings"

	"github.com/minddeck/minddeck/application/service"
	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question grounded in your memory log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			var opts []service.AskOption
			if project != "" {
				opts = append(opts, service.WithAskProject(project))
			}

			answer, err := client.Brain.Ask(cmd.Context(), strings.Join(args, " "), opts...)
			if err != nil {
				return err
			}

			fmt.Println(answer.UserResponse())
			if memories := answer.RelatedMemories(); len(memories) > 0 {
				fmt.Println("\nBased on:")
				for _, m := range memories {
					fmt.Printf("  [%s] %s (%s): %s\n", m.ID(), m.Date(), m.Kind(), m.Excerpt())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "restrict grounding to a single project")
	return cmd
}
