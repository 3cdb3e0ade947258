package main

import (
	"fmt"
	"strings"

	"github.com/minddeck/minddeck/domain/event"
	"github.com/spf13/cobra"
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage memory log entries",
	}
	cmd.AddCommand(eventsAddCmd())
	cmd.AddCommand(eventsListCmd())
	return cmd
}

func eventsAddCmd() *cobra.Command {
	var (
		eventType string
		project   string
	)

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Record a new entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			ev, err := client.Events.Add(cmd.Context(), strings.Join(args, " "),
				event.Type(eventType), project, event.SourceUser)
			if err != nil {
				return err
			}

			fmt.Printf("recorded %s\n", ev.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&eventType, "type", string(event.TypeNote), "entry type (note, idea, task_update, summary)")
	cmd.Flags().StringVar(&project, "project", "", "project the entry belongs to")
	return cmd
}

func eventsListCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			events, err := client.Events.List(cmd.Context(), event.Filter{Project: project})
			if err != nil {
				return err
			}

			for _, ev := range events {
				fmt.Printf("[%s] (%s) [%s]: %s\n",
					ev.ID(), ev.Timestamp().Format("2006-01-02 15:04"), ev.Type(), ev.Text())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "restrict to a single project")
	return cmd
}
