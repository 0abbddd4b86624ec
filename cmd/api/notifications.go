package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odonto/admin-api/internal/app"
)

func notificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifications",
		Short: "Print today's notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := app.New(ctx, cfg, l, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.Notifications.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "Nenhuma notificação.")
				return nil
			}
			for _, n := range list {
				fmt.Fprintf(out, "[%s] %s: %s\n", n.Type, n.Title, n.Message)
			}
			return nil
		},
	}
}
