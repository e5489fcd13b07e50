package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/evertext-autopilot/internal/adapters/notify/console"
	"github.com/bnema/evertext-autopilot/internal/application"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "run [name]",
		Short: "Run every eligible account now, or a single account by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			history, err := app.openHistory(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := history.Close(); err != nil {
					app.logger.WithError(err).Warn("close history database")
				}
			}()

			trigger := application.Trigger{OwnerID: ownerID, ChannelID: console.ChannelID}
			label := "Running eligible accounts..."
			if len(args) == 1 {
				label = fmt.Sprintf("Running %s...", args[0])
			}

			err = runWithSpinner(ctx, cmd.ErrOrStderr(), label, console.ChannelID, func(ctx context.Context, notifier ports.Notifier) error {
				queue := app.newQueue(notifier, history)
				if len(args) == 1 {
					return queue.RunSingle(ctx, args[0], trigger)
				}
				return queue.Drain(ctx, trigger)
			})
			if err != nil {
				return err
			}

			accounts, err := app.accounts.List(cmd.Context())
			if err != nil {
				return err
			}
			rendered, err := app.statusRenderer(accounts, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render accounts: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "Only run accounts of this Discord user ID")

	return cmd
}
