package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/evertext-autopilot/internal/adapters/chat/discord"
	"github.com/bnema/evertext-autopilot/internal/adapters/notify/console"
	"github.com/bnema/evertext-autopilot/internal/adapters/notify/outbox"
	"github.com/bnema/evertext-autopilot/internal/application"
	"github.com/bnema/evertext-autopilot/internal/config"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daily scheduler and the Discord bot until interrupted",
		Long:  "serve resets every account at local midnight and drains the queue. With a Discord token configured it also serves the slash commands and posts progress to Discord; without one, progress is printed to stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cmd, app)
		},
	}
}

func serve(ctx context.Context, cmd *cobra.Command, app *app) error {
	history, err := app.openHistory(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := history.Close(); err != nil {
			app.logger.WithError(err).Warn("close history database")
		}
	}()

	var bot *discord.Bot
	var sender ports.MessageSender = console.New(cmd.OutOrStdout())
	if token := app.cfg.GetString(config.DiscordToken); token != "" {
		if bot, err = discord.NewBot(token, app.logger); err != nil {
			return err
		}
		sender = bot.Sender()
	} else {
		app.logger.Warn("discord token not set, serving the scheduler only")
	}

	box := outbox.New(sender, outbox.DefaultCapacity, app.logger)
	queue := app.newQueue(box, history)
	scheduler := application.NewScheduler(app.store, queue, app.clock, application.SchedulerConfig{
		Location: app.location,
		Tick:     app.cfg.GetDuration(config.ScheduleTick),
	}, app.logger)

	app.watchConfig()

	// The outbox outlives the producers so their last notices are flushed.
	outboxCtx, stopOutbox := context.WithCancel(context.WithoutCancel(ctx))
	outboxDone := make(chan error, 1)
	go func() { outboxDone <- box.Run(outboxCtx) }()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return scheduler.Run(groupCtx)
	})
	if bot != nil {
		router := discord.NewRouter(app.accounts, queue, app.logger)
		group.Go(func() error {
			return bot.Run(groupCtx, router)
		})
	}

	app.logger.Info("serving")
	err = group.Wait()

	stopOutbox()
	if outboxErr := <-outboxDone; outboxErr != nil && err == nil {
		err = outboxErr
	}
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	app.logger.Info("shutdown complete")
	return nil
}
