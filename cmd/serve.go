package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"snsbuilder/internal/bot"
	"snsbuilder/internal/web"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web page and API, and the Telegram bot when a token is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	start := time.Now()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter, err := newAdapter(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}

	server := web.New(a.cfg.HTTPAddr, adapter, a.log)

	var botInst *bot.Bot
	if token := strings.TrimSpace(a.cfg.Token); token != "" {
		botInst, err = bot.New(token, adapter, a.cfg.AllowedUsers, a.log)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		a.log.InfoContext(ctx, "Bot is initialized",
			"allowedUsersCount", len(a.cfg.AllowedUsers))
	} else {
		a.log.InfoContext(ctx, "TELEGRAM_TOKEN is empty so the bot is disabled",
			"envVar", "TELEGRAM_TOKEN")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()

		a.log.InfoContext(gctx, "Shutting down",
			"uptimeSeconds", time.Since(start).Seconds())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if botInst != nil {
		g.Go(func() error {
			a.log.InfoContext(gctx, "Bot is started",
				"updateTimeoutSeconds", bot.BotUpdateTimeout)

			botInst.Start(gctx)
			botInst.Stop()

			a.log.InfoContext(gctx, "Bot is stopped",
				"uptimeSeconds", time.Since(start).Seconds())

			return nil
		})
	}

	return g.Wait()
}
