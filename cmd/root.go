package main

import (
	"fmt"
	"log/slog"
	"os"

	"snsbuilder/internal/config"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "snsbuilder",
		Short: "SNS content strategy builder",
		Long: `snsbuilder turns a business or topic description into an SNS content
strategy: real customer pain points found with web search, hooking blog and
video titles, and an outline per title, with the sources it relied on.

Example usage:
  snsbuilder serve                      # Web page, JSON API and Telegram bot
  snsbuilder generate 퍼스널 트레이닝   # Print one strategy to the terminal`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}

	root.AddCommand(newServeCmd(a), newGenerateCmd(a))

	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	a.log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(a.log)

	return nil
}
