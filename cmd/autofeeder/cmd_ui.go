package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calvinmclean/autofeeder/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the schedule editor",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ui.NewFeederUI(ui.ControllerConnect(logger), logger).Run(ctx, cfg)
	return nil
}
