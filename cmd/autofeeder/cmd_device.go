package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/calvinmclean/autofeeder/controller"
	"github.com/calvinmclean/autofeeder/protocol"
)

var setClockCmd = &cobra.Command{
	Use:   "set-clock [RFC3339]",
	Short: "Set the device clock, using this computer's local time by default",
	Long: `Set the device clock. The device has no time zone, so the wall-clock time of the given
timestamp is used as-is.

Examples:
  autofeeder set-clock
  autofeeder set-clock 2026-10-18T08:00:00-07:00`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetClock,
}

var fireCmd = &cobra.Command{
	Use:   "fire",
	Short: "Feed now",
	Args:  cobra.NoArgs,
	RunE:  runFire,
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the frames the device understands",
	Args:  cobra.NoArgs,
	Run:   runCommands,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List USB serial ports",
	Args:  cobra.NoArgs,
	RunE:  runPorts,
}

func init() {
	rootCmd.AddCommand(setClockCmd, fireCmd, commandsCmd, portsCmd)
}

func runSetClock(cmd *cobra.Command, args []string) error {
	t := time.Now()
	if len(args) == 1 {
		var err error
		t, err = time.Parse(time.RFC3339, args[0])
		if err != nil {
			return fmt.Errorf("invalid time: %w", err)
		}
	}

	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	err = c.SetClock(t)
	if err != nil {
		return err
	}
	logger.Info().Str("time", t.Format(time.DateTime)).Msg("clock sent")
	return nil
}

func runFire(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	return c.FireNow()
}

func runCommands(cmd *cobra.Command, args []string) {
	for _, c := range protocol.Commands() {
		fmt.Fprintf(cmd.OutOrStdout(), "0x%02x %s: %s\n", uint8(c.Code), c.Code, c.Description)
	}
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := controller.GetSerialPorts()
	if errors.Is(err, controller.ErrNoUSBSerial) {
		fmt.Fprintln(cmd.OutOrStdout(), "no USB serial ports found")
		return nil
	}
	if err != nil {
		return err
	}

	for _, p := range ports {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
