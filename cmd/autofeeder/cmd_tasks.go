package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/calvinmclean/autofeeder"
	"github.com/calvinmclean/autofeeder/schedule"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the scheduled times",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add SLOT HH:MM",
	Short: "Schedule a feeding in a slot",
	Long: `Schedule a feeding in a slot. The device doesn't acknowledge commands, so use "list"
to confirm the change.

Example:
  autofeeder add 0 08:30`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove SLOT",
	Short: "Remove the feeding in a slot",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var applyCmd = &cobra.Command{
	Use:   "apply FILE",
	Short: "Replace the whole schedule with a YAML file",
	Long: `Replace the whole schedule with a YAML file. Slots that aren't listed are removed.

Example file:
  tasks:
    - slot: 0
      time: "08:00"
    - slot: 1
      time: "18:00"`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(listCmd, addCmd, removeCmd, applyCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	tasks, err := c.ListTasks()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, t := range tasks {
		fmt.Fprintf(out, "%d  %s\n", i, t)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}
	t, err := schedule.ParseTimeOfDay(args[1])
	if err != nil {
		return err
	}

	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	err = c.AddTask(slot, t)
	if err != nil {
		return err
	}
	logger.Info().Int("slot", slot).Stringer("time", t).Msg("task sent")
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}

	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	err = c.RemoveTask(slot)
	if err != nil {
		return err
	}
	logger.Info().Int("slot", slot).Msg("remove sent")
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	s, err := schedule.Load(args[0])
	if err != nil {
		return err
	}

	c, err := connect()
	if err != nil {
		return err
	}
	defer c.Close()

	for i, t := range s.Slots() {
		if t.Valid() {
			err = c.AddTask(i, t)
		} else {
			err = c.RemoveTask(i)
		}
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	logger.Info().Str("file", args[0]).Int("tasks", len(s.Tasks)).Msg("schedule sent")
	return nil
}

func parseSlot(s string) (int, error) {
	slot, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: %w", s, err)
	}
	if slot < 0 || slot >= autofeeder.MaxTasks {
		return 0, fmt.Errorf("slot %d out of range [0, %d)", slot, autofeeder.MaxTasks)
	}
	return slot, nil
}
