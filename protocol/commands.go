package protocol

import (
	"github.com/calvinmclean/autofeeder"
	"github.com/calvinmclean/autofeeder/rtc"
)

const yearOffset = 2000

// Command is the handler for one command code
type Command struct {
	Code        autofeeder.Command
	MinPayload  uint8
	Run         func(*Handler, []byte) error
	Description string
}

var (
	AddTaskCommand = &Command{
		Code:       autofeeder.CommandAddTask,
		MinPayload: 3,
		Run: func(h *Handler, input []byte) error {
			t := autofeeder.TimeOfDay{Hour: input[0], Minute: input[1]}
			idx := int(input[2])
			h.logger.Info().Int("slot", idx).Stringer("time", t).Msg("add task")
			return h.table.Add(idx, t)
		},
		Description: "Schedule a task. Input: hour, minute, slot index.",
	}
	RemoveTaskCommand = &Command{
		Code:       autofeeder.CommandRemoveTask,
		MinPayload: 1,
		Run: func(h *Handler, input []byte) error {
			idx := int(input[0])
			h.logger.Info().Int("slot", idx).Msg("remove task")
			return h.table.Remove(idx)
		},
		Description: "Remove the task in a slot. Input: slot index.",
	}
	ListTasksCommand = &Command{
		Code:       autofeeder.CommandListTasks,
		MinPayload: 0,
		Run: func(h *Handler, _ []byte) error {
			for _, slot := range h.table.Snapshot() {
				h.logger.Debug().
					Int("slot", slot.Index).
					Stringer("time", slot.Time).
					Bool("active", slot.Active).
					Bool("executed", slot.Executed).
					Msg("task")

				err := h.port.WriteByte(slot.Time.Hour)
				if err != nil {
					return err
				}
				err = h.port.WriteByte(slot.Time.Minute)
				if err != nil {
					return err
				}
			}
			return nil
		},
		Description: "Respond with the hour and minute of every slot.",
	}
	SetClockCommand = &Command{
		Code:       autofeeder.CommandSetClock,
		MinPayload: 6,
		Run: func(h *Handler, input []byte) error {
			dt := rtc.DateTime{
				Second: int(input[0]),
				Minute: int(input[1]),
				Hour:   int(input[2]),
				Day:    int(input[3]),
				Month:  int(input[4]),
				Year:   int(input[5]) + yearOffset,
			}
			h.logger.Info().
				Int("year", dt.Year).Int("month", dt.Month).Int("day", dt.Day).
				Int("hour", dt.Hour).Int("minute", dt.Minute).Int("second", dt.Second).
				Msg("set clock")
			return h.clock.SetTime(dt)
		},
		Description: "Set the clock. Input: second, minute, hour, day, month, year-2000.",
	}
	FireNowCommand = &Command{
		Code:       autofeeder.CommandFireNow,
		MinPayload: 0,
		Run: func(h *Handler, _ []byte) error {
			h.logger.Info().Msg("fire now")
			h.actuator.Fire()
			return nil
		},
		Description: "Run the sound and motor sequence immediately.",
	}
)

var commands = []*Command{
	AddTaskCommand,
	RemoveTaskCommand,
	ListTasksCommand,
	SetClockCommand,
	FireNowCommand,
}

var commandMap = func() map[autofeeder.Command]*Command {
	m := map[autofeeder.Command]*Command{}
	for _, cmd := range commands {
		m[cmd.Code] = cmd
	}
	return m
}()

// Commands returns every supported command in code order
func Commands() []*Command {
	return append([]*Command{}, commands...)
}
