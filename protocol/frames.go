package protocol

import (
	"errors"
	"time"

	"github.com/calvinmclean/autofeeder"
)

// ListTasksResponseSize is the number of bytes the device writes in response to ListTasks
const ListTasksResponseSize = 2 * autofeeder.MaxTasks

var (
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
	ErrResponseSize    = errors.New("unexpected response size")
)

// EncodeFrame builds an inbound frame for the device
func EncodeFrame(cmd autofeeder.Command, payload ...byte) ([]byte, error) {
	if len(payload) > autofeeder.MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	return append([]byte{byte(cmd), byte(len(payload))}, payload...), nil
}

func mustEncode(cmd autofeeder.Command, payload ...byte) []byte {
	frame, err := EncodeFrame(cmd, payload...)
	if err != nil {
		panic(err)
	}
	return frame
}

// AddTaskFrame schedules t in the slot
func AddTaskFrame(index uint8, t autofeeder.TimeOfDay) []byte {
	return mustEncode(autofeeder.CommandAddTask, t.Hour, t.Minute, index)
}

// RemoveTaskFrame deactivates the slot
func RemoveTaskFrame(index uint8) []byte {
	return mustEncode(autofeeder.CommandRemoveTask, index)
}

// ListTasksFrame requests every slot's time
func ListTasksFrame() []byte {
	return mustEncode(autofeeder.CommandListTasks)
}

// SetClockFrame sets the device clock to t. Years outside 2000-2255 can't be represented
func SetClockFrame(t time.Time) []byte {
	return mustEncode(
		autofeeder.CommandSetClock,
		byte(t.Second()),
		byte(t.Minute()),
		byte(t.Hour()),
		byte(t.Day()),
		byte(t.Month()),
		byte(t.Year()-yearOffset),
	)
}

// FireNowFrame triggers the actuator
func FireNowFrame() []byte {
	return mustEncode(autofeeder.CommandFireNow)
}

// DecodeTaskList parses the ListTasks response into one time per slot. Inactive slots are
// returned as-is and report false from Valid
func DecodeTaskList(resp []byte) ([]autofeeder.TimeOfDay, error) {
	if len(resp) != ListTasksResponseSize {
		return nil, ErrResponseSize
	}

	result := make([]autofeeder.TimeOfDay, autofeeder.MaxTasks)
	for i := range result {
		result[i] = autofeeder.TimeOfDay{Hour: resp[2*i], Minute: resp[2*i+1]}
	}
	return result, nil
}
