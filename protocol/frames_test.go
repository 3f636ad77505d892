package protocol

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/calvinmclean/autofeeder"
)

func TestFrames(t *testing.T) {
	tests := []struct {
		name     string
		frame    []byte
		expected []byte
	}{
		{"AddTask", AddTaskFrame(2, autofeeder.TimeOfDay{Hour: 14, Minute: 30}), []byte{0x00, 0x03, 14, 30, 2}},
		{"RemoveTask", RemoveTaskFrame(2), []byte{0x01, 0x01, 2}},
		{"ListTasks", ListTasksFrame(), []byte{0x02, 0x00}},
		{
			"SetClock",
			SetClockFrame(time.Date(2026, time.October, 18, 21, 5, 42, 0, time.UTC)),
			[]byte{0x03, 0x06, 42, 5, 21, 18, 10, 26},
		},
		{"FireNow", FireNowFrame(), []byte{0x04, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.frame, tt.expected) {
				t.Errorf("expected=%v, got=%v", tt.expected, tt.frame)
			}
		})
	}
}

func TestEncodeFrameTooLarge(t *testing.T) {
	_, err := EncodeFrame(autofeeder.CommandAddTask, make([]byte, autofeeder.MaxPayloadSize+1)...)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestDecodeTaskListSize(t *testing.T) {
	_, err := DecodeTaskList([]byte{8, 0, 13})
	if !errors.Is(err, ErrResponseSize) {
		t.Errorf("expected ErrResponseSize, got %v", err)
	}
}

func TestCommands(t *testing.T) {
	cmds := Commands()
	if len(cmds) != 5 {
		t.Fatalf("expected 5 commands, got %d", len(cmds))
	}
	for i, cmd := range cmds {
		if cmd.Code != autofeeder.Command(i) {
			t.Errorf("expected code %d, got %d", i, cmd.Code)
		}
		if cmd.Description == "" {
			t.Errorf("missing description for %s", cmd.Code)
		}
	}
}
