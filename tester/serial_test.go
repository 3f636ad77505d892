package tester_test

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/calvinmclean/autofeeder"
	"github.com/calvinmclean/autofeeder/controller"
	"github.com/calvinmclean/autofeeder/protocol"
)

// These tests run against a real feeder. Set AUTOFEEDER_TEST_PORT to the serial port of its BLE
// bridge. Slot 5 is overwritten and then removed.
const testSlot = 5

func testPort(t *testing.T) string {
	t.Helper()
	port := os.Getenv("AUTOFEEDER_TEST_PORT")
	if port == "" {
		t.Skip("AUTOFEEDER_TEST_PORT is not set")
	}
	return port
}

func newController(t *testing.T) *controller.Controller {
	t.Helper()
	c, err := controller.New(controller.Config{
		SerialPort:  testPort(t),
		BaudRate:    9600,
		ReadTimeout: 3 * time.Second,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error connecting: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sendSerial(t *testing.T, in []byte, expectedLen int) []byte {
	t.Helper()
	mode := &serial.Mode{
		BaudRate: 9600,
	}

	port, err := serial.Open(testPort(t), mode)
	if err != nil {
		t.Errorf("unexpected error opening serial connection: %v", err)
		return nil
	}
	defer port.Close()

	_ = port.ResetInputBuffer()
	_, err = port.Write(in)
	if err != nil {
		t.Errorf("unexpected error writing serial: %v", err)
		return nil
	}

	buf := make([]byte, expectedLen)
	total := 0
	port.SetReadTimeout(100 * time.Millisecond)
	deadline := time.Now().Add(3 * time.Second)
	for total < expectedLen && time.Now().Before(deadline) {
		n, err := port.Read(buf[total:])
		if err != nil {
			t.Errorf("unexpected error reading serial: %v", err)
			return nil
		}
		total += n
	}
	return buf[:total]
}

func listSlot(t *testing.T, c *controller.Controller, index int) autofeeder.TimeOfDay {
	t.Helper()
	// the device polls once per second
	time.Sleep(1500 * time.Millisecond)

	tasks, err := c.ListTasks()
	if err != nil {
		t.Fatalf("unexpected error listing tasks: %v", err)
	}
	return tasks[index]
}

func TestAddAndRemove(t *testing.T) {
	c := newController(t)
	want := autofeeder.TimeOfDay{Hour: 23, Minute: 59}

	err := c.AddTask(testSlot, want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := listSlot(t, c, testSlot); got != want {
		t.Errorf("expected=%v, got=%v", want, got)
	}

	err = c.RemoveTask(testSlot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := listSlot(t, c, testSlot); got.Valid() {
		t.Errorf("expected slot to be removed, got %v", got)
	}
}

func TestFrames(t *testing.T) {
	before := sendSerial(t, protocol.ListTasksFrame(), protocol.ListTasksResponseSize)
	if len(before) != protocol.ListTasksResponseSize {
		t.Fatalf("expected %d bytes, got %v", protocol.ListTasksResponseSize, before)
	}

	tests := []struct {
		name string
		in   []byte
	}{
		{"OutOfRangeSlot", []byte{0x00, 0x03, 12, 0, 9}},
		{"UnknownCommand", []byte{0x07, 0x00}},
		{"ShortPayload", []byte{0x00, 0x03, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sendSerial(t, tt.in, 0)
			// short frames are dropped after the device's 5 second read timeout
			time.Sleep(6 * time.Second)

			after := sendSerial(t, protocol.ListTasksFrame(), protocol.ListTasksResponseSize)
			if !bytes.Equal(before, after) {
				t.Errorf("expected table unchanged: before=%v, after=%v", before, after)
			}
		})
	}
}
