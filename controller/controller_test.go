package controller

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/calvinmclean/autofeeder"
	"github.com/rs/zerolog"
)

type recordingPort struct {
	written bytes.Buffer
	resp    []byte
	resets  int
}

func (p *recordingPort) Write(b []byte) (int, error) {
	return p.written.Write(b)
}

func (p *recordingPort) Read(b []byte) (int, error) {
	n := copy(b, p.resp)
	p.resp = p.resp[n:]
	if n == 0 {
		time.Sleep(time.Millisecond)
	}
	return n, nil
}

func (p *recordingPort) Close() error                       { return nil }
func (p *recordingPort) SetReadTimeout(time.Duration) error { return nil }
func (p *recordingPort) ResetInputBuffer() error {
	p.resets++
	return nil
}

func newTestController(t *testing.T, port Port) *Controller {
	t.Helper()
	c, err := NewWithPort(port, 50*time.Millisecond, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestCommandsWriteFrames(t *testing.T) {
	tests := []struct {
		name     string
		run      func(*Controller) error
		expected []byte
	}{
		{
			"AddTask",
			func(c *Controller) error { return c.AddTask(2, autofeeder.TimeOfDay{Hour: 14, Minute: 30}) },
			[]byte{0x00, 0x03, 14, 30, 2},
		},
		{
			"RemoveTask",
			func(c *Controller) error { return c.RemoveTask(2) },
			[]byte{0x01, 0x01, 2},
		},
		{
			"SetClock",
			func(c *Controller) error { return c.SetClock(time.Date(2026, 10, 18, 21, 5, 42, 0, time.UTC)) },
			[]byte{0x03, 0x06, 42, 5, 21, 18, 10, 26},
		},
		{
			"FireNow",
			func(c *Controller) error { return c.FireNow() },
			[]byte{0x04, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := &recordingPort{}
			err := tt.run(newTestController(t, port))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(port.written.Bytes(), tt.expected) {
				t.Errorf("expected=%v, got=%v", tt.expected, port.written.Bytes())
			}
		})
	}
}

func TestValidation(t *testing.T) {
	port := &recordingPort{}
	c := newTestController(t, port)

	if err := c.AddTask(autofeeder.MaxTasks, autofeeder.TimeOfDay{}); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("expected ErrInvalidIndex, got %v", err)
	}
	if err := c.AddTask(0, autofeeder.TimeOfDay{Hour: 24}); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
	if err := c.RemoveTask(-1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("expected ErrInvalidIndex, got %v", err)
	}
	if err := c.SetClock(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Errorf("expected error for year 1999")
	}
	if port.written.Len() != 0 {
		t.Errorf("expected nothing written, got %v", port.written.Bytes())
	}
}

func TestListTasks(t *testing.T) {
	port := &recordingPort{resp: []byte{8, 0, 13, 0, 100, 0, 100, 0, 100, 0, 20, 15}}
	c := newTestController(t, port)

	got, err := c.ListTasks()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port.resets != 1 {
		t.Errorf("expected input reset before request")
	}
	if !bytes.Equal(port.written.Bytes(), []byte{0x02, 0x00}) {
		t.Errorf("unexpected request: %v", port.written.Bytes())
	}
	if got[1] != (autofeeder.TimeOfDay{Hour: 13, Minute: 0}) || got[2].Valid() || got[5] != (autofeeder.TimeOfDay{Hour: 20, Minute: 15}) {
		t.Errorf("unexpected tasks: %v", got)
	}
}

func TestListTasksShortResponse(t *testing.T) {
	port := &recordingPort{resp: []byte{8, 0, 13}}
	c := newTestController(t, port)

	_, err := c.ListTasks()
	if !errors.Is(err, ErrShortResponse) {
		t.Errorf("expected ErrShortResponse, got %v", err)
	}
}

func TestSimulatedDevice(t *testing.T) {
	c, err := New(Config{
		SerialPort:  SerialPortNone,
		BaudRate:    9600,
		ReadTimeout: 3 * time.Second,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	err = c.AddTask(1, autofeeder.TimeOfDay{Hour: 7, Minute: 45})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = c.RemoveTask(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = c.AddTask(3, autofeeder.TimeOfDay{Hour: 19, Minute: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.ListTasks()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1].Valid() {
		t.Errorf("expected slot 1 removed, got %v", got[1])
	}
	if got[3] != (autofeeder.TimeOfDay{Hour: 19, Minute: 0}) {
		t.Errorf("unexpected slot 3: %v", got[3])
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		valid bool
	}{
		{"Valid", Config{SerialPort: "/dev/ttyUSB0", BaudRate: 9600, ReadTimeout: time.Second}, true},
		{"Simulated", Config{SerialPort: SerialPortNone, BaudRate: 9600, ReadTimeout: time.Second}, true},
		{"MissingPort", Config{BaudRate: 9600, ReadTimeout: time.Second}, false},
		{"BadBaud", Config{SerialPort: "/dev/ttyUSB0", ReadTimeout: time.Second}, false},
		{"BadTimeout", Config{SerialPort: "/dev/ttyUSB0", BaudRate: 9600}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err == nil) != tt.valid {
				t.Errorf("expected valid=%v, got %v", tt.valid, err)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("AUTOFEEDER_SERIAL_PORT", "/dev/ttyUSB1")
	t.Setenv("AUTOFEEDER_READ_TIMEOUT", "500ms")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SerialPort != "/dev/ttyUSB1" || cfg.ReadTimeout != 500*time.Millisecond {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.BaudRate != 9600 || cfg.LogLevel != "info" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
