package controller

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/calvinmclean/autofeeder"
	"github.com/calvinmclean/autofeeder/protocol"
	"github.com/calvinmclean/autofeeder/scheduler"
	"github.com/calvinmclean/autofeeder/simulator"
	"github.com/rs/zerolog"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

var (
	ErrNoUSBSerial   = errors.New("no USB serial ports found")
	ErrShortResponse = errors.New("device did not send a complete response")
	ErrInvalidIndex  = fmt.Errorf("slot index must be between 0 and %d", autofeeder.MaxTasks-1)
	ErrInvalidTime   = errors.New("time must be between 00:00 and 23:59")
)

// Port is the connection to the device. go.bug.st/serial ports and simulator connections
// implement it
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(time.Duration) error
	ResetInputBuffer() error
}

var (
	_ Port = serial.Port(nil)
	_ Port = &simulator.Conn{}
)

// Controller sends commands to a feeder over its serial link. The device never acknowledges
// commands, so only ListTasks can confirm that earlier commands were applied
type Controller struct {
	port        Port
	readTimeout time.Duration
	logger      zerolog.Logger
}

// New opens the configured serial port, or starts a simulated device for SerialPortNone
func New(cfg Config, logger zerolog.Logger) (*Controller, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	var port Port
	if cfg.SerialPort == SerialPortNone {
		port, err = simulator.Connect(simulator.Config{
			StateFile:   cfg.StateFile,
			ReadTimeout: cfg.ReadTimeout,
			// poll faster than the hardware so interactive use isn't sluggish
			Scheduler: scheduler.Config{PollPeriod: 50 * time.Millisecond},
		}, logger.With().Str("component", "simulator").Logger())
		if err != nil {
			return nil, fmt.Errorf("error starting simulator: %w", err)
		}
	} else {
		port, err = serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: cfg.BaudRate})
		if err != nil {
			return nil, fmt.Errorf("error opening serial port %q: %w", cfg.SerialPort, err)
		}
	}

	return NewWithPort(port, cfg.ReadTimeout, logger)
}

// NewWithPort creates a Controller using an already-open Port
func NewWithPort(port Port, readTimeout time.Duration, logger zerolog.Logger) (*Controller, error) {
	err := port.SetReadTimeout(100 * time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("error setting read timeout: %w", err)
	}

	return &Controller{
		port:        port,
		readTimeout: readTimeout,
		logger:      logger,
	}, nil
}

// Close closes the port
func (c *Controller) Close() error {
	return c.port.Close()
}

// AddTask schedules t in the slot
func (c *Controller) AddTask(index int, t autofeeder.TimeOfDay) error {
	if index < 0 || index >= autofeeder.MaxTasks {
		return ErrInvalidIndex
	}
	if !t.Valid() {
		return ErrInvalidTime
	}
	return c.send(protocol.AddTaskFrame(uint8(index), t))
}

// RemoveTask deactivates the slot
func (c *Controller) RemoveTask(index int) error {
	if index < 0 || index >= autofeeder.MaxTasks {
		return ErrInvalidIndex
	}
	return c.send(protocol.RemoveTaskFrame(uint8(index)))
}

// SetClock sets the device clock
func (c *Controller) SetClock(t time.Time) error {
	if t.Year() < 2000 || t.Year() > 2099 {
		return fmt.Errorf("year %d can't be stored by the device", t.Year())
	}
	return c.send(protocol.SetClockFrame(t))
}

// FireNow triggers the actuator immediately
func (c *Controller) FireNow() error {
	return c.send(protocol.FireNowFrame())
}

// ListTasks returns the time stored in each slot
func (c *Controller) ListTasks() ([]autofeeder.TimeOfDay, error) {
	err := c.port.ResetInputBuffer()
	if err != nil {
		return nil, fmt.Errorf("error resetting input: %w", err)
	}

	err = c.send(protocol.ListTasksFrame())
	if err != nil {
		return nil, err
	}

	resp, err := c.read(protocol.ListTasksResponseSize)
	if err != nil {
		return nil, err
	}

	return protocol.DecodeTaskList(resp)
}

func (c *Controller) send(frame []byte) error {
	c.logger.Debug().Hex("frame", frame).Msg("sending frame")

	_, err := c.port.Write(frame)
	if err != nil {
		return fmt.Errorf("error writing frame: %w", err)
	}
	return nil
}

// read collects exactly n bytes or fails after the read timeout
func (c *Controller) read(n int) ([]byte, error) {
	result := make([]byte, 0, n)
	buf := make([]byte, n)
	deadline := time.Now().Add(c.readTimeout)

	for len(result) < n && time.Now().Before(deadline) {
		read, err := c.port.Read(buf[:n-len(result)])
		if err != nil {
			return nil, fmt.Errorf("error reading response: %w", err)
		}
		result = append(result, buf[:read]...)
	}

	if len(result) != n {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrShortResponse, len(result), n)
	}
	return result, nil
}

// GetSerialPorts lists the USB serial ports on this computer
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing ports: %w", err)
	}

	var result []string
	for _, port := range ports {
		if port.IsUSB {
			result = append(result, port.Name)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}
	return result, nil
}
