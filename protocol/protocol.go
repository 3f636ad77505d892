// Package protocol decodes and dispatches the binary command frames received over the device's
// secondary serial link.
//
// A frame is [command][declaredLength][payload...] with no checksum or markers. The declared
// length is clamped to MaxPayloadSize and the frame is only dispatched when the full payload
// arrives before the read timeout.
package protocol

import (
	"time"

	"github.com/calvinmclean/autofeeder"
	"github.com/calvinmclean/autofeeder/rtc"
	"github.com/calvinmclean/autofeeder/tasks"
	"github.com/rs/zerolog"
)

const (
	DefaultReadTimeout = 5 * time.Second
	defaultRetryDelay  = time.Millisecond
)

// Port is a byte-oriented serial link. ReadByte returns an error when no byte is buffered
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
	WriteByte(byte) error
}

// Table is the schedule modified by commands
type Table interface {
	Add(index int, t autofeeder.TimeOfDay) error
	Remove(index int) error
	Snapshot() [autofeeder.MaxTasks]tasks.Slot
}

// Clock is set by the SetClock command
type Clock interface {
	SetTime(rtc.DateTime) error
}

// Actuator is triggered by the FireNow command
type Actuator interface {
	Fire()
}

// Config has the timing for reading frames
type Config struct {
	// ReadTimeout bounds the time spent reading the rest of a frame after its command byte
	ReadTimeout time.Duration
	// RetryDelay is how long to wait between attempts when the port has no byte buffered
	RetryDelay time.Duration
}

// Packet is one inbound frame
type Packet struct {
	Command autofeeder.Command
	Payload [autofeeder.MaxPayloadSize]byte
	Len     uint8
}

// Data returns the payload bytes that were received
func (p *Packet) Data() []byte {
	return p.Payload[:p.Len]
}

// Handler reads frames from a Port and runs the matching Command
type Handler struct {
	port     Port
	table    Table
	clock    Clock
	actuator Actuator

	readTimeout time.Duration
	retryDelay  time.Duration
	logger      zerolog.Logger

	// packet is reused for every frame
	packet Packet

	now   func() time.Time
	sleep func(time.Duration)
}

// NewHandler creates a Handler
func NewHandler(port Port, table Table, clock Clock, actuator Actuator, cfg Config, logger zerolog.Logger) *Handler {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	return &Handler{
		port:        port,
		table:       table,
		clock:       clock,
		actuator:    actuator,
		readTimeout: cfg.ReadTimeout,
		retryDelay:  cfg.RetryDelay,
		logger:      logger,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// Poll reads and dispatches at most one frame. It returns immediately when nothing is buffered
// and otherwise blocks for no longer than the read timeout. It returns true if a frame was
// dispatched
func (h *Handler) Poll() bool {
	if h.port.Buffered() == 0 {
		return false
	}

	cmd, err := h.port.ReadByte()
	if err != nil {
		return false
	}

	deadline := h.now().Add(h.readTimeout)
	pkt := &h.packet
	pkt.Command = autofeeder.Command(cmd)
	pkt.Len = 0

	declared, ok := h.readByte(deadline)
	if !ok {
		h.logger.Warn().Uint8("cmd", cmd).Msg("timeout while receiving header")
		return false
	}

	expected := declared
	if expected > autofeeder.MaxPayloadSize {
		expected = autofeeder.MaxPayloadSize
	}

	h.logger.Debug().Uint8("cmd", cmd).Uint8("len", declared).Msg("received header")

	for pkt.Len < expected {
		b, ok := h.readByte(deadline)
		if !ok {
			break
		}
		pkt.Payload[pkt.Len] = b
		pkt.Len++
	}

	if pkt.Len != expected {
		h.logger.Warn().
			Uint8("cmd", cmd).
			Uint8("expected", expected).
			Uint8("read", pkt.Len).
			Msg("timeout while receiving payload")
		return false
	}

	h.Dispatch(pkt)
	return true
}

// readByte waits for one byte until the deadline
func (h *Handler) readByte(deadline time.Time) (byte, bool) {
	for {
		if h.port.Buffered() > 0 {
			b, err := h.port.ReadByte()
			if err == nil {
				return b, true
			}
		}
		if !h.now().Before(deadline) {
			return 0, false
		}
		h.sleep(h.retryDelay)
	}
}

// Dispatch runs the command for a complete frame. Frames with an unknown command or a payload
// shorter than the command requires are ignored
func (h *Handler) Dispatch(pkt *Packet) {
	cmd, ok := commandMap[pkt.Command]
	if !ok {
		h.logger.Warn().Uint8("cmd", uint8(pkt.Command)).Msg("unknown command")
		return
	}

	data := pkt.Data()
	if len(data) < int(cmd.MinPayload) {
		h.logger.Debug().
			Stringer("cmd", pkt.Command).
			Int("len", len(data)).
			Uint8("required", cmd.MinPayload).
			Msg("ignoring short payload")
		return
	}

	err := cmd.Run(h, data)
	if err != nil {
		h.logger.Error().Err(err).Stringer("cmd", pkt.Command).Msg("error running command")
	}
}
