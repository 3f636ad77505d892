package simulator

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("connection closed")

const drainTimeout = 2 * time.Second

// Conn is an in-process connection to a running simulated Device. It behaves like a serial port:
// Read returns 0, nil when nothing arrives before the read timeout
type Conn struct {
	device *Device
	resp   *lockedBuffer

	mtx     sync.Mutex
	timeout time.Duration
	closed  bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Connect starts a Device in the background and returns a connection to it
func Connect(cfg Config, logger zerolog.Logger) (*Conn, error) {
	resp := &lockedBuffer{}
	d, err := New(cfg, resp, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		device:  d,
		resp:    resp,
		timeout: time.Second,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		d.Run(ctx)
	}()

	return c, nil
}

// Device returns the simulated device
func (c *Conn) Device() *Device {
	return c.device
}

// Write sends bytes to the device
func (c *Conn) Write(b []byte) (int, error) {
	if c.isClosed() {
		return 0, ErrClosed
	}
	return c.device.Port.Write(b)
}

// Read waits up to the read timeout for device output
func (c *Conn) Read(b []byte) (int, error) {
	if c.isClosed() {
		return 0, ErrClosed
	}

	c.mtx.Lock()
	deadline := time.Now().Add(c.timeout)
	c.mtx.Unlock()

	for {
		n, _ := c.resp.Read(b)
		if n > 0 || !time.Now().Before(deadline) {
			return n, nil
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// SetReadTimeout sets how long Read waits
func (c *Conn) SetReadTimeout(t time.Duration) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.timeout = t
	return nil
}

// ResetInputBuffer drops unread device output
func (c *Conn) ResetInputBuffer() error {
	c.resp.Reset()
	return nil
}

// Close stops the device once it has consumed pending input, waiting at most drainTimeout
func (c *Conn) Close() error {
	c.mtx.Lock()
	if c.closed {
		c.mtx.Unlock()
		return nil
	}
	c.closed = true
	c.mtx.Unlock()

	deadline := time.Now().Add(drainTimeout)
	for c.device.Port.Buffered() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	c.cancel()
	<-c.done
	return nil
}

func (c *Conn) isClosed() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.closed
}

type lockedBuffer struct {
	mtx sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Read(p []byte) (int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.Read(p)
}

func (b *lockedBuffer) Reset() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.buf.Reset()
}
