package simulator

import (
	"context"
	"errors"
	"io"
	"sync"
)

var ErrBufferEmpty = errors.New("buffer empty")

// Port implements protocol.Port. Inbound bytes are appended by Write or Feed from any goroutine,
// and bytes written by the device go to out
type Port struct {
	mtx sync.Mutex
	in  []byte
	out io.Writer
}

// NewPort creates a Port that sends device output to out
func NewPort(out io.Writer) *Port {
	return &Port{out: out}
}

// Write queues bytes for the device to read
func (p *Port) Write(b []byte) (int, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.in = append(p.in, b...)
	return len(b), nil
}

// Buffered implements protocol.Port
func (p *Port) Buffered() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.in)
}

// ReadByte implements protocol.Port
func (p *Port) ReadByte() (byte, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if len(p.in) == 0 {
		return 0, ErrBufferEmpty
	}
	b := p.in[0]
	p.in = p.in[1:]
	return b, nil
}

// WriteByte implements protocol.Port
func (p *Port) WriteByte(b byte) error {
	_, err := p.out.Write([]byte{b})
	return err
}

// Feed copies from r into the inbound buffer until r fails or ctx is done. A reader that
// returns 0, nil on timeout (like a serial port) is polled again
func (p *Port) Feed(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			_, _ = p.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
