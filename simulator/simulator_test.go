package simulator

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/calvinmclean/autofeeder"
	"github.com/calvinmclean/autofeeder/protocol"
	"github.com/calvinmclean/autofeeder/rtc"
	"github.com/calvinmclean/autofeeder/scheduler"
	"github.com/rs/zerolog"
)

func testConfig(stateFile string) Config {
	return Config{
		StateFile:   stateFile,
		ReadTimeout: 100 * time.Millisecond,
		Scheduler: scheduler.Config{
			EvaluationPeriod: 10 * time.Millisecond,
			PollPeriod:       5 * time.Millisecond,
			IdleSleep:        time.Millisecond,
		},
	}
}

func readN(t *testing.T, c *Conn, n int) []byte {
	t.Helper()

	result := make([]byte, 0, n)
	buf := make([]byte, n)
	deadline := time.Now().Add(2 * time.Second)
	for len(result) < n && time.Now().Before(deadline) {
		read, err := c.Read(buf[:n-len(result)])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result = append(result, buf[:read]...)
	}
	return result
}

func TestClock(t *testing.T) {
	host := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := &Clock{loc: time.UTC, now: func() time.Time { return host }}

	now, _ := c.Now()
	if now != (autofeeder.TimeOfDay{Hour: 12, Minute: 0}) {
		t.Errorf("unexpected time: %v", now)
	}

	err := c.SetTime(rtc.DateTime{Year: 2026, Month: 10, Day: 18, Hour: 7, Minute: 59, Second: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	host = host.Add(time.Minute)
	now, _ = c.Now()
	if now != (autofeeder.TimeOfDay{Hour: 8, Minute: 0}) {
		t.Errorf("unexpected time: %v", now)
	}
}

func TestPortFeed(t *testing.T) {
	var out bytes.Buffer
	p := NewPort(&out)

	err := p.Feed(context.Background(), strings.NewReader("\x02\x00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Buffered() != 2 {
		t.Fatalf("expected 2 buffered bytes, got %d", p.Buffered())
	}

	b, _ := p.ReadByte()
	if b != 0x02 {
		t.Errorf("unexpected byte: %x", b)
	}
	_, _ = p.ReadByte()
	_, err = p.ReadByte()
	if err != ErrBufferEmpty {
		t.Errorf("expected ErrBufferEmpty, got %v", err)
	}

	_ = p.WriteByte(0x42)
	if !bytes.Equal(out.Bytes(), []byte{0x42}) {
		t.Errorf("unexpected output: %v", out.Bytes())
	}
}

func TestConnEndToEnd(t *testing.T) {
	c, err := Connect(testConfig(""), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	_, _ = c.Write(protocol.AddTaskFrame(2, autofeeder.TimeOfDay{Hour: 14, Minute: 30}))
	_, _ = c.Write(protocol.ListTasksFrame())

	resp := readN(t, c, protocol.ListTasksResponseSize)
	tasks, err := protocol.DecodeTaskList(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tasks[2] != (autofeeder.TimeOfDay{Hour: 14, Minute: 30}) {
		t.Errorf("unexpected slot 2: %v", tasks[2])
	}
	if tasks[0].Valid() {
		t.Errorf("expected blank EEPROM to leave slot 0 inactive, got %v", tasks[0])
	}
}

func TestConnFiresScheduledTask(t *testing.T) {
	c, err := Connect(testConfig(""), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	_, _ = c.Write(protocol.SetClockFrame(time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)))
	_, _ = c.Write(protocol.AddTaskFrame(0, autofeeder.TimeOfDay{Hour: 8, Minute: 0}))

	deadline := time.Now().Add(2 * time.Second)
	for c.Device().Actuator.Fired() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	// several more evaluations within the same minute
	time.Sleep(100 * time.Millisecond)
	if fired := c.Device().Actuator.Fired(); fired != 1 {
		t.Errorf("expected 1 fire, got %d", fired)
	}
}

func TestStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")

	c, err := Connect(testConfig(path), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _ = c.Write(protocol.AddTaskFrame(4, autofeeder.TimeOfDay{Hour: 6, Minute: 5}))
	_, _ = c.Write(protocol.ListTasksFrame())
	_ = readN(t, c, protocol.ListTasksResponseSize)
	_ = c.Close()

	d, err := New(testConfig(path), io.Discard, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slot := d.Table.Snapshot()[4]
	if !slot.Active || slot.Time != (autofeeder.TimeOfDay{Hour: 6, Minute: 5}) {
		t.Errorf("unexpected slot: %+v", slot)
	}
}
