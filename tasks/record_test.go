package tasks

import (
	"errors"
	"testing"

	"github.com/calvinmclean/autofeeder"
)

func TestRecord(t *testing.T) {
	var tasks [autofeeder.MaxTasks]Task
	for i := range tasks {
		tasks[i] = Task{Time: autofeeder.Inactive()}
	}
	tasks[0] = Task{Time: autofeeder.TimeOfDay{Hour: 8, Minute: 0}, Executed: true}
	tasks[2] = Task{Time: autofeeder.TimeOfDay{Hour: 14, Minute: 30}}

	buf := Marshal(tasks)
	if len(buf) != RecordSize {
		t.Fatalf("expected %d bytes, got %d", RecordSize, len(buf))
	}
	if buf[0] != 8 || buf[1] != 0 || buf[2] != 1 {
		t.Errorf("unexpected first entry: %v", buf[:3])
	}

	got, err := Unmarshal(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tasks {
		t.Errorf("expected=%v, got=%v", tasks, got)
	}

	t.Run("FlippedBit", func(t *testing.T) {
		corrupt := append([]byte{}, buf...)
		corrupt[7] ^= 0x01
		_, err := Unmarshal(corrupt)
		if !errors.Is(err, ErrCorrupt) {
			t.Errorf("expected ErrCorrupt, got %v", err)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Unmarshal(buf[:RecordSize-1])
		if !errors.Is(err, ErrCorrupt) {
			t.Errorf("expected ErrCorrupt, got %v", err)
		}
	})
}
