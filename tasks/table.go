package tasks

import (
	"errors"

	"github.com/calvinmclean/autofeeder"
	"github.com/rs/zerolog"
)

// Store is byte-addressed non-volatile memory
type Store interface {
	WriteBytes(addr uint16, data []byte) error
	ReadBytes(addr uint16, buf []byte) error
}

// Actuator performs the sound and motor sequence when a task is due
type Actuator interface {
	Fire()
}

// Task is one slot in the schedule
type Task struct {
	Time     autofeeder.TimeOfDay
	Executed bool
}

// Active is true when the slot holds a valid time of day
func (t Task) Active() bool {
	return t.Time.Valid()
}

// Slot is a reporting view of a Task and its position in the table
type Slot struct {
	Index    int
	Time     autofeeder.TimeOfDay
	Executed bool
	Active   bool
}

// Table owns the fixed-size schedule. It is not safe for concurrent use: all calls are expected
// to come from the scheduler loop
type Table struct {
	tasks [autofeeder.MaxTasks]Task

	store    Store
	actuator Actuator
	baseAddr uint16
	logger   zerolog.Logger

	// dirty is set when the last write to the store failed
	dirty bool
}

// Option configures a Table
type Option func(*Table)

// WithBaseAddress sets where the record lives in the store
func WithBaseAddress(addr uint16) Option {
	return func(t *Table) {
		t.baseAddr = addr
	}
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}

// New creates a Table with every slot inactive. Call Load to restore the persisted schedule
func New(store Store, actuator Actuator, opts ...Option) *Table {
	t := &Table{
		store:    store,
		actuator: actuator,
		logger:   zerolog.Nop(),
	}
	t.clear()

	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load replaces the table with the record in the store. A record that fails its checksum is
// treated as an empty store and every slot is left inactive
func (t *Table) Load() error {
	buf := make([]byte, RecordSize)
	err := t.store.ReadBytes(t.baseAddr, buf)
	if err != nil {
		t.clear()
		return &StoreIOError{Op: "read", Address: t.baseAddr, Err: err}
	}

	tasks, err := Unmarshal(buf)
	if errors.Is(err, ErrCorrupt) {
		t.logger.Warn().Uint16("addr", t.baseAddr).Msg("no valid task record in store, starting with no tasks")
		t.clear()
		return nil
	}

	t.tasks = tasks
	for i, task := range t.tasks {
		t.logger.Debug().Int("slot", i).Stringer("time", task.Time).Bool("executed", task.Executed).Msg("loaded task")
	}
	return nil
}

// Evaluate fires every active task scheduled for now that has not fired yet, and clears the
// executed flag of every active task not scheduled for now
func (t *Table) Evaluate(now autofeeder.TimeOfDay) {
	for i := range t.tasks {
		task := &t.tasks[i]
		if !task.Active() {
			continue
		}

		if task.Time != now {
			task.Executed = false
			continue
		}

		if !task.Executed {
			t.logger.Info().Int("slot", i).Stringer("time", now).Msg("task due")
			t.actuator.Fire()
			task.Executed = true
		}
	}
}

// Add schedules a task at the slot. An index out of range is ignored
func (t *Table) Add(index int, tod autofeeder.TimeOfDay) error {
	if !inRange(index) {
		return nil
	}
	t.tasks[index] = Task{Time: tod}
	return t.persist()
}

// Remove deactivates the slot. An index out of range is ignored
func (t *Table) Remove(index int) error {
	if !inRange(index) {
		return nil
	}
	t.tasks[index] = Task{Time: autofeeder.Inactive()}
	return t.persist()
}

// IsActive is true when the slot holds a valid time. Indexes out of range are never active
func (t *Table) IsActive(index int) bool {
	if !inRange(index) {
		return false
	}
	return t.tasks[index].Active()
}

// IsInactive is the inverse of IsActive
func (t *Table) IsInactive(index int) bool {
	return !t.IsActive(index)
}

// Snapshot returns every slot in index order
func (t *Table) Snapshot() [autofeeder.MaxTasks]Slot {
	var result [autofeeder.MaxTasks]Slot
	for i, task := range t.tasks {
		result[i] = Slot{
			Index:    i,
			Time:     task.Time,
			Executed: task.Executed,
			Active:   task.Active(),
		}
	}
	return result
}

// Dirty reports whether the store is behind the in-memory table
func (t *Table) Dirty() bool {
	return t.dirty
}

// Flush retries writing the table if the last write failed
func (t *Table) Flush() error {
	if !t.dirty {
		return nil
	}
	return t.persist()
}

// persist rewrites the whole table to the store
func (t *Table) persist() error {
	err := t.store.WriteBytes(t.baseAddr, Marshal(t.tasks))
	if err != nil {
		t.dirty = true
		return &StoreIOError{Op: "write", Address: t.baseAddr, Err: err}
	}

	t.dirty = false
	return nil
}

func (t *Table) clear() {
	for i := range t.tasks {
		t.tasks[i] = Task{Time: autofeeder.Inactive()}
	}
}

func inRange(index int) bool {
	return index >= 0 && index < autofeeder.MaxTasks
}
