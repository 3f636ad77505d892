// Package schedule reads feeding schedules from YAML files so a whole table can be applied at once
package schedule

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/calvinmclean/autofeeder"
	"gopkg.in/yaml.v3"
)

// Entry is one scheduled slot
type Entry struct {
	Slot int    `yaml:"slot"`
	Time string `yaml:"time"`
}

// Schedule is the file format:
//
//	tasks:
//	  - slot: 0
//	    time: "08:00"
type Schedule struct {
	Tasks []Entry `yaml:"tasks"`
}

// Load reads and validates a schedule file
func Load(path string) (Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("error opening schedule: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads and validates a schedule
func Decode(r io.Reader) (Schedule, error) {
	var s Schedule
	err := yaml.NewDecoder(r).Decode(&s)
	if err != nil && !errors.Is(err, io.EOF) {
		return Schedule{}, fmt.Errorf("error decoding schedule: %w", err)
	}

	err = s.Validate()
	if err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// Validate checks that every slot is in range, used once, and has a valid time
func (s Schedule) Validate() error {
	seen := map[int]bool{}
	for _, e := range s.Tasks {
		if e.Slot < 0 || e.Slot >= autofeeder.MaxTasks {
			return fmt.Errorf("slot %d out of range [0, %d)", e.Slot, autofeeder.MaxTasks)
		}
		if seen[e.Slot] {
			return fmt.Errorf("slot %d is listed more than once", e.Slot)
		}
		seen[e.Slot] = true

		_, err := ParseTimeOfDay(e.Time)
		if err != nil {
			return fmt.Errorf("slot %d: %w", e.Slot, err)
		}
	}
	return nil
}

// Slots returns the time for every slot. Slots that aren't listed are inactive
func (s Schedule) Slots() [autofeeder.MaxTasks]autofeeder.TimeOfDay {
	var result [autofeeder.MaxTasks]autofeeder.TimeOfDay
	for i := range result {
		result[i] = autofeeder.Inactive()
	}
	for _, e := range s.Tasks {
		// already validated
		result[e.Slot], _ = ParseTimeOfDay(e.Time)
	}
	return result
}

// ParseTimeOfDay parses "HH:MM" in 24-hour time
func ParseTimeOfDay(s string) (autofeeder.TimeOfDay, error) {
	hour, minute, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return autofeeder.TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	h, err := strconv.ParseUint(hour, 10, 8)
	if err != nil {
		return autofeeder.TimeOfDay{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.ParseUint(minute, 10, 8)
	if err != nil {
		return autofeeder.TimeOfDay{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}

	t := autofeeder.TimeOfDay{Hour: uint8(h), Minute: uint8(m)}
	if !t.Valid() {
		return autofeeder.TimeOfDay{}, fmt.Errorf("invalid time %q: out of range", s)
	}
	return t, nil
}
