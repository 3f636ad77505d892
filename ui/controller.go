package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/calvinmclean/autofeeder"
	"github.com/calvinmclean/autofeeder/schedule"
)

// Client is the device connection used by the UI. *controller.Controller implements it
type Client interface {
	ListTasks() ([]autofeeder.TimeOfDay, error)
	AddTask(index int, t autofeeder.TimeOfDay) error
	RemoveTask(index int) error
	SetClock(t time.Time) error
	FireNow() error
}

// controllerWrapper serializes access to the Client, since button callbacks run on their own
// goroutines, and confirms changes by reading the table back
type controllerWrapper struct {
	mtx    sync.Mutex
	client Client
}

func (c *controllerWrapper) Refresh() ([autofeeder.MaxTasks]slot, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.refresh()
}

func (c *controllerWrapper) refresh() ([autofeeder.MaxTasks]slot, error) {
	list, err := c.client.ListTasks()
	if err != nil {
		return [autofeeder.MaxTasks]slot{}, err
	}
	return slotsFromList(list), nil
}

// SetSlot schedules the time in text, or removes the slot when text is empty
func (c *controllerWrapper) SetSlot(index int, text string) ([autofeeder.MaxTasks]slot, error) {
	want := autofeeder.Inactive()
	if strings.TrimSpace(text) != "" {
		var err error
		want, err = schedule.ParseTimeOfDay(text)
		if err != nil {
			return [autofeeder.MaxTasks]slot{}, err
		}
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	var err error
	if want.Valid() {
		err = c.client.AddTask(index, want)
	} else {
		err = c.client.RemoveTask(index)
	}
	if err != nil {
		return [autofeeder.MaxTasks]slot{}, fmt.Errorf("slot %d: %w", index, err)
	}

	slots, err := c.refresh()
	if err != nil {
		return slots, err
	}

	got := slots[index].Time
	if (want.Valid() && got != want) || (!want.Valid() && got.Valid()) {
		slots[index] = slot{Time: want, State: stateUnconfirmed}
	}
	return slots, nil
}

func (c *controllerWrapper) SyncClock(now time.Time) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.client.SetClock(now)
}

func (c *controllerWrapper) Fire() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.client.FireNow()
}
