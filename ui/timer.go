package ui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// clock shows this computer's time next to the last time the device clock was synced
type clock struct {
	mtx      sync.Mutex
	lastSync time.Time
	now      func() time.Time
	text     *canvas.Text
	stop     chan struct{}
}

func newClock() *clock {
	c := &clock{
		now:  time.Now,
		text: canvas.NewText("", nil),
		stop: make(chan struct{}),
	}
	c.text.Text = c.format()
	return c
}

func (c *clock) Synced(t time.Time) {
	c.mtx.Lock()
	c.lastSync = t
	c.mtx.Unlock()
}

func (c *clock) Stop() {
	close(c.stop)
}

func (c *clock) format() string {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	text := "Now " + c.now().Format(time.TimeOnly)
	if c.lastSync.IsZero() {
		return text + "  (device clock not synced)"
	}
	return text + "  (synced " + c.lastSync.Format(time.DateTime) + ")"
}

func (c *clock) Go() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
			}
			fyne.Do(func() {
				c.text.Text = c.format()
				c.text.Refresh()
			})
		}
	}()
}
