package simulator

import (
	"sync"
	"time"

	"github.com/calvinmclean/autofeeder"
	"github.com/calvinmclean/autofeeder/rtc"
)

// Clock follows the host clock, shifted by whatever offset the last SetTime introduced
type Clock struct {
	mtx    sync.Mutex
	offset time.Duration
	loc    *time.Location

	now func() time.Time
}

// NewClock creates a Clock that starts at the host's local time
func NewClock() *Clock {
	return &Clock{loc: time.Local, now: time.Now}
}

// Time returns the simulated wall-clock time
func (c *Clock) Time() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now().In(c.loc).Add(c.offset)
}

// Now implements scheduler.Clock
func (c *Clock) Now() (autofeeder.TimeOfDay, error) {
	return rtc.FromTime(c.Time()).TimeOfDay(), nil
}

// SetTime implements protocol.Clock using the same clamping as the hardware clock
func (c *Clock) SetTime(dt rtc.DateTime) error {
	target := dt.Clamp().Time(c.loc)

	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.offset = target.Sub(c.now().In(c.loc))
	return nil
}
