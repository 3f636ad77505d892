package simulator

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Actuator logs instead of moving anything
type Actuator struct {
	logger zerolog.Logger
	fired  atomic.Int64

	// OnFire is called after every Fire
	OnFire func()
}

// NewActuator creates an Actuator
func NewActuator(logger zerolog.Logger) *Actuator {
	return &Actuator{logger: logger}
}

// Fire implements tasks.Actuator and protocol.Actuator
func (a *Actuator) Fire() {
	n := a.fired.Add(1)
	a.logger.Info().Int64("count", n).Msg("beep, sweep")
	if a.OnFire != nil {
		a.OnFire()
	}
}

// Fired is the number of times Fire was called
func (a *Actuator) Fired() int64 {
	return a.fired.Load()
}
