//go:build tinygo

package device

import (
	"errors"
	"machine"
	"time"
)

const defaultHalfPeriod = 200 * time.Microsecond

// Stepper drives a step/direction stepper driver
type Stepper struct {
	step            machine.Pin
	dir             machine.Pin
	enable          machine.Pin
	halfPeriod      time.Duration
	enableActiveLow bool
}

func NewStepper(cfg StepperConfig) (*Stepper, error) {
	if cfg.StepPin == cfg.DirPin || cfg.StepPin == cfg.EnablePin || cfg.DirPin == cfg.EnablePin {
		return nil, errors.New("stepper pins must be distinct")
	}

	if cfg.HalfPeriod == 0 {
		cfg.HalfPeriod = defaultHalfPeriod
	}

	s := &Stepper{
		step:            cfg.StepPin,
		dir:             cfg.DirPin,
		enable:          cfg.EnablePin,
		halfPeriod:      cfg.HalfPeriod,
		enableActiveLow: cfg.EnableActiveLow,
	}
	for _, p := range []machine.Pin{s.step, s.dir, s.enable} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	s.setEnabled(false)
	s.dir.High()
	return s, nil
}

func (s *Stepper) setEnabled(enabled bool) {
	s.enable.Set(enabled != s.enableActiveLow)
}

// Move enables the driver, pulses the step pin and disables the driver again. Negative steps
// move backwards
func (s *Stepper) Move(steps int32) {
	s.setEnabled(true)
	defer s.setEnabled(false)

	s.dir.Set(steps > 0)
	if steps < 0 {
		steps = -steps
	}

	for range steps {
		s.step.High()
		time.Sleep(s.halfPeriod)
		s.step.Low()
		time.Sleep(s.halfPeriod)
	}
}
