//go:build tinygo

package device

import (
	"machine"
	"time"
)

// StepperConfig has the pins for a step/direction driver
type StepperConfig struct {
	StepPin   machine.Pin
	DirPin    machine.Pin
	EnablePin machine.Pin
	// HalfPeriod is how long the step pin is held high, then low, for each step
	HalfPeriod time.Duration
	// EnableActiveLow is true for drivers that enable the outputs when the pin is low
	EnableActiveLow bool
}

// SoundConfig has the buzzer wiring
type SoundConfig struct {
	Pin machine.Pin
	// PulseWidth is how long the buzzer input is held low
	PulseWidth time.Duration
}

// SweepConfig is the motion performed every time a task fires
type SweepConfig struct {
	Steps   int32
	Forward bool
}
