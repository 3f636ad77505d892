//go:build tinygo

package device

import (
	"errors"
	"machine"
	"time"

	"github.com/rs/zerolog"
	"tinygo.org/x/drivers/buzzer"
)

// Feeder is the dispenser's moving and noisy parts. It beeps and then sweeps the stepper
type Feeder struct {
	stepper *Stepper
	buzzer  buzzer.Device

	soundCfg SoundConfig
	sweepCfg SweepConfig
	logger   zerolog.Logger
}

// New initializes the pins for the stepper and buzzer
func New(stepperCfg StepperConfig, soundCfg SoundConfig, sweepCfg SweepConfig, logger zerolog.Logger) (*Feeder, error) {
	stepper, err := NewStepper(stepperCfg)
	if err != nil {
		return nil, errors.New("error creating stepper: " + err.Error())
	}

	soundCfg.Pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	bz := buzzer.New(soundCfg.Pin)
	// the buzzer module is active-low, so high is silent
	err = bz.On()
	if err != nil {
		return nil, errors.New("error silencing buzzer: " + err.Error())
	}

	return &Feeder{
		stepper:  stepper,
		buzzer:   bz,
		soundCfg: soundCfg,
		sweepCfg: sweepCfg,
		logger:   logger,
	}, nil
}

// Fire beeps and then runs the sweep. It blocks until the stepper has finished
func (f *Feeder) Fire() {
	start := time.Now()

	f.Beep()

	steps := f.sweepCfg.Steps
	if !f.sweepCfg.Forward {
		steps = -steps
	}
	f.stepper.Move(steps)

	f.logger.Info().Int32("steps", steps).Dur("duration", time.Since(start)).Msg("fired")
}

// Beep pulses the active-low buzzer input
func (f *Feeder) Beep() {
	err := f.buzzer.Off()
	if err != nil {
		f.logger.Error().Err(err).Msg("error starting beep")
	}
	if f.soundCfg.PulseWidth > 0 {
		time.Sleep(f.soundCfg.PulseWidth)
	}
	err = f.buzzer.On()
	if err != nil {
		f.logger.Error().Err(err).Msg("error stopping beep")
	}
}
