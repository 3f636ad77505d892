// Package simulator runs the firmware's scheduler, task table, and protocol handler on a host
// computer, with emulated storage and a log-only actuator
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/calvinmclean/autofeeder/eeprom"
	"github.com/calvinmclean/autofeeder/protocol"
	"github.com/calvinmclean/autofeeder/scheduler"
	"github.com/calvinmclean/autofeeder/tasks"
	"github.com/rs/zerolog"
)

// Config has the simulated device settings
type Config struct {
	// StateFile persists the emulated EEPROM between runs when set
	StateFile   string
	BaseAddress uint16
	ReadTimeout time.Duration
	Scheduler   scheduler.Config
}

// Device is a simulated feeder
type Device struct {
	Clock    *Clock
	Actuator *Actuator
	Port     *Port
	EEPROM   *eeprom.Emulator
	Table    *tasks.Table

	handler *protocol.Handler
	loop    *scheduler.Loop
	logger  zerolog.Logger
}

// New creates a Device whose responses are written to out
func New(cfg Config, out io.Writer, logger zerolog.Logger) (*Device, error) {
	d := &Device{
		Clock:    NewClock(),
		Actuator: NewActuator(logger.With().Str("component", "actuator").Logger()),
		Port:     NewPort(out),
		EEPROM:   eeprom.NewEmulator(eeprom.DefaultEmulatorSize),
		logger:   logger,
	}

	if cfg.StateFile != "" {
		err := d.loadState(cfg.StateFile)
		if err != nil {
			return nil, err
		}
	}

	store := eeprom.New(d.EEPROM)
	store.Configure(eeprom.Config{WriteDelay: -1})

	d.Table = tasks.New(store, d.Actuator,
		tasks.WithBaseAddress(cfg.BaseAddress),
		tasks.WithLogger(logger.With().Str("component", "tasks").Logger()),
	)
	err := d.Table.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading tasks: %w", err)
	}

	d.handler = protocol.NewHandler(d.Port, d.Table, d.Clock, d.Actuator, protocol.Config{
		ReadTimeout: cfg.ReadTimeout,
	}, logger.With().Str("component", "protocol").Logger())

	d.loop = scheduler.New(d.Table, d.handler, d.Clock, cfg.Scheduler,
		logger.With().Str("component", "scheduler").Logger())

	return d, nil
}

func (d *Device) loadState(path string) error {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		d.logger.Info().Str("path", path).Msg("no state file, starting with blank EEPROM")
	case err != nil:
		return fmt.Errorf("error reading state file: %w", err)
	default:
		d.EEPROM.Load(data)
	}

	d.EEPROM.OnWrite = func(mem []byte) {
		err := os.WriteFile(path, mem, 0o644)
		if err != nil {
			d.logger.Error().Err(err).Str("path", path).Msg("error writing state file")
		}
	}
	return nil
}

// Run runs the scheduler loop until ctx is done
func (d *Device) Run(ctx context.Context) {
	d.loop.Run(ctx)
}
