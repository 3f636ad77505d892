//go:build tinygo

package main

import (
	"context"
	"machine"
	"time"

	"github.com/calvinmclean/autofeeder/eeprom"
	"github.com/calvinmclean/autofeeder/firmware/device"
	"github.com/calvinmclean/autofeeder/protocol"
	"github.com/calvinmclean/autofeeder/rtc"
	"github.com/calvinmclean/autofeeder/scheduler"
	"github.com/calvinmclean/autofeeder/tasks"
	"github.com/rs/zerolog"
)

// buildTime is set with -ldflags="-X main.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var buildTime string

const eepromBaseAddress = 0x0000

func main() {
	// give the USB console a moment so the first logs aren't lost
	time.Sleep(2 * time.Second)

	logger := zerolog.New(machine.Serial).Level(zerolog.InfoLevel)
	logger.Info().Msg("Start")

	i2c := machine.I2C1
	err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GP2,
		SCL:       machine.GP3,
	})
	if err != nil {
		panic(err)
	}

	ble := machine.UART1
	err = ble.Configure(machine.UARTConfig{
		BaudRate: 9600,
		TX:       machine.GP8,
		RX:       machine.GP9,
	})
	if err != nil {
		panic(err)
	}

	clock := rtc.New(i2c)
	setClockFromBuild(clock, logger)

	store := eeprom.New(i2c)
	store.Configure(eeprom.Config{
		Address:    eeprom.DefaultAddress,
		PageSize:   32,
		WriteDelay: 5 * time.Millisecond,
	})

	feeder, err := device.New(
		device.StepperConfig{
			StepPin:         machine.GP16,
			DirPin:          machine.GP17,
			EnablePin:       machine.GP18,
			HalfPeriod:      200 * time.Microsecond,
			EnableActiveLow: true,
		},
		device.SoundConfig{
			Pin:        machine.GP22,
			PulseWidth: 50 * time.Millisecond,
		},
		device.SweepConfig{
			Steps:   800,
			Forward: true,
		},
		logger.With().Str("component", "feeder").Logger(),
	)
	if err != nil {
		panic(err)
	}

	table := tasks.New(store, feeder,
		tasks.WithBaseAddress(eepromBaseAddress),
		tasks.WithLogger(logger.With().Str("component", "tasks").Logger()),
	)
	err = table.Load()
	if err != nil {
		logger.Error().Err(err).Msg("error loading tasks")
	}

	handler := protocol.NewHandler(ble, table, clock, feeder, protocol.Config{
		ReadTimeout: 5 * time.Second,
	}, logger.With().Str("component", "protocol").Logger())

	loop := scheduler.New(table, handler, clock, scheduler.Config{
		EvaluationPeriod: time.Second,
		PollPeriod:       time.Second,
		IdleSleep:        10 * time.Millisecond,
	}, logger.With().Str("component", "scheduler").Logger())

	loop.Run(context.Background())
}

// setClockFromBuild sets the clock to the build time when the clock is behind it, which happens
// after the backup battery runs out
func setClockFromBuild(clock *rtc.Device, logger zerolog.Logger) {
	if buildTime == "" {
		return
	}

	built, err := time.Parse(time.RFC3339, buildTime)
	if err != nil {
		logger.Error().Err(err).Str("build_time", buildTime).Msg("invalid build time")
		return
	}

	current, err := clock.ReadDateTime()
	if err != nil {
		logger.Error().Err(err).Msg("error reading clock")
		return
	}

	if !current.Time(time.UTC).Before(built) {
		return
	}

	err = clock.SetTime(rtc.FromTime(built))
	if err != nil {
		logger.Error().Err(err).Msg("error setting clock")
		return
	}
	logger.Info().Str("time", buildTime).Msg("clock set from build time")
}
