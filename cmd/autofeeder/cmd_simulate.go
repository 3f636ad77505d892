package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/calvinmclean/autofeeder/controller"
	"github.com/calvinmclean/autofeeder/simulator"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulated feeder",
	Long: `Run the feeder firmware's scheduler and protocol handler on this computer.

With --port set to a serial device (for example one end of a virtual serial pair), the simulated
feeder listens on it. Otherwise it reads frames from stdin and writes responses to stdout.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	var (
		in  io.Reader = os.Stdin
		out io.Writer = cmd.OutOrStdout()
	)
	if cfg.SerialPort != "" && cfg.SerialPort != controller.SerialPortNone {
		port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: cfg.BaudRate})
		if err != nil {
			return fmt.Errorf("error opening serial port %q: %w", cfg.SerialPort, err)
		}
		defer port.Close()

		err = port.SetReadTimeout(100 * time.Millisecond)
		if err != nil {
			return fmt.Errorf("error setting read timeout: %w", err)
		}
		in, out = port, port
	}

	d, err := simulator.New(simulator.Config{
		StateFile:   cfg.StateFile,
		ReadTimeout: cfg.ReadTimeout,
	}, out, logger)
	if err != nil {
		return err
	}

	// the terminal bell stands in for the buzzer
	d.Actuator.OnFire = func() { fmt.Fprint(os.Stderr, "\a") }

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		err := d.Port.Feed(ctx, in)
		if err != nil {
			logger.Error().Err(err).Msg("error reading input")
			stop()
		}
	}()

	logger.Info().Str("port", cfg.SerialPort).Msg("simulated feeder running")
	d.Run(ctx)
	logger.Info().Msg("simulated feeder stopped")
	return nil
}
