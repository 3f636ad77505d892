package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/calvinmclean/autofeeder/controller"
	"github.com/calvinmclean/autofeeder/logging"
)

var (
	logger zerolog.Logger
	cfg    controller.Config

	portFlag        string
	baudFlag        int
	readTimeoutFlag time.Duration
	logLevelFlag    string
	stateFileFlag   string
	prettyFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "autofeeder",
	Short: "Manage a scheduled feeder over its serial link",
	Long: `autofeeder talks to the feeder firmware over a serial port (usually a BLE bridge).

Settings are read from AUTOFEEDER_* environment variables and can be overridden with flags.
Use --port=none to run against a simulated device.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&portFlag, "port", "p", "", "Serial port, or \"none\" to simulate a device (env AUTOFEEDER_SERIAL_PORT)")
	flags.IntVar(&baudFlag, "baud", 0, "Baud rate (env AUTOFEEDER_BAUD_RATE)")
	flags.DurationVar(&readTimeoutFlag, "read-timeout", 0, "How long to wait for responses (env AUTOFEEDER_READ_TIMEOUT)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level (env AUTOFEEDER_LOG_LEVEL)")
	flags.StringVar(&stateFileFlag, "state-file", "", "File that persists the simulated EEPROM (env AUTOFEEDER_STATE_FILE)")
	flags.BoolVar(&prettyFlag, "pretty", true, "Human-readable logs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies flag overrides (called by commands that need it)
func loadConfig() error {
	var err error
	cfg, err = controller.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if portFlag != "" {
		cfg.SerialPort = portFlag
	}
	if baudFlag != 0 {
		cfg.BaudRate = baudFlag
	}
	if readTimeoutFlag != 0 {
		cfg.ReadTimeout = readTimeoutFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if stateFileFlag != "" {
		cfg.StateFile = stateFileFlag
	}

	logger = logging.Setup(cfg.LogLevel, prettyFlag)
	return nil
}

// connect loads the config and opens the device
func connect() (*controller.Controller, error) {
	if err := loadConfig(); err != nil {
		return nil, err
	}

	c, err := controller.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return c, nil
}
