package controller

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// SerialPortNone connects to an in-process simulated device instead of a serial port
const SerialPortNone = "none"

// Config has the host-side connection settings
type Config struct {
	SerialPort  string        `env:"AUTOFEEDER_SERIAL_PORT" env-default:""`
	BaudRate    int           `env:"AUTOFEEDER_BAUD_RATE" env-default:"9600"`
	ReadTimeout time.Duration `env:"AUTOFEEDER_READ_TIMEOUT" env-default:"3s"`
	LogLevel    string        `env:"AUTOFEEDER_LOG_LEVEL" env-default:"info"`

	// StateFile persists the simulated EEPROM when SerialPort is SerialPortNone
	StateFile string `env:"AUTOFEEDER_STATE_FILE" env-default:""`
}

// ConfigFromEnv reads the Config from environment variables
func ConfigFromEnv() (Config, error) {
	var cfg Config
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error reading env: %w", err)
	}
	return cfg, nil
}

// Validate checks the values needed to open a connection
func (c Config) Validate() error {
	if c.SerialPort == "" {
		return fmt.Errorf("serial port is required, use %q to simulate a device", SerialPortNone)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate: %d", c.BaudRate)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %s", c.ReadTimeout)
	}
	return nil
}
