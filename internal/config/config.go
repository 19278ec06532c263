// Package config provides configuration management for the rxio readers,
// the writer and the command line tool. Settings come from defaults,
// environment variables with the RXIO_ prefix and command line flags.
//
// Configuration precedence (highest to lowest):
// 1. Command-line flags
// 2. Environment variables
// 3. Default values
package config

import (
	"go.uber.org/zap/zapcore"

	"github.com/javasync/RxIo/internal/constants"
	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/fs"
)

const (
	// DefaultLogLevel specifies the default log level.
	DefaultLogLevel string = "info"
	// DefaultCatBatch is the demand the cat command requests at a time.
	DefaultCatBatch int64 = constants.DefaultCatBatch
	// InterruptTimeoutS specifies how long a second Ctrl+C is awaited
	// before the command exits hard.
	InterruptTimeoutS int = constants.InterruptTimeoutSeconds
)

// Config holds the read options and the process settings.
type Config struct {
	fs.ReadOptions
	// WriteFlags are the open flags of the writer.
	WriteFlags fs.OpenFlag
	// LogLevel is one of debug, info, warn or error.
	LogLevel string
	// CatBatch is the per request demand of the cat command.
	CatBatch int64
}

// Current holds the configuration after Setup.
var Current *Config

// Default returns the built in configuration.
func Default() Config {
	return Config{
		ReadOptions: fs.ReadOptions{}.WithDefaults(),
		WriteFlags:  fs.DefaultWriteFlags,
		LogLevel:    DefaultLogLevel,
		CatBatch:    DefaultCatBatch,
	}
}

// Validate checks every setting.
func (c Config) Validate() error {
	if err := c.ReadOptions.Validate(); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "log level %q", c.LogLevel)
	}
	if c.CatBatch <= 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "batch must be positive, got %d", c.CatBatch)
	}
	if c.WriteFlags&fs.Write == 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "write flags %s lack write", c.WriteFlags)
	}
	return nil
}

// Setup builds the configuration from defaults, the environment and then
// apply, which sets command line overrides and may be nil. The result is
// validated and made available via Current.
func Setup(apply func(*Config) error) (*Config, error) {
	cfg, err := FromEnv(Default())
	if err != nil {
		return nil, err
	}
	if apply != nil {
		if err := apply(&cfg); err != nil {
			return nil, err
		}
	}
	cfg.ReadOptions = cfg.ReadOptions.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	Current = &cfg
	return Current, nil
}
