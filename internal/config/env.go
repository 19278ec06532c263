package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/emit"
	"github.com/javasync/RxIo/internal/io/fs"
	"github.com/javasync/RxIo/internal/io/line"
)

// EnvPrefix is the prefix of every environment variable read by FromEnv.
const EnvPrefix = "RXIO_"

// Env returns true when a given environment variable is set to "yes".
func Env(env string) bool {
	return "yes" == os.Getenv(env)
}

// FromEnv overrides base with the RXIO_ environment variables that are set:
// RXIO_CHUNK_SIZE, RXIO_HIGH_WATER, RXIO_CHARSET, RXIO_DECODE_POLICY,
// RXIO_ERROR_POLICY, RXIO_DECOMPRESS, RXIO_OPEN_FLAGS, RXIO_WRITE_FLAGS,
// RXIO_LOG_LEVEL and RXIO_BATCH.
func FromEnv(base Config) (Config, error) {
	cfg := base
	var err error

	if cfg.ChunkSize, err = envInt("CHUNK_SIZE", cfg.ChunkSize); err != nil {
		return base, err
	}
	if cfg.HighWater, err = envInt("HIGH_WATER", cfg.HighWater); err != nil {
		return base, err
	}
	if v, ok := lookup("CHARSET"); ok {
		cfg.Charset = v
	}
	if v, ok := lookup("DECODE_POLICY"); ok {
		if cfg.DecodePolicy, err = line.ParseDecodePolicy(v); err != nil {
			return base, err
		}
	}
	if v, ok := lookup("ERROR_POLICY"); ok {
		if cfg.ErrorPolicy, err = emit.ParseErrorPolicy(v); err != nil {
			return base, err
		}
	}
	if _, ok := lookup("DECOMPRESS"); ok {
		cfg.Decompress = Env(EnvPrefix + "DECOMPRESS")
	}
	if v, ok := lookup("OPEN_FLAGS"); ok {
		if cfg.Flags, err = fs.ParseOpenFlags(v); err != nil {
			return base, err
		}
	}
	if v, ok := lookup("WRITE_FLAGS"); ok {
		if cfg.WriteFlags, err = fs.ParseOpenFlags(v); err != nil {
			return base, err
		}
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("BATCH"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return base, errors.Wrapf(errors.ErrInvalidArgument, "%sBATCH=%q", EnvPrefix, v)
		}
		cfg.CatBatch = n
	}
	return cfg, nil
}

// lookup returns the trimmed value of RXIO_<name> when it is set and not
// empty.
func lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + name))
	return v, v != ""
}

func envInt(name string, def int) (int, error) {
	v, ok := lookup(name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, errors.Wrapf(errors.ErrInvalidArgument, "%s%s=%q", EnvPrefix, name, v)
	}
	return n, nil
}
