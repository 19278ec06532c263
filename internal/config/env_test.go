package config

import (
	"testing"

	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/emit"
	"github.com/javasync/RxIo/internal/io/fs"
	"github.com/javasync/RxIo/internal/io/line"
	"github.com/javasync/RxIo/internal/testutil"
)

func TestEnv(t *testing.T) {
	t.Run("env var set to yes", func(t *testing.T) {
		t.Setenv("TEST_ENV_VAR", "yes")
		testutil.AssertEqual(t, true, Env("TEST_ENV_VAR"))
	})

	t.Run("env var set to other value", func(t *testing.T) {
		t.Setenv("TEST_ENV_VAR", "no")
		testutil.AssertEqual(t, false, Env("TEST_ENV_VAR"))
	})

	t.Run("empty env var", func(t *testing.T) {
		t.Setenv("EMPTY_VAR", "")
		testutil.AssertEqual(t, false, Env("EMPTY_VAR"))
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RXIO_CHUNK_SIZE", "4")
	t.Setenv("RXIO_HIGH_WATER", "-1")
	t.Setenv("RXIO_CHARSET", "windows-1252")
	t.Setenv("RXIO_DECODE_POLICY", "STRICT")
	t.Setenv("RXIO_ERROR_POLICY", "immediate")
	t.Setenv("RXIO_DECOMPRESS", "yes")
	t.Setenv("RXIO_OPEN_FLAGS", "read,create")
	t.Setenv("RXIO_WRITE_FLAGS", "create,write,truncate")
	t.Setenv("RXIO_LOG_LEVEL", "Debug")
	t.Setenv("RXIO_BATCH", "16")

	cfg, err := FromEnv(Default())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 4, cfg.ChunkSize)
	testutil.AssertEqual(t, -1, cfg.HighWater)
	testutil.AssertEqual(t, "windows-1252", cfg.Charset)
	testutil.AssertEqual(t, line.DecodeStrict, cfg.DecodePolicy)
	testutil.AssertEqual(t, emit.ErrorsImmediate, cfg.ErrorPolicy)
	testutil.AssertEqual(t, true, cfg.Decompress)
	testutil.AssertEqual(t, fs.Read|fs.Create, cfg.Flags)
	testutil.AssertEqual(t, fs.Create|fs.Write|fs.Truncate, cfg.WriteFlags)
	testutil.AssertEqual(t, "debug", cfg.LogLevel)
	testutil.AssertEqual(t, int64(16), cfg.CatBatch)
	testutil.AssertNoError(t, cfg.Validate())
}

func TestFromEnvUnset(t *testing.T) {
	t.Setenv("RXIO_CHUNK_SIZE", "")
	base := Default()

	cfg, err := FromEnv(base)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, base.ChunkSize, cfg.ChunkSize)
}

func TestFromEnvInvalid(t *testing.T) {
	for name, value := range map[string]string{
		"RXIO_CHUNK_SIZE":    "lots",
		"RXIO_DECODE_POLICY": "lenient",
		"RXIO_ERROR_POLICY":  "never",
		"RXIO_OPEN_FLAGS":    "read,append",
		"RXIO_BATCH":         "1.5",
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			_, err := FromEnv(Default())
			if !errors.Is(err, errors.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}
