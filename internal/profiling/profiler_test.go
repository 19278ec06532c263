package profiling

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/javasync/RxIo/internal/io/line"
	"github.com/javasync/RxIo/internal/testutil"
)

func TestProfiler(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("DisabledProfiler", func(t *testing.T) {
		p := NewProfiler(Config{ProfileDir: tmpDir, CommandName: "test"})
		if p.enabled {
			t.Error("Profiler should be disabled when no profiling is requested")
		}
		// Should not panic
		p.Stop()
		p.LogMetrics("test")
	})

	t.Run("BothProfiles", func(t *testing.T) {
		p := NewProfiler(Config{
			CPUProfile:  true,
			MemProfile:  true,
			ProfileDir:  tmpDir,
			CommandName: "testboth",
		})
		if !p.enabled {
			t.Fatal("Profiler should be enabled")
		}

		splitLines(t, 20000)
		p.Stop()
		p.Stop()

		for _, kind := range []string{"cpu", "mem"} {
			profiles, err := filepath.Glob(filepath.Join(tmpDir, "testboth_"+kind+"_*.prof"))
			if err != nil {
				t.Fatalf("Failed to list profiles: %v", err)
			}
			if len(profiles) != 1 {
				t.Fatalf("expected one %s profile, got %v", kind, profiles)
			}
			info, err := os.Stat(profiles[0])
			testutil.AssertNoError(t, err)
			if info.Size() == 0 {
				t.Errorf("Profile %s is empty", profiles[0])
			}
		}
	})

	t.Run("UnusableDirectory", func(t *testing.T) {
		blocker := testutil.TempFile(t, "not a directory")
		p := NewProfiler(Config{
			MemProfile:  true,
			ProfileDir:  filepath.Join(blocker, "profiles"),
			CommandName: "broken",
		})
		if p.enabled {
			t.Error("Profiler must disable itself when the directory cannot be created")
		}
	})
}

func TestGetMetrics(t *testing.T) {
	metrics := GetMetrics()
	if metrics.NumGoroutine <= 0 {
		t.Error("NumGoroutine should be positive")
	}
	if metrics.Alloc == 0 {
		t.Error("Alloc should not be zero")
	}
}

func TestFlags(t *testing.T) {
	var f Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs, &f)

	if f.Enabled() {
		t.Error("Flags should not be enabled by default")
	}
	testutil.AssertEqual(t, "profiles", f.ProfileDir)

	testutil.AssertNoError(t, fs.Parse([]string{"--profile", "--profiledir", "out"}))
	if !f.Enabled() {
		t.Error("Should be enabled when --profile is set")
	}

	cfg := f.ToConfig("testcmd")
	testutil.AssertEqual(t, "testcmd", cfg.CommandName)
	testutil.AssertEqual(t, "out", cfg.ProfileDir)
	if !cfg.CPUProfile || !cfg.MemProfile {
		t.Error("Profile flag should enable both CPU and memory profiling")
	}
}

// splitLines gives the profiler a realistic workload.
func splitLines(t *testing.T, count int) {
	t.Helper()

	content := []byte(strings.Join(testutil.GenerateLogLines(count), "\n"))
	s := line.NewSplitter(true)
	defer s.Release()

	n := 0
	emit := func([]byte) error {
		n++
		return nil
	}
	testutil.AssertNoError(t, s.Feed(content, emit))
	testutil.AssertNoError(t, s.Flush(emit))
	testutil.AssertEqual(t, count, n)
}
