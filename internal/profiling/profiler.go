// Package profiling writes CPU and heap profiles of an rxio command run.
package profiling

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"go.uber.org/zap"

	"github.com/javasync/RxIo/internal/io/dlog"
)

// Profiler manages CPU and memory profiling for rxio commands
type Profiler struct {
	cpuProfile  *os.File
	memProfile  string
	profileDir  string
	commandName string
	enabled     bool
	log         *zap.Logger
}

// Config holds profiling configuration
type Config struct {
	// Enable CPU profiling
	CPUProfile bool
	// Enable memory profiling
	MemProfile bool
	// Directory to store profiles
	ProfileDir string
	// Command name for profile naming
	CommandName string
}

// NewProfiler creates a new profiler instance and starts CPU profiling when
// requested. Failures are logged and leave the profiler disabled.
func NewProfiler(cfg Config) *Profiler {
	p := &Profiler{log: dlog.Logger()}
	if !cfg.CPUProfile && !cfg.MemProfile {
		return p
	}

	p.profileDir = cfg.ProfileDir
	p.commandName = cfg.CommandName
	p.enabled = true
	if p.profileDir == "" {
		p.profileDir = "profiles"
	}
	if err := os.MkdirAll(p.profileDir, 0o755); err != nil {
		p.log.Warn("Failed to create profile directory", zap.String("dir", p.profileDir), zap.Error(err))
		p.enabled = false
		return p
	}

	if cfg.CPUProfile {
		p.startCPUProfile()
	}
	if cfg.MemProfile {
		p.memProfile = p.path("mem")
	}
	return p
}

func (p *Profiler) path(kind string) string {
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join(p.profileDir, fmt.Sprintf("%s_%s_%s.prof", p.commandName, kind, timestamp))
}

func (p *Profiler) startCPUProfile() {
	path := p.path("cpu")
	f, err := os.Create(path)
	if err != nil {
		p.log.Warn("Failed to create CPU profile file", zap.Error(err))
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		p.log.Warn("Failed to start CPU profile", zap.Error(err))
		f.Close()
		return
	}
	p.cpuProfile = f
	p.log.Debug("Started CPU profiling", zap.String("file", path))
}

// Stop stops all profiling and writes profiles to disk
func (p *Profiler) Stop() {
	if !p.enabled {
		return
	}
	if p.cpuProfile != nil {
		pprof.StopCPUProfile()
		p.cpuProfile.Close()
		p.cpuProfile = nil
		p.log.Debug("Stopped CPU profiling")
	}
	if p.memProfile != "" {
		p.writeMemProfile()
		p.memProfile = ""
	}
}

func (p *Profiler) writeMemProfile() {
	f, err := os.Create(p.memProfile)
	if err != nil {
		p.log.Warn("Failed to create memory profile file", zap.Error(err))
		return
	}
	defer f.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		p.log.Warn("Failed to write memory profile", zap.Error(err))
		return
	}
	p.log.Debug("Wrote memory profile", zap.String("file", p.memProfile))
}

// ProfileMetrics captures current runtime metrics
type ProfileMetrics struct {
	Alloc        uint64 // Bytes allocated and still in use
	TotalAlloc   uint64 // Bytes allocated (even if freed)
	Sys          uint64 // Bytes obtained from system
	NumGC        uint32 // Number of completed GC cycles
	PauseTotalNs uint64 // Total GC pause time in nanoseconds
	NumGoroutine int
}

// GetMetrics returns current runtime metrics
func GetMetrics() ProfileMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return ProfileMetrics{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// LogMetrics logs current runtime metrics
func (p *Profiler) LogMetrics(label string) {
	if !p.enabled {
		return
	}
	m := GetMetrics()
	p.log.Info("Profile metrics",
		zap.String("label", label),
		zap.Float64("allocMB", float64(m.Alloc)/1024/1024),
		zap.Float64("totalAllocMB", float64(m.TotalAlloc)/1024/1024),
		zap.Float64("sysMB", float64(m.Sys)/1024/1024),
		zap.Uint32("numGC", m.NumGC),
		zap.Duration("gcPause", time.Duration(m.PauseTotalNs)),
		zap.Int("goroutines", m.NumGoroutine))
}
