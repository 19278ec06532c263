package dlog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/javasync/RxIo/internal/testutil"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	SetLogger(nil)
	l := Logger()
	if l == nil {
		t.Fatal("expected a logger")
	}
	// Must not panic
	l.Info("discarded")
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Logger().Warn("long line", zap.String("path", "a.log"))

	testutil.AssertEqual(t, 1, logs.Len())
	entry := logs.All()[0]
	testutil.AssertEqual(t, "long line", entry.Message)
	testutil.AssertEqual(t, "a.log", entry.ContextMap()["path"])
}

func TestNew(t *testing.T) {
	l, err := New("debug")
	testutil.AssertNoError(t, err)
	if l == nil {
		t.Fatal("expected a logger")
	}

	_, err = New("loud")
	if err == nil {
		t.Error("expected error for unknown level")
	}
}
