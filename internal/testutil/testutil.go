package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TempFile creates a temporary file with the given content and returns its path.
// The file is automatically cleaned up when the test ends.
func TempFile(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp(t.TempDir(), "rxio-test-*.txt")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		tmpfile.Close()
		t.Fatalf("failed to write to temp file: %v", err)
	}

	if err := tmpfile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	return tmpfile.Name()
}

// TempLinesFile writes lines joined and terminated by LF into a temporary
// file and returns its path.
func TempLinesFile(t *testing.T, lines []string) string {
	t.Helper()

	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	return TempFile(t, builder.String())
}

// TempPath returns a path inside a fresh temporary directory. Nothing exists
// at that path yet.
func TempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// AssertFileContents checks that a file contains the expected content.
func AssertFileContents(t *testing.T, path, expected string) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	if string(actual) != expected {
		t.Errorf("file content mismatch:\nexpected: %q\nactual: %q", expected, string(actual))
	}
}

// AssertError checks that an error is not nil and contains the expected substring.
func AssertError(t *testing.T, err error, contains string) {
	t.Helper()

	if err == nil {
		t.Errorf("expected error containing %q, got nil", contains)
		return
	}

	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected error containing %q, got %q", contains, err.Error())
	}
}

// AssertNoError checks that an error is nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

// AssertEqual checks that two values are equal.
func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	if expected != actual {
		t.Errorf("expected %v, got %v", expected, actual)
	}
}

// AssertContains checks that a string contains a substring.
func AssertContains(t *testing.T, s, substr string) {
	t.Helper()

	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}

// AssertLines checks that two line sequences are identical, reporting the
// first differing index.
func AssertLines(t *testing.T, expected, actual []string) {
	t.Helper()

	n := len(expected)
	if len(actual) < n {
		n = len(actual)
	}
	for i := 0; i < n; i++ {
		if expected[i] != actual[i] {
			t.Errorf("line %d: expected %q, got %q", i, expected[i], actual[i])
			return
		}
	}
	if len(expected) != len(actual) {
		t.Errorf("expected %d lines, got %d", len(expected), len(actual))
	}
}

// WaitFor blocks until ch is closed or the timeout elapses, failing the test
// on timeout.
func WaitFor(t *testing.T, ch <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for %s", timeout, what)
	}
}

// GenerateLogLines generates realistic log lines for testing.
func GenerateLogLines(count int) []string {
	levels := []string{"INFO", "WARN", "ERROR", "DEBUG"}
	messages := []string{
		"Server started successfully",
		"Connection established",
		"Processing request",
		"Request completed",
		"Connection closed",
		"Error processing file",
		"Timeout occurred",
		"Retrying operation",
	}

	lines := make([]string, count)
	for i := 0; i < count; i++ {
		level := levels[i%len(levels)]
		msg := messages[i%len(messages)]
		lines[i] = fmt.Sprintf("2024-01-15 10:00:%02d [%s] %s", i%60, level, msg)
	}

	return lines
}
