package log

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, level Level, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	fn()
	return buf.String()
}

func TestInfoFormatsKeyValues(t *testing.T) {
	out := capture(t, LevelInfo, func() {
		Info("server started", "listen", "127.0.0.1:8080", "people", 3)
	})
	assert.Contains(t, out, "[INFO] server started")
	assert.Contains(t, out, "listen=127.0.0.1:8080")
	assert.Contains(t, out, "people=3")
}

func TestErrorPutsErrFirst(t *testing.T) {
	out := capture(t, LevelInfo, func() {
		Error("fetch failed", errors.New("boom"), "person", "alice")
	})
	assert.Contains(t, out, "[ERROR] fetch failed err=boom person=alice")
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	out := capture(t, LevelInfo, func() {
		Debug("noisy detail")
	})
	assert.Empty(t, out)
}

func TestDebugEmittedAtDebug(t *testing.T) {
	out := capture(t, LevelDebug, func() {
		Debug("noisy detail")
	})
	assert.Contains(t, out, "[DEBUG] noisy detail")
}

func TestErrorOnlyLevel(t *testing.T) {
	out := capture(t, LevelError, func() {
		Info("hidden")
		Error("shown", errors.New("boom"))
	})
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestOddTrailingArgumentIgnored(t *testing.T) {
	out := capture(t, LevelInfo, func() {
		Info("msg", "key", "value", "dangling")
	})
	assert.Contains(t, out, "key=value")
	assert.NotContains(t, out, "dangling")
}
