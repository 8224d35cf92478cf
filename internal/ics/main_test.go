package ics

import (
	"io"
	"os"
	"testing"

	appLog "weekgrid/internal/log"
)

func TestMain(m *testing.M) {
	// The fallback paths under test log on purpose; keep the output quiet.
	appLog.SetOutput(io.Discard)
	os.Exit(m.Run())
}
