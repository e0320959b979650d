package ui

import (
	"os"
	"testing"

	"github.com/fitdesk/fitdesk/internal/logger"
)

func TestMain(m *testing.M) {
	// Disable logging during tests to avoid polluting the debug log
	logger.Reset()
	logger.Init(os.DevNull)

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}
