package job

import (
	"io"
	"testing"

	"user-panel/logger"

	"github.com/op/go-logging"
)

func TestClearLogsJobBoundsBuffer(t *testing.T) {
	logging.SetBackend(logging.NewLogBackend(io.Discard, "", 0))

	logger.TrimBuffer(0)
	for i := 0; i < keepEntries+500; i++ {
		logger.Debug("filler entry", i)
	}

	NewClearLogsJob().Run()

	// Run logs one line of its own after trimming.
	logs := logger.GetLogs(2*keepEntries, "DEBUG")
	if expected := keepEntries + 1; len(logs) != expected {
		t.Errorf("buffered entries after run = %d, expected %d", len(logs), expected)
	}
}
