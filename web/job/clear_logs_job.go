// Package job contains the scheduled maintenance tasks of the panel.
package job

import (
	"user-panel/logger"
)

// keepEntries is how many buffered log entries survive the daily trim.
const keepEntries = 1024

type ClearLogsJob struct{}

func NewClearLogsJob() *ClearLogsJob {
	return new(ClearLogsJob)
}

// Run is the Job interface method invoked by the cron scheduler.
func (j *ClearLogsJob) Run() {
	logger.TrimBuffer(keepEntries)
	logger.Debug("log buffer trimmed")
}
