// Package jobs holds the background task definitions and the asynq
// worker plumbing. The only scheduled workload is the report cache
// warmup, which pre-fetches the daily reports for every branch so the
// first dashboard visit of the day hits a warm cache.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-fetches report rows into the redis cache.
	TaskReportWarmup = "report:warmup"
)

// ReportWarmupPayload selects which report window to warm.
type ReportWarmupPayload struct {
	Kind string `json:"kind"`
}

// NewReportWarmupTask constructs an asynq task for a warmup run.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
