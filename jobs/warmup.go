package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
	jobmetrics "github.com/projuktisheba/erp-mini-admin/internal/jobs"
	"github.com/projuktisheba/erp-mini-admin/internal/report"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportWarmupJob pre-fetches report rows for every branch so the cache
// is warm before the morning dashboard traffic. It authenticates with the
// service token rather than a user session.
type ReportWarmupJob struct {
	Reports *report.Service
	API     *erpapi.Client
	Token   string
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(reports *report.Service, api *erpapi.Client, token string, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Reports: reports,
		API:     api,
		Token:   token,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil || j.API == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	kind, err := report.ParseKind(payload.Kind)
	if err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReportWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("kind", string(kind)))
	logger.Info("starting report warmup")

	branches, err := j.API.Branches(ctx, erpapi.Auth{Token: j.Token})
	if err != nil {
		resultErr = err
		logger.Error("load branches", slog.Any("error", err))
		return resultErr
	}
	if len(branches) == 0 {
		logger.Info("no branches discovered for warmup")
		return resultErr
	}

	today := j.now()
	warmed := 0
	for _, branch := range branches {
		auth := erpapi.Auth{Token: j.Token, BranchID: branch.ID}
		query := report.NewQuery(kind, branch.ID, today)
		for _, schema := range report.Registry() {
			if _, err := j.Reports.Rows(ctx, auth, schema, query); err != nil {
				// One cold report should not abort the rest of the run.
				logger.Warn("warm report",
					slog.Int64("branch_id", branch.ID),
					slog.String("report", schema.Slug),
					slog.Any("error", err))
				continue
			}
			warmed++
		}
	}

	logger.Info("report warmup complete", slog.Int("warmed", warmed), slog.Int("branches", len(branches)))
	return resultErr
}

func (j *ReportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
