package jobs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
	"github.com/projuktisheba/erp-mini-admin/internal/report"
)

func TestReportWarmupHandleFetchesEveryBranchAndReport(t *testing.T) {
	var reportCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/branches":
			assert.Equal(t, "Bearer service-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"branches":[{"id":1,"name":"Main"},{"id":2,"name":"Uttara"}]}`))
		default:
			reportCalls.Add(1)
			assert.NotEmpty(t, r.URL.Query().Get("start_date"))
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	api := erpapi.NewClient(srv.URL, time.Second)
	svc := report.NewService(report.NewFetcher(api), report.NewCache(nil, time.Minute))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	job := NewReportWarmupJob(svc, api, "service-token", logger, nil)

	task, err := NewReportWarmupTask(ReportWarmupPayload{Kind: "daily"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	want := int64(2 * len(report.Registry()))
	assert.Equal(t, want, reportCalls.Load(), "one fetch per branch per report")
}

func TestReportWarmupHandleToleratesColdReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/branches" {
			_, _ = w.Write([]byte(`{"branches":[{"id":1,"name":"Main"}]}`))
			return
		}
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	api := erpapi.NewClient(srv.URL, time.Second)
	svc := report.NewService(report.NewFetcher(api), report.NewCache(nil, time.Minute))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	job := NewReportWarmupJob(svc, api, "service-token", logger, nil)
	task, err := NewReportWarmupTask(ReportWarmupPayload{})
	require.NoError(t, err)

	assert.NoError(t, job.Handle(context.Background(), task), "one failing report must not abort the run")
}

func TestReportWarmupHandleRejectsBadPayload(t *testing.T) {
	job := NewReportWarmupJob(
		report.NewService(report.NewFetcher(nil), report.NewCache(nil, 0)),
		erpapi.NewClient("", time.Second),
		"", slog.New(slog.NewTextHandler(io.Discard, nil)), nil,
	)

	task := asynq.NewTask(TaskReportWarmup, []byte("{not json"))
	assert.Equal(t, asynq.SkipRetry, job.Handle(context.Background(), task))
}
