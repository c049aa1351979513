package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
)

type fakeAPI struct {
	env    erpapi.Envelope
	err    error
	calls  int
	params url.Values
	onCall func()
}

func (f *fakeAPI) Report(ctx context.Context, auth erpapi.Auth, path string, params url.Values) (erpapi.Envelope, error) {
	f.calls++
	f.params = params
	if f.onCall != nil {
		f.onCall()
	}
	return f.env, f.err
}

func fetchSchema() Schema {
	return Schema{
		Slug:      "orders",
		Endpoint:  "/reports/orders",
		ListField: "orders",
		Columns: []Column{
			{Key: "memo_no", Kind: ColText, Searchable: true},
			{Key: "total_amount", Kind: ColNumber, Aggregate: true},
		},
	}
}

func fetchQuery() Query {
	return NewQuery(KindDaily, 1, time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC))
}

func TestFetchDecodesRows(t *testing.T) {
	api := &fakeAPI{env: erpapi.Envelope{
		"orders": json.RawMessage(`[{"memo_no":"A-1","total_amount":120.5}]`),
	}}
	fetcher := NewFetcher(api)

	rows, err := fetcher.Fetch(context.Background(), erpapi.Auth{}, fetchSchema(), fetchQuery())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A-1", rows[0].Text("memo_no"))
	assert.Equal(t, 120.5, rows[0].Number("total_amount"))

	assert.Equal(t, "2026-08-28", api.params.Get("start_date"))
	assert.Equal(t, "2026-08-28", api.params.Get("end_date"))
	assert.Equal(t, "daily", api.params.Get("report_type"))
}

func TestFetchWithoutWindowIsNoOp(t *testing.T) {
	api := &fakeAPI{}
	fetcher := NewFetcher(api)

	rows, err := fetcher.Fetch(context.Background(), erpapi.Auth{}, fetchSchema(), Query{Kind: KindDaily})
	require.NoError(t, err)
	assert.Nil(t, rows)
	assert.Zero(t, api.calls, "no request fires before the window exists")
}

func TestFetchRejectsInvertedRange(t *testing.T) {
	api := &fakeAPI{}
	fetcher := NewFetcher(api)

	query := Query{
		Kind:  KindDaily,
		Start: time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := fetcher.Fetch(context.Background(), erpapi.Auth{}, fetchSchema(), query)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Zero(t, api.calls)
}

func TestFetchMissingListFieldYieldsEmpty(t *testing.T) {
	api := &fakeAPI{env: erpapi.Envelope{"something_else": json.RawMessage(`[]`)}}
	fetcher := NewFetcher(api)

	rows, err := fetcher.Fetch(context.Background(), erpapi.Auth{}, fetchSchema(), fetchQuery())
	require.NoError(t, err, "a missing list field is an empty report, not a failure")
	assert.Empty(t, rows)
}

func TestFetchWrapsAPIError(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	fetcher := NewFetcher(api)

	_, err := fetcher.Fetch(context.Background(), erpapi.Auth{}, fetchSchema(), fetchQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders")
}

func TestFetchSupersededByNewerRequest(t *testing.T) {
	schema := fetchSchema()
	query := fetchQuery()

	api := &fakeAPI{env: erpapi.Envelope{"orders": json.RawMessage(`[]`)}}
	fetcher := NewFetcher(api)

	// A newer fetch for the same report begins while the response is in
	// flight; the in-flight result must be discarded.
	api.onCall = func() {
		if api.calls == 1 {
			fetcher.begin(fenceKey(schema, query))
		}
	}

	_, err := fetcher.Fetch(context.Background(), erpapi.Auth{}, schema, query)
	assert.ErrorIs(t, err, ErrSuperseded)
}

func TestFetchDifferentBranchesDoNotFenceEachOther(t *testing.T) {
	schema := fetchSchema()
	api := &fakeAPI{env: erpapi.Envelope{"orders": json.RawMessage(`[]`)}}
	fetcher := NewFetcher(api)

	queryA := fetchQuery()
	queryB := queryA
	queryB.BranchID = 2

	api.onCall = func() {
		if api.calls == 1 {
			fetcher.begin(fenceKey(schema, queryB))
		}
	}

	_, err := fetcher.Fetch(context.Background(), erpapi.Auth{}, schema, queryA)
	assert.NoError(t, err, "a fetch for another branch must not supersede this one")
}
