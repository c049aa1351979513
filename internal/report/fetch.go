package report

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
)

// ErrSuperseded marks a fetch whose response arrived after a newer fetch
// for the same report had already started. The stale result is discarded
// instead of overwriting fresher state.
var ErrSuperseded = errors.New("report: fetch superseded")

// API is the slice of the ERP client the fetcher needs.
type API interface {
	Report(ctx context.Context, auth erpapi.Auth, path string, params url.Values) (erpapi.Envelope, error)
}

// Fetcher retrieves and decodes report rows. Overlapping fetches for the
// same (report, branch) key are fenced with a monotonic token so the last
// *issued* request wins, not the last one to resolve.
type Fetcher struct {
	api API

	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

// NewFetcher constructs a Fetcher over the given API client.
func NewFetcher(api API) *Fetcher {
	return &Fetcher{api: api, latest: make(map[string]uint64)}
}

// Fetch loads the rows for query. A query without a complete date window
// is a no-op returning no rows and no error. On any transport or decode
// failure the caller receives an error and no rows; the previous row set
// is never partially patched.
func (f *Fetcher) Fetch(ctx context.Context, auth erpapi.Auth, schema Schema, query Query) ([]Row, error) {
	if !query.HasWindow() {
		return nil, nil
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	key := fenceKey(schema, query)
	token := f.begin(key)

	params := url.Values{}
	params.Set("start_date", query.StartDate())
	params.Set("end_date", query.EndDate())
	params.Set("report_type", string(query.Kind))

	env, err := f.api.Report(ctx, auth, schema.Endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("report: fetch %s: %w", schema.Slug, err)
	}
	if !f.current(key, token) {
		return nil, ErrSuperseded
	}

	records, err := env.List(schema.ListField)
	if err != nil {
		return nil, fmt.Errorf("report: fetch %s: %w", schema.Slug, err)
	}
	return DecodeRows(schema, records), nil
}

func (f *Fetcher) begin(key string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.latest[key] = f.seq
	return f.seq
}

func (f *Fetcher) current(key string, token uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest[key] == token
}

func fenceKey(schema Schema, query Query) string {
	return schema.Slug + ":" + strconv.FormatInt(query.BranchID, 10)
}
