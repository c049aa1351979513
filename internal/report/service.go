package report

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
)

// Service coordinates the report pipeline: fetch (cached, collapsed),
// filter, aggregate. Print and export build on its output.
type Service struct {
	fetcher *Fetcher
	cache   *Cache
	group   singleflight.Group
}

// NewService wires a Fetcher with the cache layer.
func NewService(fetcher *Fetcher, cache *Cache) *Service {
	return &Service{fetcher: fetcher, cache: cache}
}

// Rows returns the full row set for query. Concurrent identical requests
// collapse into one upstream fetch; results are cached briefly. A query
// without a date window yields no rows and no error.
func (s *Service) Rows(ctx context.Context, auth erpapi.Auth, schema Schema, query Query) ([]Row, error) {
	if !query.HasWindow() {
		return nil, nil
	}
	key := s.cache.Key(schema, query)
	value, err, _ := s.group.Do(key, func() (any, error) {
		return s.cache.FetchRows(ctx, key, func(ctx context.Context) ([]Row, error) {
			return s.fetcher.Fetch(ctx, auth, schema, query)
		})
	})
	if err != nil {
		return nil, err
	}
	rows, _ := value.([]Row)
	return rows, nil
}

// View is the derived presentation state for one report page: the filtered
// subset plus its totals. It is always recomputed live from the full row
// set; there is no commit step.
type View struct {
	Schema   Schema
	Query    Query
	Rows     []Row
	Totals   Totals
	AllCount int
}

// BuildView runs filter and aggregate over rows for the query's search
// term. Totals always cover the filtered subset.
func BuildView(schema Schema, query Query, rows []Row) View {
	filtered := Filter(rows, query.Search, schema.SearchFields())
	return View{
		Schema:   schema,
		Query:    query,
		Rows:     filtered,
		Totals:   Aggregate(schema, filtered),
		AllCount: len(rows),
	}
}

// BuildExactView is the pick-from-suggestions path: exact equality on one
// field instead of substring matching.
func BuildExactView(schema Schema, query Query, rows []Row, field, value string) View {
	filtered := FilterExact(rows, field, value)
	return View{
		Schema:   schema,
		Query:    query,
		Rows:     filtered,
		Totals:   Aggregate(schema, filtered),
		AllCount: len(rows),
	}
}
