package report

import (
	"errors"
	"time"
)

// ErrInvalidRange indicates an inverted date range.
var ErrInvalidRange = errors.New("report: start date after end date")

// Query carries the parameters of one report fetch. Queries are value
// types: a parameter change produces a whole new Query, never a partial
// update of an old one.
type Query struct {
	Kind     Kind
	Start    time.Time
	End      time.Time
	BranchID int64
	Search   string
}

// NewQuery builds a query with the default window for kind.
func NewQuery(kind Kind, branchID int64, today time.Time) Query {
	start, end := DateWindow(kind, today)
	return Query{Kind: kind, Start: start, End: end, BranchID: branchID}
}

// HasWindow reports whether both dates are set. A query without a complete
// window is fetched as a no-op rather than an error, so nothing fires
// before the defaults have been computed.
func (q Query) HasWindow() bool {
	return !q.Start.IsZero() && !q.End.IsZero()
}

// Validate checks the invariants a fetchable query must hold.
func (q Query) Validate() error {
	if !q.HasWindow() {
		return nil
	}
	if q.Start.After(q.End) {
		return ErrInvalidRange
	}
	return nil
}

// StartDate returns the wire-formatted start date.
func (q Query) StartDate() string {
	if q.Start.IsZero() {
		return ""
	}
	return q.Start.Format(DateFormat)
}

// EndDate returns the wire-formatted end date.
func (q Query) EndDate() string {
	if q.End.IsZero() {
		return ""
	}
	return q.End.Format(DateFormat)
}
