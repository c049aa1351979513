package report

// Totals holds the column sums for a row set, keyed by column key. Every
// aggregate column of the schema is present, zero-valued on an empty set.
type Totals map[string]float64

// Aggregate sums the schema's aggregate columns over rows. It is a pure
// function: recomputing over any filtered subset always reproduces a fresh
// full computation.
func Aggregate(s Schema, rows []Row) Totals {
	totals := make(Totals, len(s.Columns))
	for _, key := range s.AggregateFields() {
		totals[key] = 0
	}
	for _, row := range rows {
		for key := range totals {
			totals[key] += row.Number(key)
		}
	}
	return totals
}
