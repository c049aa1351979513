package report

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ColumnKind classifies how a column participates in the pipeline.
type ColumnKind string

const (
	ColText   ColumnKind = "text"
	ColNumber ColumnKind = "number"
	ColDate   ColumnKind = "date"
)

// Column describes one report column.
type Column struct {
	Key        string
	Title      string
	Kind       ColumnKind
	Searchable bool
	Aggregate  bool
}

// Schema parameterises the generic report pipeline for one report family.
// A report page is a Schema value, nothing more.
type Schema struct {
	Slug      string
	Title     string
	Endpoint  string
	ListField string
	Columns   []Column
}

// SearchFields lists the keys the free-text filter matches against.
func (s Schema) SearchFields() []string {
	keys := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		if col.Searchable {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

// AggregateFields lists the keys summed into Totals.
func (s Schema) AggregateFields() []string {
	keys := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		if col.Aggregate {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

// Row is one decoded report record. Cells are split by type at the decode
// boundary so the filter, aggregator and renderers never touch loose JSON.
// Rows are immutable once decoded.
type Row struct {
	text map[string]string
	nums map[string]float64
}

// Text returns the text cell for key, or "" when absent.
func (r Row) Text(key string) string {
	return r.text[key]
}

// Number returns the numeric cell for key, or 0 when absent.
func (r Row) Number(key string) float64 {
	return r.nums[key]
}

type rowJSON struct {
	Text map[string]string  `json:"text"`
	Nums map[string]float64 `json:"nums"`
}

// MarshalJSON supports caching decoded rows.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(rowJSON{Text: r.text, Nums: r.nums})
}

// UnmarshalJSON restores a cached row.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw rowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.text = raw.Text
	r.nums = raw.Nums
	return nil
}

// DecodeRows converts raw API records into typed rows according to the
// schema. Missing or non-numeric values in numeric columns coerce to zero;
// nothing here ever fails on a single bad cell.
func DecodeRows(s Schema, records []map[string]any) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := Row{
			text: make(map[string]string, len(s.Columns)),
			nums: make(map[string]float64, len(s.Columns)),
		}
		for _, col := range s.Columns {
			value := record[col.Key]
			switch col.Kind {
			case ColNumber:
				row.nums[col.Key] = toFloat64(value)
			case ColDate:
				row.text[col.Key] = toDateString(value)
			default:
				row.text[col.Key] = toString(value)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// toDateString keeps the leading date part of RFC3339-ish values the API
// returns for timestamp columns.
func toDateString(v any) string {
	s := toString(v)
	if len(s) > len(DateFormat) && (s[len(DateFormat)] == 'T' || s[len(DateFormat)] == ' ') {
		return s[:len(DateFormat)]
	}
	return s
}
