package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printMeta() Meta {
	return Meta{
		BranchName:  "Main Branch",
		Kind:        KindWeekly,
		Start:       date(2026, time.August, 22),
		End:         date(2026, time.August, 28),
		GeneratedAt: time.Date(2026, time.August, 28, 9, 30, 0, 0, time.UTC),
	}
}

func TestBuildDocumentRefusesEmptyRows(t *testing.T) {
	_, err := BuildDocument(salesSchema(), nil, Totals{}, printMeta())
	assert.ErrorIs(t, err, ErrNothingToPrint)

	_, err = BuildDocument(salesSchema(), []Row{}, Totals{}, printMeta())
	assert.ErrorIs(t, err, ErrNothingToPrint)
}

func TestBuildDocumentIsSelfContained(t *testing.T) {
	schema := salesSchema()
	rows := []Row{numRow("Alice", 1200.5, 100)}
	totals := Aggregate(schema, rows)

	doc, err := BuildDocument(schema, rows, totals, printMeta())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<style>", "styling must be inline")
	assert.NotContains(t, doc, "href=", "no external references")
	assert.NotContains(t, doc, "src=")

	assert.Contains(t, doc, "Main Branch")
	assert.Contains(t, doc, "Weekly")
	assert.Contains(t, doc, "2026-08-22")
	assert.Contains(t, doc, "2026-08-28")
	assert.Contains(t, doc, "Alice")
	assert.Contains(t, doc, "1,200.50", "amounts grouped with two decimals")
	assert.Contains(t, doc, "Totals")
}

func TestBuildDocumentPreservesRowOrder(t *testing.T) {
	schema := salesSchema()
	rows := []Row{
		numRow("First", 1, 0),
		numRow("Second", 2, 0),
	}

	doc, err := BuildDocument(schema, rows, Aggregate(schema, rows), printMeta())
	require.NoError(t, err)
	assert.Less(t, strings.Index(doc, "First"), strings.Index(doc, "Second"))
}

func TestBuildDocumentEscapesCellText(t *testing.T) {
	schema := salesSchema()
	rows := []Row{numRow("<script>alert('x')</script>", 0, 0)}

	doc, err := BuildDocument(schema, rows, Aggregate(schema, rows), printMeta())
	require.NoError(t, err)
	assert.NotContains(t, doc, "<script>")
	assert.Contains(t, doc, "&lt;script&gt;")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,234,567.89", FormatAmount(1234567.891))
	assert.Equal(t, "0.00", FormatAmount(0))
}
