package report

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrNothingToPrint guards against printing blank pages: a document is
// only built over a non-empty row set.
var ErrNothingToPrint = errors.New("report: nothing to print")

// Meta is the document header context.
type Meta struct {
	BranchName  string
	Kind        Kind
	Start       time.Time
	End         time.Time
	GeneratedAt time.Time
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a numeric cell with grouping, two decimals.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}

// BuildDocument serialises rows and totals into one self-contained HTML
// document: inline style, no external references, header block, one body
// row per input row in input order, one totals footer row. Pagination is
// left to the print layer.
func BuildDocument(schema Schema, rows []Row, totals Totals, meta Meta) (string, error) {
	if len(rows) == 0 {
		return "", ErrNothingToPrint
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(htmlEscape(schema.Title))
	b.WriteString("</title><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;color:#222;}")
	b.WriteString("h1{font-size:20px;margin-bottom:2px;}")
	b.WriteString(".meta{font-size:12px;color:#555;margin-bottom:16px;}")
	b.WriteString("table{width:100%;border-collapse:collapse;}")
	b.WriteString("th,td{border:1px solid #ddd;padding:6px;font-size:12px;}")
	b.WriteString("th{background:#f5f5f5;text-align:left;}")
	b.WriteString("td.num,tfoot td{text-align:right;}")
	b.WriteString("tfoot td{font-weight:bold;background:#fafafa;}")
	b.WriteString("</style></head><body>")

	b.WriteString("<h1>")
	b.WriteString(htmlEscape(schema.Title))
	b.WriteString("</h1><div class=\"meta\">")
	if meta.BranchName != "" {
		b.WriteString(htmlEscape(meta.BranchName))
		b.WriteString(" &middot; ")
	}
	b.WriteString(htmlEscape(meta.Kind.Label()))
	b.WriteString(" &middot; ")
	b.WriteString(meta.Start.Format(DateFormat))
	b.WriteString(" to ")
	b.WriteString(meta.End.Format(DateFormat))
	if !meta.GeneratedAt.IsZero() {
		b.WriteString(fmt.Sprintf(" &middot; generated %s", meta.GeneratedAt.Format("02 Jan 2006 15:04")))
	}
	b.WriteString("</div>")

	b.WriteString("<table><thead><tr>")
	for _, col := range schema.Columns {
		b.WriteString("<th>")
		b.WriteString(htmlEscape(col.Title))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")

	for _, row := range rows {
		b.WriteString("<tr>")
		for _, col := range schema.Columns {
			if col.Kind == ColNumber {
				b.WriteString("<td class=\"num\">")
				b.WriteString(FormatAmount(row.Number(col.Key)))
			} else {
				b.WriteString("<td>")
				b.WriteString(htmlEscape(row.Text(col.Key)))
			}
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody><tfoot><tr>")

	labelled := false
	for _, col := range schema.Columns {
		b.WriteString("<td>")
		switch {
		case col.Aggregate:
			b.WriteString(FormatAmount(totals[col.Key]))
		case !labelled:
			b.WriteString("Totals")
			labelled = true
		}
		b.WriteString("</td>")
	}
	b.WriteString("</tr></tfoot></table></body></html>")
	return b.String(), nil
}

func htmlEscape(v string) string {
	return html.EscapeString(v)
}
