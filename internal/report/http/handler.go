package reporthttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
	"github.com/projuktisheba/erp-mini-admin/internal/observability"
	"github.com/projuktisheba/erp-mini-admin/internal/report"
	"github.com/projuktisheba/erp-mini-admin/internal/shared"
	"github.com/projuktisheba/erp-mini-admin/internal/view"
)

// RowSource loads the full row set for a report query.
type RowSource interface {
	Rows(ctx context.Context, auth erpapi.Auth, schema report.Schema, query report.Query) ([]report.Row, error)
}

// Handler serves the generic report pages: table view, print PDF and
// Excel export. Every report in the registry shares this one handler.
type Handler struct {
	logger    *slog.Logger
	source    RowSource
	templates *view.Engine
	printer   report.Printer
	csrf      *shared.CSRFManager
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewHandler constructs the report HTTP handler.
func NewHandler(logger *slog.Logger, source RowSource, templates *view.Engine, printer report.Printer, csrf *shared.CSRFManager, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		source:    source,
		templates: templates,
		printer:   printer,
		csrf:      csrf,
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

type cellVM struct {
	Value   string
	Numeric bool
}

type rowVM struct {
	Cells []cellVM
}

type pageVM struct {
	Schema     report.Schema
	Kind       report.Kind
	Kinds      []report.Kind
	Start      string
	End        string
	Search     string
	ExactField string
	ExactValue string
	Rows       []rowVM
	TotalsRow  []cellVM
	RowCount   int
	AllCount   int
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	state := shared.LoadAppState(sess)
	if !state.SignedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.render(w, r, "pages/reports_index.html", "Reports", report.Registry())
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	schema, state, ok := h.prepare(w, r)
	if !ok {
		return
	}

	query, exactField, exactValue, err := h.parseQuery(r, schema, state.BranchID)
	if err != nil {
		h.flashAndRedirect(w, r, shared.FlashError, err.Error(), "/reports/"+schema.Slug)
		return
	}

	rows, err := h.loadRows(r.Context(), schema, state, query)
	if err != nil {
		// Degrade to an empty result with a visible notice; the page
		// stays interactive.
		h.logger.Error("load report", slog.String("report", schema.Slug), slog.Any("error", err))
		if sess := shared.SessionFromContext(r.Context()); sess != nil {
			sess.AddFlash(shared.FlashError, "Could not load the report. Try fetching again.")
		}
		rows = nil
	}

	var rv report.View
	if exactField != "" {
		rv = report.BuildExactView(schema, query, rows, exactField, exactValue)
	} else {
		rv = report.BuildView(schema, query, rows)
	}

	vm := pageVM{
		Schema:     schema,
		Kind:       query.Kind,
		Kinds:      []report.Kind{report.KindDaily, report.KindWeekly, report.KindMonthly},
		Start:      query.StartDate(),
		End:        query.EndDate(),
		Search:     query.Search,
		ExactField: exactField,
		ExactValue: exactValue,
		Rows:       bindRows(schema, rv.Rows),
		TotalsRow:  bindTotals(schema, rv.Totals),
		RowCount:   len(rv.Rows),
		AllCount:   rv.AllCount,
	}
	h.render(w, r, "pages/report.html", schema.Title, vm)
}

func (h *Handler) handlePrint(w http.ResponseWriter, r *http.Request) {
	schema, state, ok := h.prepare(w, r)
	if !ok {
		return
	}
	backTo := "/reports/" + schema.Slug + queryString(r)

	query, exactField, exactValue, err := h.parseQuery(r, schema, state.BranchID)
	if err != nil {
		h.flashAndRedirect(w, r, shared.FlashError, err.Error(), backTo)
		return
	}

	rv, err := h.buildView(r.Context(), schema, state, query, exactField, exactValue)
	if err != nil {
		h.flashAndRedirect(w, r, shared.FlashError, "Could not load the report. Try again.", backTo)
		return
	}

	doc, err := report.BuildDocument(schema, rv.Rows, rv.Totals, report.Meta{
		BranchName:  state.BranchName,
		Kind:        query.Kind,
		Start:       query.Start,
		End:         query.End,
		GeneratedAt: h.now(),
	})
	if errors.Is(err, report.ErrNothingToPrint) {
		h.flashAndRedirect(w, r, shared.FlashError, "Nothing to print for this selection.", backTo)
		return
	}
	if err != nil {
		h.logger.Error("build print document", slog.String("report", schema.Slug), slog.Any("error", err))
		h.flashAndRedirect(w, r, shared.FlashError, "Printing failed. Try again.", backTo)
		return
	}

	pdf, err := h.printer.Render(r.Context(), doc)
	if err != nil {
		h.logger.Error("render pdf", slog.String("report", schema.Slug), slog.Any("error", err))
		h.metrics.UpstreamError("print:" + schema.Slug)
		h.flashAndRedirect(w, r, shared.FlashError, "The print service is unavailable. Try again.", backTo)
		return
	}

	filename := fmt.Sprintf("%s-%s-%s.pdf", schema.Slug, query.StartDate(), query.EndDate())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename=`+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) handleExcel(w http.ResponseWriter, r *http.Request) {
	schema, state, ok := h.prepare(w, r)
	if !ok {
		return
	}
	backTo := "/reports/" + schema.Slug + queryString(r)

	query, exactField, exactValue, err := h.parseQuery(r, schema, state.BranchID)
	if err != nil {
		h.flashAndRedirect(w, r, shared.FlashError, err.Error(), backTo)
		return
	}

	rv, err := h.buildView(r.Context(), schema, state, query, exactField, exactValue)
	if err != nil {
		h.flashAndRedirect(w, r, shared.FlashError, "Could not load the report. Try again.", backTo)
		return
	}
	if len(rv.Rows) == 0 {
		h.flashAndRedirect(w, r, shared.FlashError, "Nothing to export for this selection.", backTo)
		return
	}

	buf := &bytes.Buffer{}
	meta := report.Meta{BranchName: state.BranchName, Kind: query.Kind, Start: query.Start, End: query.End}
	if err := report.WriteExcel(buf, schema, rv.Rows, rv.Totals, meta); err != nil {
		h.logger.Error("write excel", slog.String("report", schema.Slug), slog.Any("error", err))
		h.flashAndRedirect(w, r, shared.FlashError, "Export failed. Try again.", backTo)
		return
	}

	filename := fmt.Sprintf("%s-%s-%s.xlsx", schema.Slug, query.StartDate(), query.EndDate())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename=`+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// prepare resolves the schema and enforces the signed-in + branch-selected
// preconditions shared by every report endpoint.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request) (report.Schema, shared.AppState, bool) {
	sess := shared.SessionFromContext(r.Context())
	state := shared.LoadAppState(sess)
	if !state.SignedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return report.Schema{}, state, false
	}
	schema, found := report.Lookup(chi.URLParam(r, "slug"))
	if !found {
		http.NotFound(w, r)
		return report.Schema{}, state, false
	}
	if !state.HasBranch() {
		h.flashAndRedirect(w, r, shared.FlashError, "Select a branch first.", "/")
		return report.Schema{}, state, false
	}
	return schema, state, true
}

// parseQuery derives the effective query: kind defaults drive the window,
// explicit start/end parameters override it until the kind changes again
// (the UI omits them on a kind change, which resets the window).
func (h *Handler) parseQuery(r *http.Request, schema report.Schema, branchID int64) (report.Query, string, string, error) {
	values := r.URL.Query()

	kind, err := report.ParseKind(values.Get("kind"))
	if err != nil {
		return report.Query{}, "", "", errors.New("Unknown report type.")
	}

	query := report.NewQuery(kind, branchID, h.now())

	// Switching kinds resets the window to the new kind's defaults, even
	// when the dates were edited by hand. The form posts the kind it was
	// rendered with so the switch is detectable server-side.
	kindChanged := false
	if raw := values.Get("prev_kind"); raw != "" {
		if prev, err := report.ParseKind(raw); err == nil && prev != kind {
			kindChanged = true
		}
	}
	if raw := values.Get("start"); raw != "" && !kindChanged {
		t, err := time.ParseInLocation(report.DateFormat, raw, time.Local)
		if err != nil {
			return report.Query{}, "", "", errors.New("Start date is not a valid date.")
		}
		query.Start = t
	}
	if raw := values.Get("end"); raw != "" && !kindChanged {
		t, err := time.ParseInLocation(report.DateFormat, raw, time.Local)
		if err != nil {
			return report.Query{}, "", "", errors.New("End date is not a valid date.")
		}
		query.End = t
	}
	if err := query.Validate(); err != nil {
		return report.Query{}, "", "", errors.New("Start date must not be after end date.")
	}
	query.Search = values.Get("q")

	exactField := values.Get("field")
	exactValue := values.Get("value")
	if exactField != "" {
		valid := false
		for _, key := range schema.SearchFields() {
			if key == exactField {
				valid = true
				break
			}
		}
		if !valid {
			return report.Query{}, "", "", errors.New("Unknown filter field.")
		}
	}
	return query, exactField, exactValue, nil
}

func (h *Handler) loadRows(ctx context.Context, schema report.Schema, state shared.AppState, query report.Query) ([]report.Row, error) {
	sess := shared.SessionFromContext(ctx)
	auth := erpapi.Auth{Token: shared.Token(sess), BranchID: state.BranchID}
	rows, err := h.source.Rows(ctx, auth, schema, query)
	if err != nil {
		h.metrics.UpstreamError("report:" + schema.Slug)
		return nil, err
	}
	return rows, nil
}

func (h *Handler) buildView(ctx context.Context, schema report.Schema, state shared.AppState, query report.Query, exactField, exactValue string) (report.View, error) {
	rows, err := h.loadRows(ctx, schema, state, query)
	if err != nil {
		return report.View{}, err
	}
	if exactField != "" {
		return report.BuildExactView(schema, query, rows, exactField, exactValue), nil
	}
	return report.BuildView(schema, query, rows), nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	token, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	td := view.TemplateData{
		Title:       title,
		CSRFToken:   token,
		Flash:       flash,
		State:       shared.LoadAppState(sess),
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, page, td); err != nil {
		h.logger.Error("render report page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, kind, message, target string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(kind, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func bindRows(schema report.Schema, rows []report.Row) []rowVM {
	out := make([]rowVM, 0, len(rows))
	for _, row := range rows {
		cells := make([]cellVM, 0, len(schema.Columns))
		for _, col := range schema.Columns {
			if col.Kind == report.ColNumber {
				cells = append(cells, cellVM{Value: report.FormatAmount(row.Number(col.Key)), Numeric: true})
			} else {
				cells = append(cells, cellVM{Value: row.Text(col.Key)})
			}
		}
		out = append(out, rowVM{Cells: cells})
	}
	return out
}

func bindTotals(schema report.Schema, totals report.Totals) []cellVM {
	cells := make([]cellVM, 0, len(schema.Columns))
	labelled := false
	for _, col := range schema.Columns {
		switch {
		case col.Aggregate:
			cells = append(cells, cellVM{Value: report.FormatAmount(totals[col.Key]), Numeric: true})
		case !labelled:
			cells = append(cells, cellVM{Value: "Totals"})
			labelled = true
		default:
			cells = append(cells, cellVM{})
		}
	}
	return cells
}

func queryString(r *http.Request) string {
	raw := r.URL.Query()
	filtered := url.Values{}
	for _, key := range []string{"kind", "start", "end", "q", "field", "value"} {
		if v := raw.Get(key); v != "" {
			filtered.Set(key, v)
		}
	}
	if len(filtered) == 0 {
		return ""
	}
	return "?" + filtered.Encode()
}
