package reporthttp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
	"github.com/projuktisheba/erp-mini-admin/internal/observability"
	"github.com/projuktisheba/erp-mini-admin/internal/report"
	"github.com/projuktisheba/erp-mini-admin/internal/shared"
	"github.com/projuktisheba/erp-mini-admin/internal/view"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubSource struct {
	records []map[string]any
	err     error
}

func (s *stubSource) Rows(ctx context.Context, auth erpapi.Auth, schema report.Schema, query report.Query) ([]report.Row, error) {
	if s.err != nil {
		return nil, s.err
	}
	return report.DecodeRows(schema, s.records), nil
}

type stubPrinter struct {
	pdf  []byte
	err  error
	html string
}

func (p *stubPrinter) Render(ctx context.Context, html string) ([]byte, error) {
	p.html = html
	return p.pdf, p.err
}

type fixture struct {
	handler  *Handler
	sessions *shared.SessionManager
	router   chi.Router
}

func newFixture(t *testing.T, source RowSource, printer report.Printer) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	templates, err := view.NewEngine()
	require.NoError(t, err)

	logger := testLogger()
	h := NewHandler(logger, source, templates, printer, shared.NewCSRFManager("test-secret"), observability.NewMetrics())
	h.WithNow(func() time.Time {
		return time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	})

	sessions := shared.NewSessionManager(client, "test_session", time.Hour, false)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r.Context(), r)
			require.NoError(t, err)
			next.ServeHTTP(w, r.WithContext(shared.ContextWithSession(r.Context(), sess)))
		})
	})
	h.MountRoutes(router)

	return &fixture{handler: h, sessions: sessions, router: router}
}

// signIn commits a session with the given state and returns its cookie.
func (f *fixture) signIn(t *testing.T, state shared.AppState) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := f.sessions.Load(req.Context(), req)
	require.NoError(t, err)

	shared.SaveToken(sess, "token-123")
	require.NoError(t, shared.SaveAppState(sess, state))

	rec := httptest.NewRecorder()
	require.NoError(t, f.sessions.Commit(req.Context(), rec, sess))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func signedInState() shared.AppState {
	return shared.AppState{BranchID: 1, BranchName: "Main Branch", UserName: "admin", Role: "manager"}
}

func orderRecords() []map[string]any {
	return []map[string]any{
		{"order_date": "2026-08-28", "memo_no": "A-1", "customer_name": "John Smith", "total_amount": 110.0, "paid_amount": 50.0, "due_amount": 60.0},
		{"order_date": "2026-08-28", "memo_no": "B-2", "customer_name": "Jane Doe", "total_amount": 40.0, "paid_amount": 40.0, "due_amount": 0.0},
	}
}

func TestReportPageRequiresSignIn(t *testing.T) {
	f := newFixture(t, &stubSource{}, &stubPrinter{})

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/orders", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestReportPageRequiresBranch(t *testing.T) {
	f := newFixture(t, &stubSource{}, &stubPrinter{})
	cookie := f.signIn(t, shared.AppState{UserName: "admin"})

	req := httptest.NewRequest(http.MethodGet, "/reports/orders", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestReportPageUnknownSlug(t *testing.T) {
	f := newFixture(t, &stubSource{}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/nope", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportPageRendersRowsAndTotals(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "A-1")
	assert.Contains(t, body, "John Smith")
	assert.Contains(t, body, "150.00", "totals over both rows")
	assert.Contains(t, body, "2 of 2 rows")
}

func TestReportPageAppliesSearchFilter(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders?q=smith", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "John Smith")
	assert.NotContains(t, body, "Jane Doe")
	assert.Contains(t, body, "110.00", "totals recomputed over the filtered subset")
	assert.Contains(t, body, "1 of 2 rows")
}

func TestReportPageSurvivesSourceFailure(t *testing.T) {
	f := newFixture(t, &stubSource{err: errors.New("upstream down")}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "the page degrades instead of failing")
	assert.Contains(t, rec.Body.String(), "No rows for this window.")
}

func TestReportPageRejectsInvertedRange(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders?start=2026-08-28&end=2026-08-01", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/reports/orders", rec.Header().Get("Location"))
}

func TestReportPageKindChangeResetsWindow(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	// The form posts the kind it was rendered with; flipping daily to
	// monthly must discard the hand-edited one-day window and fall back
	// to the monthly defaults.
	req := httptest.NewRequest(http.MethodGet, "/reports/orders?kind=monthly&prev_kind=daily&start=2026-08-28&end=2026-08-28", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="report-start" value="2026-07-28"`)
	assert.Contains(t, body, `id="report-end" value="2026-08-28"`)
	assert.NotContains(t, body, `id="report-start" value="2026-08-28"`)
}

func TestReportPageKeepsEditedDatesWithinKind(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders?kind=daily&prev_kind=daily&start=2026-08-01&end=2026-08-15", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="report-start" value="2026-08-01"`)
	assert.Contains(t, body, `id="report-end" value="2026-08-15"`)
}

func TestReportPageLinksCarryExactFilter(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders?field=customer_name&value=John+Smith", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "print.pdf?")
	assert.Contains(t, body, "field=customer_name")
	assert.Contains(t, body, "value=John%20Smith")
}

func TestPrintReturnsPDF(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{pdf: []byte("%PDF-1.7 fake")})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders/print.pdf", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inline")
	assert.Contains(t, rec.Body.String(), "%PDF")
}

func TestPrintHonorsExactFilter(t *testing.T) {
	printer := &stubPrinter{pdf: []byte("%PDF-1.7 fake")}
	f := newFixture(t, &stubSource{records: orderRecords()}, printer)
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders/print.pdf?field=customer_name&value=John+Smith", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, printer.html, "John Smith")
	assert.NotContains(t, printer.html, "Jane Doe")
	assert.Contains(t, printer.html, "110.00", "totals cover only the filtered subset")
}

func TestPrintRefusesEmptySelection(t *testing.T) {
	f := newFixture(t, &stubSource{}, &stubPrinter{pdf: []byte("%PDF")})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders/print.pdf?q=nomatch", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code, "empty selection never reaches the printer")
}

func TestPrintServiceFailureRedirectsBack(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{err: errors.New("gotenberg down")})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders/print.pdf", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestExcelExport(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders/export.xlsx", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, rec.Body.Len())
}

func TestExcelExportRefusesEmptySelection(t *testing.T) {
	f := newFixture(t, &stubSource{}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	req := httptest.NewRequest(http.MethodGet, "/reports/orders/export.xlsx", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
