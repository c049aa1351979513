package reporthttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) suggest(t *testing.T, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestSuggestRequiresSignIn(t *testing.T) {
	f := newFixture(t, &stubSource{}, &stubPrinter{})

	rec := f.suggest(t, "/reports/orders/suggest?field=customer_name", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestSuggestUnknownReport(t *testing.T) {
	f := newFixture(t, &stubSource{}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	rec := f.suggest(t, "/reports/nope/suggest?field=customer_name", cookie)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuggestRejectsNonSearchField(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	rec := f.suggest(t, "/reports/orders/suggest?field=total_amount", cookie)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestReturnsDistinctMatches(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	rec := f.suggest(t, "/reports/orders/suggest?field=customer_name&q=smith", cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Field       string   `json:"field"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "customer_name", resp.Field)
	assert.Equal(t, []string{"John Smith"}, resp.Suggestions)
}

func TestSuggestEmptyQueryListsAllValues(t *testing.T) {
	f := newFixture(t, &stubSource{records: orderRecords()}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	rec := f.suggest(t, "/reports/orders/suggest?field=customer_name", cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, resp.Suggestions)
}

func TestSuggestUpstreamFailure(t *testing.T) {
	f := newFixture(t, &stubSource{err: errors.New("upstream down")}, &stubPrinter{})
	cookie := f.signIn(t, signedInState())

	rec := f.suggest(t, "/reports/orders/suggest?field=customer_name", cookie)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
