package reporthttp

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/projuktisheba/erp-mini-admin/internal/platform/httpx"
	"github.com/projuktisheba/erp-mini-admin/internal/report"
	"github.com/projuktisheba/erp-mini-admin/internal/shared"
)

// suggestLimit caps the typeahead payload.
const suggestLimit = 10

type suggestResponse struct {
	Field       string   `json:"field"`
	Suggestions []string `json:"suggestions"`
}

// handleSuggest serves the typeahead feed: distinct values of one search
// field matching the typed prefix, for the current report window. Picking
// one of these drives the exact-match filter path.
func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	state := shared.LoadAppState(sess)
	if !state.SignedIn() {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	schema, found := report.Lookup(chi.URLParam(r, "slug"))
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if !state.HasBranch() {
		httpx.Problem(w, http.StatusConflict, "No Branch Selected", "Select a branch before loading suggestions.")
		return
	}

	field := r.URL.Query().Get("field")
	valid := false
	for _, key := range schema.SearchFields() {
		if key == field {
			valid = true
			break
		}
	}
	if !valid {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	query, _, _, err := h.parseQuery(r, schema, state.BranchID)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	rows, err := h.loadRows(r.Context(), schema, state, query)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	needle := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	seen := map[string]bool{}
	suggestions := make([]string, 0, suggestLimit)
	for _, row := range rows {
		value := row.Text(field)
		if value == "" || seen[value] {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(value), needle) {
			continue
		}
		seen[value] = true
		suggestions = append(suggestions, value)
	}
	sort.Strings(suggestions)
	if len(suggestions) > suggestLimit {
		suggestions = suggestions[:suggestLimit]
	}

	httpx.JSON(w, http.StatusOK, suggestResponse{Field: field, Suggestions: suggestions})
}
