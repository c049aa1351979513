package reporthttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/projuktisheba/erp-mini-admin/internal/shared"
)

// MountRoutes registers the report endpoints onto the router. Print and
// export hit external services, so they carry a tighter rate limit.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/reports", h.handleIndex)
	r.Get("/reports/{slug}", h.handlePage)
	r.Get("/reports/{slug}/suggest", h.handleSuggest)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/reports/{slug}/print.pdf", h.handlePrint)
		gr.Get("/reports/{slug}/export.xlsx", h.handleExcel)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if state := shared.StateFromContext(r.Context()); state.SignedIn() {
		if user := strings.TrimSpace(state.UserName); user != "" {
			return "user:" + user, nil
		}
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
