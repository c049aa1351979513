package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/projuktisheba/erp-mini-admin/internal/auth"
	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
	"github.com/projuktisheba/erp-mini-admin/internal/masterdata"
	"github.com/projuktisheba/erp-mini-admin/internal/observability"
	"github.com/projuktisheba/erp-mini-admin/internal/orders"
	"github.com/projuktisheba/erp-mini-admin/internal/platform/httpx"
	reporthttp "github.com/projuktisheba/erp-mini-admin/internal/report/http"
	"github.com/projuktisheba/erp-mini-admin/internal/shared"
	"github.com/projuktisheba/erp-mini-admin/internal/view"
	"github.com/projuktisheba/erp-mini-admin/jobs"
	"github.com/projuktisheba/erp-mini-admin/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	API            *erpapi.Client
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler       *auth.Handler
	ReportHandler     *reporthttp.Handler
	MasterDataHandler *masterdata.Handler
	OrdersHandler     *orders.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router for the dashboard.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The home page doubles as the branch selector.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		state := shared.LoadAppState(sess)
		if !state.SignedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		var branches []erpapi.Branch
		if params.API != nil {
			auth := erpapi.Auth{Token: shared.Token(sess), BranchID: state.BranchID}
			var err error
			branches, err = params.API.Branches(r.Context(), auth)
			if err != nil {
				params.Logger.Error("load branches", slog.Any("error", err))
				if sess != nil {
					sess.AddFlash(shared.FlashError, "Could not load branches.")
				}
			}
		}

		csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
		var flash *shared.FlashMessage
		if sess != nil {
			flash = sess.PopFlash()
		}
		data := view.TemplateData{
			Title:       "ERP Mini",
			CSRFToken:   csrfToken,
			Flash:       flash,
			State:       state,
			CurrentPath: r.URL.Path,
			Data:        branches,
		}
		if err := params.Templates.Render(w, "pages/home.html", data); err != nil {
			params.Logger.Error("render home", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	params.AuthHandler.MountRoutes(r)
	params.ReportHandler.MountRoutes(r)
	if params.MasterDataHandler != nil {
		params.MasterDataHandler.MountRoutes(r)
	}
	if params.OrdersHandler != nil {
		params.OrdersHandler.MountRoutes(r)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with a one hour Cache-Control
// header. Static assets carry no session state so caching them is safe.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
