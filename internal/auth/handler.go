// Package auth binds the dashboard to the remote API's token auth: a login
// form exchanges credentials for a bearer token held in the session. There
// is no refresh or rotation; an expired token simply forces a new login.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
	"github.com/projuktisheba/erp-mini-admin/internal/shared"
	"github.com/projuktisheba/erp-mini-admin/internal/view"
)

// Service is the slice of the ERP client the handler needs.
type Service interface {
	Login(ctx context.Context, creds erpapi.Credentials) (erpapi.LoginResult, error)
	Branches(ctx context.Context, auth erpapi.Auth) ([]erpapi.Branch, error)
}

// Handler serves login, logout and branch selection.
type Handler struct {
	logger    *slog.Logger
	api       Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	sessions  *shared.SessionManager
}

// NewHandler constructs the auth handler.
func NewHandler(logger *slog.Logger, api Service, templates *view.Engine, csrf *shared.CSRFManager, sessions *shared.SessionManager) *Handler {
	return &Handler{logger: logger, api: api, templates: templates, csrf: csrf, sessions: sessions}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.submitLogin)
	r.Post("/logout", h.logout)
	r.Post("/branch", h.selectBranch)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	data := view.TemplateData{Title: "Sign in", CSRFToken: token, Flash: flash}
	if err := h.templates.Render(w, "pages/login.html", data); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) submitLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.flashAndRedirect(w, r, sess, shared.FlashError, "Username and password are required.", "/login")
		return
	}

	result, err := h.api.Login(r.Context(), erpapi.Credentials{Username: username, Password: password})
	if err != nil {
		var apiErr *erpapi.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			h.flashAndRedirect(w, r, sess, shared.FlashError, "Invalid username or password.", "/login")
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		h.flashAndRedirect(w, r, sess, shared.FlashError, "Sign-in is unavailable right now. Try again.", "/login")
		return
	}

	shared.SaveToken(sess, result.Token)
	state := shared.LoadAppState(sess)
	state.UserName = result.Name
	state.Role = result.Role
	if err := shared.SaveAppState(sess, state); err != nil {
		h.logger.Error("save app state", slog.Any("error", err))
	}
	h.flashAndRedirect(w, r, sess, shared.FlashSuccess, "Welcome back, "+result.Name+".", "/")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	h.sessions.Destroy(sess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) selectBranch(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	state := shared.LoadAppState(sess)
	if !state.SignedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	branchID, err := strconv.ParseInt(r.PostFormValue("branch_id"), 10, 64)
	if err != nil || branchID <= 0 {
		h.flashAndRedirect(w, r, sess, shared.FlashError, "Pick a branch from the list.", "/")
		return
	}

	branches, err := h.api.Branches(r.Context(), erpapi.Auth{Token: shared.Token(sess)})
	if err != nil {
		h.logger.Error("list branches", slog.Any("error", err))
		h.flashAndRedirect(w, r, sess, shared.FlashError, "Could not load branches. Try again.", "/")
		return
	}
	var selected *erpapi.Branch
	for i := range branches {
		if branches[i].ID == branchID {
			selected = &branches[i]
			break
		}
	}
	if selected == nil {
		h.flashAndRedirect(w, r, sess, shared.FlashError, "That branch does not exist.", "/")
		return
	}

	state.BranchID = selected.ID
	state.BranchName = selected.Name
	if err := shared.SaveAppState(sess, state); err != nil {
		h.logger.Error("save app state", slog.Any("error", err))
	}
	h.flashAndRedirect(w, r, sess, shared.FlashSuccess, "Switched to "+selected.Name+".", refererOr(r, "/"))
}

func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, sess *shared.Session, kind, message, target string) {
	if sess != nil {
		sess.AddFlash(kind, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func refererOr(r *http.Request, fallback string) string {
	if ref := r.Header.Get("Referer"); strings.HasPrefix(ref, "/") {
		return ref
	}
	return fallback
}
