package masterdata

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
	"github.com/projuktisheba/erp-mini-admin/internal/shared"
	"github.com/projuktisheba/erp-mini-admin/internal/view"
)

// Service is the slice of the ERP client the handler needs.
type Service interface {
	Employees(ctx context.Context, auth erpapi.Auth) ([]erpapi.Employee, error)
	CreateEmployee(ctx context.Context, auth erpapi.Auth, employee erpapi.Employee) error
	Customers(ctx context.Context, auth erpapi.Auth) ([]erpapi.Customer, error)
	CreateCustomer(ctx context.Context, auth erpapi.Auth, customer erpapi.Customer) error
	Suppliers(ctx context.Context, auth erpapi.Auth) ([]erpapi.Supplier, error)
	CreateSupplier(ctx context.Context, auth erpapi.Auth, supplier erpapi.Supplier) error
}

// Handler serves the master data record pages.
type Handler struct {
	logger    *slog.Logger
	api       Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	validate  *validator.Validate
}

// NewHandler constructs the master data handler.
func NewHandler(logger *slog.Logger, api Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		api:       api,
		templates: templates,
		csrf:      csrf,
		validate:  validator.New(),
	}
}

// MountRoutes registers the master data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/employees", h.listEmployees)
	r.Post("/employees", h.createEmployee)
	r.Get("/customers", h.listCustomers)
	r.Post("/customers", h.createCustomer)
	r.Get("/suppliers", h.listSuppliers)
	r.Post("/suppliers", h.createSupplier)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	employees, err := h.api.Employees(r.Context(), auth)
	if err != nil {
		h.logger.Error("list employees", slog.Any("error", err))
		h.flash(r, shared.FlashError, "Could not load employees.")
	}
	h.render(w, r, "pages/employees.html", "Employees", employees)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	salary, _ := strconv.ParseFloat(r.PostFormValue("base_salary"), 64)
	form := EmployeeForm{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Role:        r.PostFormValue("role"),
		Mobile:      strings.TrimSpace(r.PostFormValue("mobile")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Address:     strings.TrimSpace(r.PostFormValue("address")),
		JoiningDate: r.PostFormValue("joining_date"),
		BaseSalary:  salary,
	}
	if !h.valid(w, r, form, "/employees") {
		return
	}
	err := h.api.CreateEmployee(r.Context(), auth, erpapi.Employee{
		Name:        form.Name,
		Role:        form.Role,
		Status:      "active",
		Mobile:      form.Mobile,
		Email:       form.Email,
		Address:     form.Address,
		JoiningDate: form.JoiningDate,
		BaseSalary:  form.BaseSalary,
	})
	h.finish(w, r, err, "Employee added.", "/employees")
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	customers, err := h.api.Customers(r.Context(), auth)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		h.flash(r, shared.FlashError, "Could not load customers.")
	}
	h.render(w, r, "pages/customers.html", "Customers", customers)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	form := CustomerForm{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Mobile:  strings.TrimSpace(r.PostFormValue("mobile")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Address: strings.TrimSpace(r.PostFormValue("address")),
	}
	if !h.valid(w, r, form, "/customers") {
		return
	}
	err := h.api.CreateCustomer(r.Context(), auth, erpapi.Customer{
		Name:    form.Name,
		Mobile:  form.Mobile,
		Email:   form.Email,
		Address: form.Address,
	})
	h.finish(w, r, err, "Customer added.", "/customers")
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	suppliers, err := h.api.Suppliers(r.Context(), auth)
	if err != nil {
		h.logger.Error("list suppliers", slog.Any("error", err))
		h.flash(r, shared.FlashError, "Could not load suppliers.")
	}
	h.render(w, r, "pages/suppliers.html", "Suppliers", suppliers)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	form := SupplierForm{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Mobile:  strings.TrimSpace(r.PostFormValue("mobile")),
		Company: strings.TrimSpace(r.PostFormValue("company")),
		Address: strings.TrimSpace(r.PostFormValue("address")),
	}
	if !h.valid(w, r, form, "/suppliers") {
		return
	}
	err := h.api.CreateSupplier(r.Context(), auth, erpapi.Supplier{
		Name:    form.Name,
		Mobile:  form.Mobile,
		Company: form.Company,
		Address: form.Address,
	})
	h.finish(w, r, err, "Supplier added.", "/suppliers")
}

// require enforces the signed-in + branch-selected preconditions and
// assembles the API auth.
func (h *Handler) require(w http.ResponseWriter, r *http.Request) (erpapi.Auth, bool) {
	sess := shared.SessionFromContext(r.Context())
	state := shared.LoadAppState(sess)
	if !state.SignedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return erpapi.Auth{}, false
	}
	if !state.HasBranch() {
		h.flash(r, shared.FlashError, "Select a branch first.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return erpapi.Auth{}, false
	}
	return erpapi.Auth{Token: shared.Token(sess), BranchID: state.BranchID}, true
}

// valid runs the form through the validator; on failure flashes the first
// field's message and redirects.
func (h *Handler) valid(w http.ResponseWriter, r *http.Request, form any, backTo string) bool {
	err := h.validate.Struct(form)
	if err == nil {
		return true
	}
	message := "Check the form and try again."
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		message = formMessage(fieldErrs[0].Field())
	}
	h.flash(r, shared.FlashError, message)
	http.Redirect(w, r, backTo, http.StatusSeeOther)
	return false
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request, err error, success, backTo string) {
	if err != nil {
		h.logger.Error("master data write", slog.Any("error", err))
		h.flash(r, shared.FlashError, "Saving failed. Try again.")
	} else {
		h.flash(r, shared.FlashSuccess, success)
	}
	http.Redirect(w, r, backTo, http.StatusSeeOther)
}

func (h *Handler) flash(r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(kind, message)
	}
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
		h.logger.Error("render master data page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
