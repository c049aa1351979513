package orders

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
	Customers(ctx context.Context, auth erpapi.Auth) ([]erpapi.Customer, error)
	Employees(ctx context.Context, auth erpapi.Auth) ([]erpapi.Employee, error)
	Products(ctx context.Context, auth erpapi.Auth) ([]erpapi.Product, error)
	CreateOrder(ctx context.Context, auth erpapi.Auth, order erpapi.Order) error
	RecordStockMovement(ctx context.Context, auth erpapi.Auth, movement erpapi.StockMovement) error
}

// Handler serves the order entry and stock movement pages.
type Handler struct {
	logger    *slog.Logger
	api       Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	validate  *validator.Validate
}

// NewHandler constructs the orders handler.
func NewHandler(logger *slog.Logger, api Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		api:       api,
		templates: templates,
		csrf:      csrf,
		validate:  validator.New(),
	}
}

// MountRoutes registers the orders and stock routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/orders/new", h.showOrderForm)
	r.Post("/orders", h.createOrder)
	r.Get("/stock", h.showStock)
	r.Post("/stock/movements", h.recordMovement)
}

// orderFormVM feeds the order entry page selects.
type orderFormVM struct {
	Customers    []erpapi.Customer
	Salespersons []erpapi.Employee
	Products     []erpapi.Product
}

func (h *Handler) showOrderForm(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	vm := orderFormVM{}
	var err error
	if vm.Customers, err = h.api.Customers(r.Context(), auth); err != nil {
		h.degrade(r, err, "customers")
	}
	if vm.Salespersons, err = h.api.Employees(r.Context(), auth); err != nil {
		h.degrade(r, err, "employees")
	}
	if vm.Products, err = h.api.Products(r.Context(), auth); err != nil {
		h.degrade(r, err, "products")
	}
	h.render(w, r, "pages/order_new.html", "New Order", vm)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	form := OrderForm{
		MemoNo:        strings.TrimSpace(r.PostFormValue("memo_no")),
		OrderDate:     r.PostFormValue("order_date"),
		CustomerID:    parseID(r.PostFormValue("customer_id")),
		SalespersonID: parseID(r.PostFormValue("salesperson_id")),
		TotalAmount:   parseAmount(r.PostFormValue("total_amount")),
		PaidAmount:    parseAmount(r.PostFormValue("paid_amount")),
		AccountName:   r.PostFormValue("payment_account_name"),
		Notes:         strings.TrimSpace(r.PostFormValue("notes")),
	}
	if !h.valid(w, r, form, orderMessage, "/orders/new") {
		return
	}
	if form.PaidAmount > form.TotalAmount {
		h.flash(r, shared.FlashError, "Paid amount cannot exceed the total.")
		http.Redirect(w, r, "/orders/new", http.StatusSeeOther)
		return
	}
	order := erpapi.Order{
		MemoNo:        form.MemoNo,
		OrderDate:     form.OrderDate,
		CustomerID:    form.CustomerID,
		SalespersonID: form.SalespersonID,
		TotalAmount:   form.TotalAmount,
		PaidAmount:    form.PaidAmount,
		AccountName:   form.AccountName,
		Notes:         form.Notes,
		Items:         parseItems(r),
	}
	if err := h.api.CreateOrder(r.Context(), auth, order); err != nil {
		h.logger.Error("create order", slog.Any("error", err))
		h.flash(r, shared.FlashError, "Saving the order failed. Try again.")
		http.Redirect(w, r, "/orders/new", http.StatusSeeOther)
		return
	}
	h.flash(r, shared.FlashSuccess, "Order saved.")
	http.Redirect(w, r, "/reports/orders", http.StatusSeeOther)
}

func (h *Handler) showStock(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	products, err := h.api.Products(r.Context(), auth)
	if err != nil {
		h.degrade(r, err, "products")
	}
	h.render(w, r, "pages/stock.html", "Stock", products)
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.require(w, r)
	if !ok {
		return
	}
	form := StockForm{
		ProductID: parseID(r.PostFormValue("product_id")),
		Direction: r.PostFormValue("direction"),
		Quantity:  parseID(r.PostFormValue("quantity")),
		UnitPrice: parseAmount(r.PostFormValue("unit_price")),
		Date:      r.PostFormValue("date"),
		Notes:     strings.TrimSpace(r.PostFormValue("notes")),
	}
	if !h.valid(w, r, form, stockMessage, "/stock") {
		return
	}
	movement := erpapi.StockMovement{
		ProductID: form.ProductID,
		Direction: form.Direction,
		Quantity:  form.Quantity,
		UnitPrice: form.UnitPrice,
		Date:      form.Date,
		Notes:     form.Notes,
	}
	if err := h.api.RecordStockMovement(r.Context(), auth, movement); err != nil {
		h.logger.Error("record stock movement", slog.Any("error", err))
		h.flash(r, shared.FlashError, "Recording the movement failed. Try again.")
	} else {
		h.flash(r, shared.FlashSuccess, "Stock movement recorded.")
	}
	http.Redirect(w, r, "/stock", http.StatusSeeOther)
}

// parseItems reads the parallel item_* arrays posted by the order form.
// Rows with no product or a non-positive quantity are skipped.
func parseItems(r *http.Request) []erpapi.OrderItem {
	if err := r.ParseForm(); err != nil {
		return nil
	}
	productIDs := r.PostForm["item_product_id"]
	quantities := r.PostForm["item_quantity"]
	subtotals := r.PostForm["item_subtotal"]
	items := make([]erpapi.OrderItem, 0, len(productIDs))
	for i := range productIDs {
		item := erpapi.OrderItem{ProductID: parseID(productIDs[i])}
		if i < len(quantities) {
			item.Quantity = parseID(quantities[i])
		}
		if i < len(subtotals) {
			item.Subtotal = parseAmount(subtotals[i])
		}
		if item.ProductID <= 0 || item.Quantity <= 0 {
			continue
		}
		items = append(items, item)
	}
	return items
}

func parseID(raw string) int64 {
	id, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id
}

func parseAmount(raw string) float64 {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return amount
}

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

func (h *Handler) valid(w http.ResponseWriter, r *http.Request, form any, message func(string) string, backTo string) bool {
	err := h.validate.Struct(form)
	if err == nil {
		return true
	}
	notice := "Check the form and try again."
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		notice = message(fieldErrs[0].Field())
	}
	h.flash(r, shared.FlashError, notice)
	http.Redirect(w, r, backTo, http.StatusSeeOther)
	return false
}

// degrade logs an upstream read failure and leaves the page to render with
// whatever lists did load.
func (h *Handler) degrade(r *http.Request, err error, scope string) {
	h.logger.Error("load "+scope, slog.Any("error", err))
	h.flash(r, shared.FlashError, "Some reference data could not be loaded.")
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
		h.logger.Error("render orders page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
