package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pharmadesk/m/domain"
	"pharmadesk/m/internal/flash"
	"pharmadesk/m/internal/logging"
	"pharmadesk/m/internal/notify"
	"pharmadesk/m/internal/scan"
)

const maxUploadBytes = 16 << 20

type StockRepository interface {
	Create(ctx context.Context, item domain.StockItem) (domain.StockItem, error)
	Get(ctx context.Context, id int64) (domain.StockItem, error)
	List(ctx context.Context) ([]domain.StockItem, error)
	Update(ctx context.Context, item domain.StockItem) error
	Delete(ctx context.Context, id int64) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer) (domain.Customer, error)
	Get(ctx context.Context, id int64) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) error
	Delete(ctx context.Context, id int64) error
}

type DrugLookup interface {
	Search(ctx context.Context, query string) ([]string, error)
}

type InvoiceScanner interface {
	Scan(ctx context.Context, image io.Reader, filename string) (scan.Result, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
}

type Notifier interface {
	Send(ctx context.Context, c notify.Contact) error
}

// Deps are the collaborators built at startup and shared by every request.
type Deps struct {
	Stock     StockRepository
	Customers CustomerRepository
	Lookup    DrugLookup
	Scanner   InvoiceScanner
	Notifier  Notifier
	Notices   *flash.Store
	Logger    *zap.Logger
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	stock     StockRepository
	customers CustomerRepository
	lookup    DrugLookup
	scanner   InvoiceScanner
	notifier  Notifier
	notices   *flash.Store
	logger    *zap.Logger
}

// New constructs a Handler.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		stock:     d.Stock,
		customers: d.Customers,
		lookup:    d.Lookup,
		scanner:   d.Scanner,
		notifier:  d.Notifier,
		notices:   d.Notices,
		logger:    logger,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/", h.home)
	r.Get("/health", h.health)
	r.Get("/search_medicine", h.searchMedicine)

	r.Get("/add_stock", h.addStockForm)
	r.Post("/add_stock", h.addStock)
	r.Get("/update_stock/{id}", h.updateStockForm)
	r.Post("/update_stock/{id}", h.updateStock)
	r.Get("/view_stock", h.viewStock)
	r.Get("/delete_stock/{id}", h.deleteStock)

	r.Get("/add_customer", h.addCustomerForm)
	r.Post("/add_customer", h.addCustomer)
	r.Get("/view_customers", h.viewCustomers)
	r.Get("/update_customer/{id}", h.updateCustomerForm)
	r.Post("/update_customer/{id}", h.updateCustomer)
	r.Get("/delete_customer/{id}", h.deleteCustomer)

	r.Get("/scan_invoice", h.scanInvoiceForm)
	r.Post("/scan_invoice", h.scanInvoice)
	r.Get("/view_invoices", h.viewInvoices)

	r.Get("/contact", h.contactForm)
	r.Post("/contact", h.contact)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, map[string]any{
		"page": "home",
		"links": []string{
			"/add_stock", "/view_stock", "/add_customer", "/view_customers",
			"/scan_invoice", "/view_invoices", "/contact", "/search_medicine",
		},
	})
}

// Medicine search proxies to the external catalog. Failures are reported in
// the body with a 200 so the search box can show "no results".
func (h *Handler) searchMedicine(w http.ResponseWriter, r *http.Request) {
	names, err := h.lookup.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.logger.Warn("medicine lookup failed", zap.Error(err))
		message := "An error occurred while fetching medicines."
		var le *domain.LookupError
		if errors.As(err, &le) && le.StatusCode != 0 {
			message = "Failed to fetch medicines from OpenFDA."
		}
		respondJSON(w, http.StatusOK, map[string]string{"error": message})
		return
	}
	respondJSON(w, http.StatusOK, names)
}

func (h *Handler) contactForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, map[string]any{
		"form":   "contact",
		"fields": []string{"name", "email", "message"},
	})
}

func (h *Handler) contact(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	c := notify.Contact{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Message: r.PostForm.Get("message"),
	}
	if err := h.notifier.Send(r.Context(), c); err != nil {
		h.fail(w, r, err, map[string]any{"form": "contact", "values": r.PostForm})
		return
	}
	h.redirectWithNotice(w, r, "/", flash.Success, "Your message has been sent successfully!")
}

// Helpers

// renderPage writes a page document, attaching any pending one-shot notice.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page map[string]any) {
	if n, ok := h.notices.Pop(w, r); ok {
		page["notice"] = n
	} else {
		page["notice"] = nil
	}
	respondJSON(w, status, page)
}

func (h *Handler) redirectWithNotice(w http.ResponseWriter, r *http.Request, to, category, message string) {
	if err := h.notices.Set(w, flash.Notice{Category: category, Message: message}); err != nil {
		h.logger.Error("unable to set notice", zap.Error(err))
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// fail maps the error taxonomy to a response. Recoverable errors re-show the
// submitted form with a danger notice; collaborator and storage failures
// end the request.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, page map[string]any) {
	if page == nil {
		page = map[string]any{}
	}
	var (
		ve *domain.ValidationError
		ce *domain.CoercionError
		nf *domain.NotFoundError
		se *domain.StorageError
		ee *domain.ExtractionError
		ne *domain.NotificationError
	)
	status := http.StatusInternalServerError
	message := err.Error()
	switch {
	case errors.As(err, &ve), errors.As(err, &ce):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &nf):
		status = http.StatusNotFound
	case errors.As(err, &ee):
		status = http.StatusBadGateway
		message = "Could not extract text from the invoice."
	case errors.As(err, &ne):
		status = http.StatusBadGateway
		message = "Your message could not be sent. Please try again later."
	case errors.As(err, &se):
		message = "The upload could not be stored."
	default:
		message = "something went wrong"
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	page["error"] = message
	page["notice"] = flash.Notice{Category: flash.Danger, Message: message}
	respondJSON(w, status, page)
}

func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return &domain.ValidationError{Field: "form", Reason: "could not be parsed"}
	}
	return nil
}

// idParam reads the {id} path segment. Non-numeric input is a validation
// error; a number that cannot name a stored row is reported as not found.
func idParam(r *http.Request, entity string) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &domain.NotFoundError{Entity: entity, ID: id}
	}
	if err != nil {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be an integer"}
	}
	if id <= 0 {
		return 0, &domain.NotFoundError{Entity: entity, ID: id}
	}
	return id, nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}
