package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pharmadesk/m/domain"
	"pharmadesk/m/internal/database"
	"pharmadesk/m/internal/flash"
	"pharmadesk/m/internal/migrations"
	"pharmadesk/m/internal/notify"
	"pharmadesk/m/internal/scan"
	"pharmadesk/m/internal/store"
)

type fakeLookup struct {
	names []string
	err   error
	calls int
}

func (f *fakeLookup) Search(_ context.Context, query string) ([]string, error) {
	f.calls++
	return f.names, f.err
}

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(context.Context, string) (string, error) { return f.text, f.err }

type fakeNotifier struct {
	sent []notify.Contact
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, c notify.Contact) error {
	f.sent = append(f.sent, c)
	return f.err
}

type testApp struct {
	router    http.Handler
	stock     *store.StockStore
	customers *store.CustomerStore
	lookup    *fakeLookup
	notifier  *fakeNotifier
	cookies   []*http.Cookie
}

func newTestApp(t *testing.T, extractor scan.Extractor) *testApp {
	t.Helper()
	db, err := database.Connect(":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if extractor == nil {
		extractor = fakeExtractor{}
	}

	app := &testApp{
		stock:     store.NewStockStore(db),
		customers: store.NewCustomerStore(db),
		lookup:    &fakeLookup{names: []string{}},
		notifier:  &fakeNotifier{},
	}
	app.router = New(Deps{
		Stock:     app.stock,
		Customers: app.customers,
		Lookup:    app.lookup,
		Scanner:   scan.NewService(t.TempDir(), extractor, store.NewInvoiceStore(db), zap.NewNop()),
		Notifier:  app.notifier,
		Notices:   flash.NewStore("test-secret"),
		Logger:    zap.NewNop(),
	}).Router()
	return app
}

// do sends a request carrying the cookies the previous response set, the way
// a browser follows a redirect.
func (a *testApp) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	a.cookies = nil
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			a.cookies = append(a.cookies, c)
		}
	}
	return rec
}

func (a *testApp) get(t *testing.T, path string) *httptest.ResponseRecorder {
	return a.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func stockForm(name, qty, price, expiry string) url.Values {
	return url.Values{"medicine": {name}, "quantity": {qty}, "price": {price}, "expiry_date": {expiry}}
}

func TestAddStockRedirectsWithNotice(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.postForm(t, "/add_stock", stockForm("Paracetamol", "12", "3.50", "2027-01-31"))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/view_stock" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = app.get(t, "/view_stock")
	if rec.Code != http.StatusOK {
		t.Fatalf("view status %d", rec.Code)
	}
	var page struct {
		Notice *flash.Notice      `json:"notice"`
		Stock  []domain.StockItem `json:"stock"`
	}
	decodeBody(t, rec, &page)
	if page.Notice == nil || page.Notice.Message != "Stock added successfully!" {
		t.Fatalf("notice = %+v", page.Notice)
	}
	if len(page.Stock) != 1 || page.Stock[0].Name != "Paracetamol" || page.Stock[0].Quantity != 12 ||
		!page.Stock[0].Price.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("stock = %+v", page.Stock)
	}

	rec = app.get(t, "/view_stock")
	decodeBody(t, rec, &page)
	if page.Notice != nil {
		t.Fatalf("notice should be consumed, got %+v", page.Notice)
	}
}

func TestAddStockRejectsBadInput(t *testing.T) {
	app := newTestApp(t, nil)
	cases := []url.Values{
		stockForm("", "1", "1", "2027-01-01"),
		stockForm("Aspirin", "ten", "1", "2027-01-01"),
		stockForm("Aspirin", "-1", "1", "2027-01-01"),
		stockForm("Aspirin", "1", "free", "2027-01-01"),
		stockForm("Aspirin", "1", "1", ""),
	}
	for _, form := range cases {
		rec := app.postForm(t, "/add_stock", form)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("form %v: status %d", form, rec.Code)
		}
	}
	items, _ := app.stock.List(context.Background())
	if len(items) != 0 {
		t.Fatalf("no items expected, got %+v", items)
	}
}

func TestUpdateStockCoercionFailureLeavesItem(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()
	item, _ := app.stock.Create(ctx, domain.StockItem{Name: "Ibuprofen", Quantity: 5, Price: decimal.NewFromInt(4), ExpiryDate: "2026-11-01"})
	path := "/update_stock/" + strconv.FormatInt(item.ID, 10)

	rec := app.postForm(t, path, stockForm("Ibuprofen 400", "7", "abc", "2029-01-01"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
	var page struct {
		Notice flash.Notice     `json:"notice"`
		Stock  domain.StockItem `json:"stock"`
	}
	decodeBody(t, rec, &page)
	if page.Notice.Category != flash.Danger || !strings.Contains(page.Notice.Message, "price") {
		t.Fatalf("notice = %+v", page.Notice)
	}

	got, _ := app.stock.Get(ctx, item.ID)
	if got.Name != "Ibuprofen" || got.Quantity != 5 || got.ExpiryDate != "2026-11-01" || !got.Price.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("item changed: %+v", got)
	}

	rec = app.postForm(t, path, stockForm("Ibuprofen 400", "7", "4.25", "2029-01-01"))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("valid update status %d", rec.Code)
	}
	got, _ = app.stock.Get(ctx, item.ID)
	if got.Name != "Ibuprofen 400" || got.Quantity != 7 || !got.Price.Equal(decimal.RequireFromString("4.25")) {
		t.Fatalf("item not updated: %+v", got)
	}
}

func TestMissingStockIsNotFound(t *testing.T) {
	app := newTestApp(t, nil)
	for _, rec := range []*httptest.ResponseRecorder{
		app.get(t, "/update_stock/42"),
		app.postForm(t, "/update_stock/42", stockForm("X", "1", "1", "2027-01-01")),
		app.get(t, "/delete_stock/42"),
	} {
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status %d body %s", rec.Code, rec.Body)
		}
	}
	items, _ := app.stock.List(context.Background())
	if len(items) != 0 {
		t.Fatalf("store mutated: %+v", items)
	}
}

func TestDeleteStockTwice(t *testing.T) {
	app := newTestApp(t, nil)
	item, _ := app.stock.Create(context.Background(), domain.StockItem{Name: "Zinc", Quantity: 1, Price: decimal.NewFromInt(1), ExpiryDate: "2027-01-01"})
	path := "/delete_stock/" + strconv.FormatInt(item.ID, 10)

	if rec := app.get(t, path); rec.Code != http.StatusSeeOther {
		t.Fatalf("first delete status %d", rec.Code)
	}
	if rec := app.get(t, path); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status %d", rec.Code)
	}
}

func TestInvalidIDIsRejected(t *testing.T) {
	app := newTestApp(t, nil)
	if rec := app.get(t, "/delete_customer/abc"); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestOutOfRangeIDsAreNotFound(t *testing.T) {
	app := newTestApp(t, nil)
	app.stock.Create(context.Background(), domain.StockItem{Name: "Zinc", Quantity: 1, Price: decimal.NewFromInt(1), ExpiryDate: "2027-01-01"})

	for _, rec := range []*httptest.ResponseRecorder{
		app.get(t, "/delete_stock/0"),
		app.get(t, "/update_stock/-1"),
		app.postForm(t, "/update_stock/-1", stockForm("X", "1", "1", "2027-01-01")),
		app.get(t, "/delete_stock/99999999999999999999"),
		app.get(t, "/delete_customer/0"),
	} {
		if rec.Code != http.StatusNotFound {
			t.Errorf("status %d body %s", rec.Code, rec.Body)
		}
	}
	items, _ := app.stock.List(context.Background())
	if len(items) != 1 {
		t.Fatalf("store mutated: %+v", items)
	}
}

func TestCustomerMedicinesKeepSubmittedOrder(t *testing.T) {
	app := newTestApp(t, nil)
	form := url.Values{
		"name":         {"Meera"},
		"phone_number": {"555-0199"},
		"email":        {"meera@example.com"},
		"medicines":    {"Zyrtec", "Advil", "Zyrtec"},
	}
	rec := app.postForm(t, "/add_customer", form)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/view_customers" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	var page struct {
		Customers []domain.Customer `json:"customers"`
	}
	decodeBody(t, app.get(t, "/view_customers"), &page)
	if len(page.Customers) != 1 {
		t.Fatalf("customers = %+v", page.Customers)
	}
	want := domain.MedicineList{"Zyrtec", "Advil", "Zyrtec"}
	if !reflect.DeepEqual(page.Customers[0].Medicines, want) {
		t.Fatalf("medicines = %#v", page.Customers[0].Medicines)
	}

	id := strconv.FormatInt(page.Customers[0].ID, 10)
	form.Set("email", "meera@pharmacy.test")
	form["medicines"] = []string{"Advil"}
	if rec := app.postForm(t, "/update_customer/"+id, form); rec.Code != http.StatusSeeOther {
		t.Fatalf("update status %d", rec.Code)
	}
	got, _ := app.customers.Get(context.Background(), page.Customers[0].ID)
	if got.Email != "meera@pharmacy.test" || !reflect.DeepEqual(got.Medicines, domain.MedicineList{"Advil"}) {
		t.Fatalf("customer = %+v", got)
	}

	if rec := app.get(t, "/delete_customer/"+id); rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status %d", rec.Code)
	}
	if rec := app.get(t, "/update_customer/"+id); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted customer status %d", rec.Code)
	}
}

func TestAddCustomerRequiresName(t *testing.T) {
	app := newTestApp(t, nil)
	rec := app.postForm(t, "/add_customer", url.Values{"phone_number": {"1"}, "email": {"a@b"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestSearchMedicine(t *testing.T) {
	app := newTestApp(t, nil)
	app.lookup.names = []string{"ADVIL"}

	rec := app.get(t, "/search_medicine?query=adv")
	var names []string
	decodeBody(t, rec, &names)
	if rec.Code != http.StatusOK || !reflect.DeepEqual(names, []string{"ADVIL"}) {
		t.Fatalf("status %d names %v", rec.Code, names)
	}

	app.lookup.err = &domain.LookupError{StatusCode: http.StatusServiceUnavailable}
	rec = app.get(t, "/search_medicine?query=adv")
	var failure map[string]string
	decodeBody(t, rec, &failure)
	if rec.Code != http.StatusOK || failure["error"] == "" {
		t.Fatalf("status %d body %v", rec.Code, failure)
	}
}

func multipartInvoice(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("invoice", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/scan_invoice", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestScanInvoice(t *testing.T) {
	app := newTestApp(t, fakeExtractor{text: "ABC"})

	rec := app.do(t, multipartInvoice(t, "invoice 7.png", []byte("image")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body)
	}
	var res struct {
		ExtractedText string         `json:"extracted_text"`
		Invoice       domain.Invoice `json:"invoice"`
	}
	decodeBody(t, rec, &res)
	if res.ExtractedText != "ABC" || res.Invoice.Filename != "invoice_7.png" {
		t.Fatalf("result = %+v", res)
	}

	var page struct {
		Invoices []domain.Invoice `json:"invoices"`
	}
	decodeBody(t, app.get(t, "/view_invoices"), &page)
	if len(page.Invoices) != 1 || page.Invoices[0].ExtractedText != "ABC" {
		t.Fatalf("invoices = %+v", page.Invoices)
	}
}

func TestScanInvoiceFailures(t *testing.T) {
	app := newTestApp(t, fakeExtractor{err: errors.New("engine crashed")})

	if rec := app.do(t, multipartInvoice(t, "a.png", []byte("image"))); rec.Code != http.StatusBadGateway {
		t.Fatalf("extraction failure status %d", rec.Code)
	}
	if rec := app.postForm(t, "/scan_invoice", url.Values{}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing file status %d", rec.Code)
	}
	var page struct {
		Invoices []domain.Invoice `json:"invoices"`
	}
	decodeBody(t, app.get(t, "/view_invoices"), &page)
	if len(page.Invoices) != 0 {
		t.Fatalf("no invoices expected, got %+v", page.Invoices)
	}
}

func TestContact(t *testing.T) {
	app := newTestApp(t, nil)
	form := url.Values{"name": {"Ravi"}, "email": {"ravi@example.com"}, "message": {"Open on Sunday?"}}

	rec := app.postForm(t, "/contact", form)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(app.notifier.sent) != 1 || app.notifier.sent[0].Email != "ravi@example.com" {
		t.Fatalf("sent = %+v", app.notifier.sent)
	}

	app.notifier.err = &domain.NotificationError{Err: errors.New("smtp down")}
	rec = app.postForm(t, "/contact", form)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("failure status %d", rec.Code)
	}
	var page struct {
		Notice flash.Notice `json:"notice"`
	}
	decodeBody(t, rec, &page)
	if page.Notice.Category != flash.Danger {
		t.Fatalf("notice = %+v", page.Notice)
	}
}

func TestHealthAndHome(t *testing.T) {
	app := newTestApp(t, nil)
	if rec := app.get(t, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("health status %d", rec.Code)
	}
	if rec := app.get(t, "/"); rec.Code != http.StatusOK {
		t.Fatalf("home status %d", rec.Code)
	}
}
