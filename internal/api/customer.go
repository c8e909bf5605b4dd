package api

import (
	"net/http"

	"pharmadesk/m/internal/flash"
)

func (h *Handler) addCustomerForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, map[string]any{"form": "add_customer", "fields": customerFields})
}

func (h *Handler) addCustomer(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	c, err := customerFromForm(r.PostForm)
	if err != nil {
		h.fail(w, r, err, map[string]any{"form": "add_customer", "fields": customerFields, "values": r.PostForm})
		return
	}
	if _, err := h.customers.Create(r.Context(), c); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.redirectWithNotice(w, r, "/view_customers", flash.Success, "Customer added successfully!")
}

func (h *Handler) viewCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.renderPage(w, r, http.StatusOK, map[string]any{"page": "view_customers", "customers": customers})
}

func (h *Handler) updateCustomerForm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "customer")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.renderPage(w, r, http.StatusOK, map[string]any{"form": "update_customer", "fields": customerFields, "customer": c})
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "customer")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	current, err := h.customers.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	if err := parseForm(r); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	c, err := customerFromForm(r.PostForm)
	if err != nil {
		h.fail(w, r, err, map[string]any{
			"form": "update_customer", "fields": customerFields, "customer": current, "values": r.PostForm,
		})
		return
	}
	c.ID = id
	if err := h.customers.Update(r.Context(), c); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.redirectWithNotice(w, r, "/view_customers", flash.Success, "Customer updated successfully!")
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "customer")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	if err := h.customers.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.redirectWithNotice(w, r, "/view_customers", flash.Success, "Customer deleted successfully!")
}
