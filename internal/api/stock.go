package api

import (
	"fmt"
	"net/http"

	"pharmadesk/m/internal/flash"
)

func (h *Handler) addStockForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, map[string]any{"form": "add_stock", "fields": stockFields})
}

func (h *Handler) addStock(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	item, err := stockFromForm(r.PostForm)
	if err != nil {
		h.fail(w, r, err, map[string]any{"form": "add_stock", "fields": stockFields, "values": r.PostForm})
		return
	}
	if _, err := h.stock.Create(r.Context(), item); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.redirectWithNotice(w, r, "/view_stock", flash.Success, "Stock added successfully!")
}

func (h *Handler) updateStockForm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "stock item")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	item, err := h.stock.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.renderPage(w, r, http.StatusOK, map[string]any{"form": "update_stock", "fields": stockFields, "stock": item})
}

// updateStock overwrites all fields at once. A value that fails coercion
// re-shows the edit form with the stored item untouched.
func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "stock item")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	current, err := h.stock.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	if err := parseForm(r); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	item, err := stockFromForm(r.PostForm)
	if err != nil {
		h.fail(w, r, fmt.Errorf("error updating stock: %w", err), map[string]any{
			"form": "update_stock", "fields": stockFields, "stock": current, "values": r.PostForm,
		})
		return
	}
	item.ID = id
	if err := h.stock.Update(r.Context(), item); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.redirectWithNotice(w, r, "/view_stock", flash.Success, "Stock updated successfully!")
}

func (h *Handler) viewStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.stock.List(r.Context())
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.renderPage(w, r, http.StatusOK, map[string]any{"page": "view_stock", "stock": items})
}

func (h *Handler) deleteStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "stock item")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	if err := h.stock.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.redirectWithNotice(w, r, "/view_stock", flash.Success, "Stock deleted successfully!")
}
