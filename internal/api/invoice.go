package api

import (
	"errors"
	"net/http"

	"pharmadesk/m/domain"
	"pharmadesk/m/internal/flash"
)

func (h *Handler) scanInvoiceForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, map[string]any{"form": "scan_invoice", "fields": []string{"invoice"}})
}

func (h *Handler) scanInvoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("invoice")
	if err != nil {
		var tooLarge *http.MaxBytesError
		reason := "is required"
		if errors.As(err, &tooLarge) {
			reason = "is too large"
		}
		h.fail(w, r, &domain.ValidationError{Field: "invoice", Reason: reason}, map[string]any{"form": "scan_invoice"})
		return
	}
	defer file.Close()

	res, err := h.scanner.Scan(r.Context(), file, header.Filename)
	if err != nil {
		h.fail(w, r, err, map[string]any{"form": "scan_invoice"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"form":           "scan_invoice",
		"extracted_text": res.ExtractedText,
		"invoice":        res.Invoice,
		"notice":         flash.Notice{Category: flash.Info, Message: "Invoice scanned successfully!"},
	})
}

func (h *Handler) viewInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.scanner.ListInvoices(r.Context())
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.renderPage(w, r, http.StatusOK, map[string]any{"page": "view_invoices", "invoices": invoices})
}
