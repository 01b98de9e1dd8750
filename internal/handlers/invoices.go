package handlers

import (
	"net/http"

	"autocontract/internal/services/documents"
)

type invoiceRequest struct {
	Query   string `json:"query"`
	Service string `json:"service"`
	Amount  int    `json:"amount"`
	Method  string `json:"method"`
}

// GenerateInvoice handles POST /invoices. query is a contract number (with
// or without the suffix), a name or a VIN.
func (h *Handlers) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	if !h.method(w, r, http.MethodPost) {
		return
	}
	var req invoiceRequest
	if !h.decode(w, r, "INVOICE", &req) {
		return
	}
	if req.Amount <= 0 {
		h.Fail(w, "INVOICE", documents.ErrInvalidAmount)
		return
	}

	c, number, err := h.Clients.ResolveInvoiceTarget(r.Context(), req.Query)
	if err != nil {
		h.Fail(w, "INVOICE", err)
		return
	}

	res, err := h.Documents.GenerateInvoice(r.Context(), documents.InvoiceRequest{
		Client:         c,
		ContractNumber: number,
		Service:        req.Service,
		Amount:         req.Amount,
		Method:         req.Method,
	})
	if err != nil {
		h.Fail(w, "INVOICE", err)
		return
	}
	h.JSON(w, http.StatusCreated, map[string]any{"ok": true, "result": res, "client": c})
}
