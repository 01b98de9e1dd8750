package handlers

import (
	"net/http"
	"strings"
)

type contractRequest struct {
	Query string `json:"query"`
	Force bool   `json:"force"`
}

// GenerateContract handles POST /contracts. A client who already has a
// contract is refused with 409 unless force is set.
func (h *Handlers) GenerateContract(w http.ResponseWriter, r *http.Request) {
	if !h.method(w, r, http.MethodPost) {
		return
	}
	var req contractRequest
	if !h.decode(w, r, "CONTRACT", &req) {
		return
	}

	c, err := h.Clients.Find(r.Context(), req.Query)
	if err != nil {
		h.Fail(w, "CONTRACT", err)
		return
	}
	if !req.Force && h.Clients.CheckDuplicateContract(r.Context(), c.FullName()) {
		h.JSON(w, http.StatusConflict, map[string]any{
			"ok":        false,
			"error":     "contract already exists for this client",
			"full_name": c.FullName(),
		})
		return
	}

	res, err := h.Documents.GenerateContract(r.Context(), c)
	if err != nil {
		h.Fail(w, "CONTRACT", err)
		return
	}
	h.JSON(w, http.StatusCreated, map[string]any{"ok": true, "result": res, "client": c})
}

// ContractExists handles GET /contracts/exists?fio=.
func (h *Handlers) ContractExists(w http.ResponseWriter, r *http.Request) {
	if !h.method(w, r, http.MethodGet) {
		return
	}
	fio := r.URL.Query().Get("fio")
	if strings.TrimSpace(fio) == "" {
		h.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "fio is required"})
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"ok": true, "exists": h.Clients.CheckDuplicateContract(r.Context(), fio)})
}

// NextContract handles GET /contracts/next. The number is a preview and is
// not reserved.
func (h *Handlers) NextContract(w http.ResponseWriter, r *http.Request) {
	if !h.method(w, r, http.MethodGet) {
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"ok": true, "number": h.Numbering.NextContractNumber(r.Context())})
}
