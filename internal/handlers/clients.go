package handlers

import (
	"net/http"
	"strings"

	"autocontract/internal/services/clients"
)

// FindClient handles GET /clients/find?q=.
func (h *Handlers) FindClient(w http.ResponseWriter, r *http.Request) {
	if !h.method(w, r, http.MethodGet) {
		return
	}
	c, err := h.Clients.Find(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.Fail(w, "CLIENT", err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"ok": true, "client": c, "full_name": c.FullName()})
}

type saveClientRequest struct {
	clients.Input
	Confirm bool `json:"confirm"`
}

// SaveClient handles POST /clients. Advisory issues are returned with 422
// until the request is repeated with confirm set.
func (h *Handlers) SaveClient(w http.ResponseWriter, r *http.Request) {
	if !h.method(w, r, http.MethodPost) {
		return
	}
	var req saveClientRequest
	if !h.decode(w, r, "CLIENT", &req) {
		return
	}
	c, err := h.Clients.Save(r.Context(), req.Input, req.Confirm)
	if err != nil {
		h.Fail(w, "CLIENT", err)
		return
	}
	h.JSON(w, http.StatusCreated, map[string]any{"ok": true, "client": c})
}

type editClientRequest struct {
	VIN     string        `json:"vin"`
	Client  clients.Input `json:"client"`
	Confirm bool          `json:"confirm"`
}

// EditClient handles POST /clients/edit.
func (h *Handlers) EditClient(w http.ResponseWriter, r *http.Request) {
	if !h.method(w, r, http.MethodPost) {
		return
	}
	var req editClientRequest
	if !h.decode(w, r, "CLIENT", &req) {
		return
	}
	if strings.TrimSpace(req.VIN) == "" {
		h.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "vin is required"})
		return
	}
	c, err := h.Clients.EditByVIN(r.Context(), req.VIN, req.Client, req.Confirm)
	if err != nil {
		h.Fail(w, "CLIENT", err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"ok": true, "client": c})
}
