package handlers

import (
	"errors"
	"io"
	"net/http"

	"autocontract/internal/adapters/templates"
	"autocontract/internal/ports"
	"autocontract/internal/services/render"
)

const maxTemplateSize = 32 << 20

// UploadTemplate accepts multipart/form-data with `kind` and `file` fields and
// replaces the configured template of that kind.
func (h *Handlers) UploadTemplate(w http.ResponseWriter, r *http.Request) {
	if !h.method(w, r, http.MethodPost) {
		return
	}
	if h.Templates == nil {
		h.JSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": "template upload not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTemplateSize+1<<20)
	if err := r.ParseMultipartForm(maxTemplateSize); err != nil {
		h.Logger.Printf("[UPLOAD][ERR] parse multipart: %v", err)
		h.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad multipart: " + err.Error()})
		return
	}

	kind := r.FormValue("kind")
	if kind == "" {
		h.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "kind is required"})
		return
	}

	f, fh, err := r.FormFile("file")
	if err != nil {
		h.Logger.Printf("[UPLOAD][ERR] missing file: %v", err)
		h.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "file is required"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.Fail(w, "UPLOAD", err)
		return
	}

	loc, keys, err := h.Templates.Put(r.Context(), kind, data)
	switch {
	case errors.Is(err, templates.ErrUnknownKind), errors.Is(err, templates.ErrReadOnlySource):
		h.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	case errors.Is(err, render.ErrNotDocx):
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{"ok": false, "error": err.Error()})
		return
	case err != nil:
		h.Fail(w, "UPLOAD", err)
		return
	}

	h.Logger.Printf("[UPLOAD][OK] kind=%s file=%q location=%q operator=%q", kind, fh.Filename, loc, ports.Operator(r.Context()))
	h.JSON(w, http.StatusCreated, map[string]any{"ok": true, "location": loc, "placeholders": keys})
}
