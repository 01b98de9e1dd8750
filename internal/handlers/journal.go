package handlers

import (
	"net/http"
	"strconv"
)

// ListJournal handles GET /journal?kind=&limit=&skip=.
func (h *Handlers) ListJournal(w http.ResponseWriter, r *http.Request) {
	if !h.method(w, r, http.MethodGet) {
		return
	}
	if h.Journal == nil {
		h.JSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": "journal not configured"})
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	skip, _ := strconv.ParseInt(q.Get("skip"), 10, 64)

	entries, total, err := h.Journal.List(r.Context(), q.Get("kind"), limit, skip)
	if err != nil {
		h.Fail(w, "JOURNAL", err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"ok": true, "entries": entries, "total": total})
}
