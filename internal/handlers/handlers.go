package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"autocontract/internal/models"
	"autocontract/internal/repository/journal"
	"autocontract/internal/services/clients"
	"autocontract/internal/services/documents"
	"autocontract/internal/services/render"
)

type ClientService interface {
	Find(ctx context.Context, term string) (models.Client, error)
	Save(ctx context.Context, in clients.Input, confirm bool) (models.Client, error)
	EditByVIN(ctx context.Context, vin string, in clients.Input, confirm bool) (models.Client, error)
	ResolveInvoiceTarget(ctx context.Context, term string) (models.Client, string, error)
	CheckDuplicateContract(ctx context.Context, fullName string) bool
}

type DocumentService interface {
	GenerateContract(ctx context.Context, c models.Client) (documents.Result, error)
	GenerateInvoice(ctx context.Context, req documents.InvoiceRequest) (documents.Result, error)
}

type ContractNumbering interface {
	NextContractNumber(ctx context.Context) string
}

type JournalReader interface {
	List(ctx context.Context, kind string, limit, skip int64) ([]journal.Entry, int64, error)
}

type TemplateStore interface {
	Put(ctx context.Context, kind string, data []byte) (string, []string, error)
}

// Handlers holds the services behind the HTTP API. Journal and Templates are
// optional and must be left nil when not configured.
type Handlers struct {
	Clients   ClientService
	Documents DocumentService
	Numbering ContractNumbering
	Journal   JournalReader
	Templates TemplateStore

	// Check reports the state of workbooks and configured connections.
	Check func(ctx context.Context) error

	Logger *log.Logger
}

func New(cs ClientService, ds DocumentService, n ContractNumbering, check func(ctx context.Context) error) *Handlers {
	return &Handlers{
		Clients:   cs,
		Documents: ds,
		Numbering: n,
		Check:     check,
		Logger:    log.Default(),
	}
}

func (h *Handlers) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail converts a service error into a JSON failure with the matching status.
func (h *Handlers) Fail(w http.ResponseWriter, tag string, err error) {
	var ve *clients.ValidationError
	switch {
	case errors.As(err, &ve):
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"ok":            false,
			"error":         err.Error(),
			"issues":        ve.Issues,
			"advisory_only": ve.AdvisoryOnly(),
		})
		return
	case errors.Is(err, clients.ErrNotFound):
		h.JSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": err.Error()})
		return
	case errors.Is(err, clients.ErrEmptyQuery):
		h.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	case errors.Is(err, documents.ErrInvalidAmount),
		errors.Is(err, documents.ErrNoContract),
		errors.Is(err, documents.ErrIncompleteName):
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{"ok": false, "error": err.Error()})
		return
	}

	h.Logger.Printf("[%s][ERR] template_missing=%v err=%v", tag, errors.Is(err, render.ErrTemplateNotFound), err)
	h.JSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, tag string, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		h.Logger.Printf("[%s][REQ][ERR] bad JSON: %v", tag, err)
		h.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad JSON: " + err.Error()})
		return false
	}
	return true
}

func (h *Handlers) method(w http.ResponseWriter, r *http.Request, want string) bool {
	if r.Method != want {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "use " + want})
		return false
	}
	return true
}
