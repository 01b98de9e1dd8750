package documents

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"autocontract/internal/models"
	"autocontract/internal/ports"
	"autocontract/internal/services/registry"
)

var (
	ErrInvalidAmount  = errors.New("amount must be a positive whole number of rubles")
	ErrNoContract     = errors.New("contract number is required")
	ErrIncompleteName = errors.New("client surname is required")
)

type Renderer interface {
	Render(ctx context.Context, template, output string, values map[string]string) error
}

type Settings struct {
	OutputDir           string
	ContractTemplate    string
	InvoiceTemplate     string
	InvoiceCardTemplate string
	AppName             string
	Currency            string
	Company             Company
}

type Result struct {
	Kind        models.JournalKind `json:"kind"`
	Number      string             `json:"number"`
	Path        string             `json:"path"`
	ArchivePath string             `json:"archive_path,omitempty"`
	// Recorded is false when a contract document was written but the
	// registry row could not be appended.
	Recorded bool `json:"recorded"`
}

type Generator struct {
	Renderer  Renderer
	Numbering *registry.Numbering
	Contracts ports.ContractStore
	Archive   ports.Archiver
	Journal   ports.Journal
	Settings  Settings

	Now func() time.Time

	// mu covers number allocation through the registry append, so concurrent
	// requests never share a contract number.
	mu sync.Mutex
}

func NewGenerator(r Renderer, n *registry.Numbering, contracts ports.ContractStore, s Settings) *Generator {
	if s.Currency == "" {
		s.Currency = "₽"
	}
	return &Generator{Renderer: r, Numbering: n, Contracts: contracts, Settings: s, Now: time.Now}
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// GenerateContract renders a contract under the next free number and appends
// it to the registry.
func (g *Generator) GenerateContract(ctx context.Context, c models.Client) (Result, error) {
	if strings.TrimSpace(c.LastName) == "" {
		return Result{}, ErrIncompleteName
	}
	t0 := time.Now()
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	number := g.Numbering.NextContractNumber(ctx)
	cc := NewContractContext(c, number, g.Numbering.TrimSuffix(number), now, g.Settings.Company, g.Settings.AppName)
	output := filepath.Join(g.Settings.OutputDir, ContractFilename(number, cc.FullFIO, c.PostIndex))
	log.Printf("[DOC][CONTRACT][START] client_id=%d number=%q output=%q", c.ID, number, output)

	res := Result{Kind: models.JournalContract, Number: number, Path: output}
	if err := g.Renderer.Render(ctx, g.Settings.ContractTemplate, output, cc.Placeholders()); err != nil {
		log.Printf("[DOC][CONTRACT][ERR] render: %v", err)
		g.journal(ctx, c, res, err)
		return Result{}, fmt.Errorf("generate contract %s: %w", number, err)
	}

	rec := models.Contract{
		RegistryID: g.Numbering.NextRegistryID(ctx),
		FullName:   cc.FullFIO,
		Number:     number,
		Phone:      c.Phone,
		PostIndex:  c.PostIndex,
		Date:       cc.Date,
	}
	if err := g.Contracts.Append(ctx, rec); err != nil {
		log.Printf("[DOC][CONTRACT][ERR] registry append number=%q: %v", number, err)
	} else {
		res.Recorded = true
	}

	res.ArchivePath = g.archive(ctx, output)
	g.journal(ctx, c, res, nil)

	log.Printf("[DOC][CONTRACT][DONE] number=%q recorded=%v duration=%s", number, res.Recorded, time.Since(t0))
	return res, nil
}

type InvoiceRequest struct {
	Client         models.Client
	ContractNumber string
	Service        string
	Amount         int
	Method         string
}

// GenerateInvoice renders an invoice against an existing contract number.
// The card method uses its own template.
func (g *Generator) GenerateInvoice(ctx context.Context, req InvoiceRequest) (Result, error) {
	if req.Amount <= 0 {
		return Result{}, ErrInvalidAmount
	}
	number := strings.TrimSpace(req.ContractNumber)
	if number == "" {
		return Result{}, ErrNoContract
	}
	t0 := time.Now()

	template := g.Settings.InvoiceTemplate
	if req.Method == MethodCard {
		template = g.Settings.InvoiceCardTemplate
	}

	ic := NewInvoiceContext(req.Client, number, g.Numbering.TrimSuffix(number), req.Service, req.Amount, req.Method, g.now(), g.Settings.Company, g.Settings.Currency)
	output := filepath.Join(g.Settings.OutputDir, InvoiceFilename(ic))
	log.Printf("[DOC][INVOICE][START] client_id=%d contract=%q service=%q amount=%d method=%q output=%q",
		req.Client.ID, number, req.Service, req.Amount, req.Method, output)

	res := Result{Kind: models.JournalInvoice, Number: ic.FullNum, Path: output}
	if err := g.Renderer.Render(ctx, template, output, ic.Placeholders()); err != nil {
		log.Printf("[DOC][INVOICE][ERR] render: %v", err)
		g.journal(ctx, req.Client, res, err)
		return Result{}, fmt.Errorf("generate invoice %s: %w", ic.FullNum, err)
	}

	res.ArchivePath = g.archive(ctx, output)
	g.journal(ctx, req.Client, res, nil)

	log.Printf("[DOC][INVOICE][DONE] number=%q duration=%s", ic.FullNum, time.Since(t0))
	return res, nil
}

func (g *Generator) archive(ctx context.Context, output string) string {
	if g.Archive == nil {
		return ""
	}
	p, err := g.Archive.Store(ctx, output)
	if err != nil {
		log.Printf("[DOC][WARN] archive %q: %v", output, err)
		return ""
	}
	return p
}

func (g *Generator) journal(ctx context.Context, c models.Client, res Result, failure error) {
	if g.Journal == nil {
		return
	}
	e := models.JournalEntry{
		Kind:           res.Kind,
		ClientID:       c.ID,
		FullName:       c.FullName(),
		ContractNumber: res.Number,
		FilePath:       res.Path,
		ArchivePath:    res.ArchivePath,
		Operator:       ports.Operator(ctx),
		Status:         "done",
		CreatedAt:      g.now().UTC(),
	}
	if failure != nil {
		e.Status = "failed"
		e.Error = failure.Error()
	} else if res.Kind == models.JournalContract && !res.Recorded {
		e.Status = "unrecorded"
	}
	if err := g.Journal.Record(ctx, e); err != nil {
		log.Printf("[DOC][WARN] journal %s %q: %v", res.Kind, res.Number, err)
	}
}
