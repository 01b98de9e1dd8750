package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autocontract/internal/adapters/archive"
	"autocontract/internal/adapters/opener"
	"autocontract/internal/adapters/templates"
	"autocontract/internal/config"
	"autocontract/internal/handlers"
	"autocontract/internal/repository"
	"autocontract/internal/repository/journal"
	"autocontract/internal/repository/spreadsheet"
	"autocontract/internal/server"
	"autocontract/internal/services/clients"
	"autocontract/internal/services/documents"
	"autocontract/internal/services/registry"
	"autocontract/internal/services/render"
	"autocontract/internal/transport/auth"
)

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.Init(setupCtx)
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Println("✅ Configuration loaded")

	// Missing workbooks are created on first write, so this is not fatal.
	if err := cfg.CheckConnections(setupCtx); err != nil {
		log.Printf("[BOOT][WARN] %v", err)
	} else {
		fmt.Println("🟢 All connections OK")
	}

	clientStore := spreadsheet.NewClientsRepo(cfg.Paths.ClientsDB, cfg.Paths.ClientsSheet)
	contractStore := spreadsheet.NewContractsRepo(cfg.Paths.ContractsDB, cfg.Paths.ContractsSheet)
	numbering := registry.NewNumbering(clientStore, contractStore, cfg.ContractSuffix)

	var s3Opener *opener.S3Opener
	if cfg.S3 != nil {
		s3Opener = opener.NewS3Opener(cfg.S3.Client)
	}
	op := opener.NewCompoundOpener(opener.NewFileOpener(), opener.NewHTTPOpener(&http.Client{Timeout: 30 * time.Second}), s3Opener)

	gen := documents.NewGenerator(render.NewRenderer(op), numbering, contractStore, documents.Settings{
		OutputDir:           cfg.Paths.OutputDir,
		ContractTemplate:    cfg.Paths.ContractTemplate,
		InvoiceTemplate:     cfg.Paths.InvoiceTemplate,
		InvoiceCardTemplate: cfg.Paths.InvoiceCardTemplate,
		AppName:             cfg.AppName,
		Currency:            cfg.Currency,
		Company:             cfg.Company,
	})
	clientSvc := clients.NewService(clientStore, numbering)

	h := handlers.New(clientSvc, gen, numbering, cfg.CheckConnections)
	tplLocations := map[string]string{
		templates.KindContract:    cfg.Paths.ContractTemplate,
		templates.KindInvoice:     cfg.Paths.InvoiceTemplate,
		templates.KindInvoiceCard: cfg.Paths.InvoiceCardTemplate,
	}

	// Interfaces are only assigned when the backing connection exists.
	if cfg.S3 != nil {
		gen.Archive = archive.NewS3Archiver(cfg.S3.Client, cfg.S3.Bucket, cfg.ArchivePrefix)
		h.Templates = templates.NewStore(tplLocations, cfg.S3.Client)
	} else {
		h.Templates = templates.NewStore(tplLocations, nil)
	}
	if cfg.Mongo != nil {
		j := journal.New(cfg.Mongo)
		gen.Journal, clientSvc.Journal, h.Journal = j, j, j
		defer cfg.Mongo.Close(context.Background())
	}
	var tokens auth.TokenRepo
	if cfg.Postgres != nil {
		tokens = repository.NewTokenRepository(cfg.Postgres)
		defer cfg.Postgres.Close()
	}

	log.Printf("[BOOT] port=%s clients=%q registry=%q output=%q auth=%v journal=%v archive=%v",
		cfg.Port, cfg.Paths.ClientsDB, cfg.Paths.ContractsDB, cfg.Paths.OutputDir,
		tokens != nil, cfg.Mongo != nil, cfg.S3 != nil)

	srv := server.NewServer(cfg.Port, h, tokens)
	if err := srv.Run(runCtx); err != nil {
		log.Fatal(err)
	}
}
