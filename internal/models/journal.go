package models

import "time"

type JournalKind string

const (
	JournalContract      JournalKind = "contract"
	JournalInvoice       JournalKind = "invoice"
	JournalClientCreated JournalKind = "client_created"
	JournalClientUpdated JournalKind = "client_updated"
)

// JournalEntry records one completed (or failed) operation.
type JournalEntry struct {
	Kind           JournalKind
	ClientID       int
	FullName       string
	ContractNumber string
	FilePath       string
	ArchivePath    string
	Operator       string
	Status         string
	Error          string
	CreatedAt      time.Time
}
