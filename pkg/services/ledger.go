package services

import (
	"context"
	"time"

	"microgestion/pkg/models"
)

// RecordProvider supplies the validated domain records a ledger is computed from.
type RecordProvider interface {
	// LoadRecords returns a snapshot of all invoices, expenses, parties and the fiscal profile.
	LoadRecords(ctx context.Context) (*models.Records, error)
}

// AuditLogger records user-visible actions such as exports.
type AuditLogger interface {
	RecordAudit(ctx context.Context, entry AuditEntry) error
}

// LedgerSink receives a copy of an exported ledger (e.g. a spreadsheet).
type LedgerSink interface {
	WriteLedger(ctx context.Context, entries []models.AccountingEntry, name string) error
}

// AuditEntry is one audit log line.
type AuditEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// Audit actions
const (
	AuditActionFECExport    = "FEC_EXPORT"
	AuditActionRecordImport = "RECORD_IMPORT"
)
