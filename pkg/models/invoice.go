package models

import (
	"time"

	"microgestion/pkg/money"
)

// DocumentType is the kind of sales document.
type DocumentType string

const (
	DocumentInvoice    DocumentType = "invoice"
	DocumentQuote      DocumentType = "quote"
	DocumentOrder      DocumentType = "order"
	DocumentCreditNote DocumentType = "credit_note"
)

// DocumentTypes lists every document type.
var DocumentTypes = []DocumentType{DocumentInvoice, DocumentQuote, DocumentOrder, DocumentCreditNote}

// InvoiceStatus is the lifecycle state of a sales document.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type Invoice struct {
	// Core identifiers
	ID     string       // Unique document identifier
	Number string       // Human-readable number, e.g. "FAC-2025-0012"
	Type   DocumentType // invoice, quote, order or credit_note

	// Parties
	ClientID string // Reference to Client.ID

	// Dates
	IssueDate time.Time // Date the document was issued
	DueDate   time.Time // Payment due date
	UpdatedAt time.Time // Last update; zero if never updated

	// Amounts in major units
	Subtotal  money.Amount // Amount before tax
	TaxAmount money.Amount // VAT amount
	Total     money.Amount // Subtotal + TaxAmount

	Status InvoiceStatus
}

// SettlementDate is the date a paid invoice is considered settled: the last
// update, or the issue date when the document was never updated.
func (inv *Invoice) SettlementDate() time.Time {
	if inv.UpdatedAt.IsZero() {
		return inv.IssueDate
	}
	return inv.UpdatedAt
}
