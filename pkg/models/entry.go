package models

import (
	"time"

	"microgestion/pkg/money"
)

// JournalCode classifies postings.
type JournalCode string

const (
	JournalSales     JournalCode = "VT"
	JournalPurchases JournalCode = "AC"
	JournalBank      JournalCode = "BQ"
	JournalMisc      JournalCode = "OD"
)

// AccountingEntry is one posting line of the double-entry ledger.
// At most one of Debit and Credit is nonzero and neither is negative.
type AccountingEntry struct {
	ID               string       `json:"id"`
	SourceDocumentID string       `json:"source_document_id"`
	Date             time.Time    `json:"date"`
	Journal          JournalCode  `json:"journal"`
	Account          string       `json:"account"`
	AccountLabel     string       `json:"account_label"`
	ThirdParty       string       `json:"third_party,omitempty"`
	ThirdPartyLabel  string       `json:"third_party_label,omitempty"`
	Debit            money.Amount `json:"debit"`
	Credit           money.Amount `json:"credit"`
	Label            string       `json:"label"`
	Reference        string       `json:"reference"`
	Lettering        string       `json:"lettering,omitempty"`
}

// Side is the side of a posting.
type Side int

const (
	DebitSide Side = iota
	CreditSide
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == DebitSide {
		return CreditSide
	}
	return DebitSide
}

func (s Side) String() string {
	if s == DebitSide {
		return "debit"
	}
	return "credit"
}
