// Package ledger turns sales documents and purchase expenses into double-entry
// posting lines.
//
// The ledger is never stored: it is recomputed from the current state of the
// records every time it is needed. Generation is a pure function of its input
// and is safe to call concurrently.
//
// Sales documents (journal VT):
//   - invoice: debit client, credit revenue and collected VAT
//   - credit note: the same lines with debit and credit swapped
//   - quote, order: no postings
//   - paid: an extra bank/client pair on journal BQ, lettered with the
//     numeric suffix of the document number
//
// Purchase expenses (journal AC):
//   - validated: debit charge and deductible VAT, credit supplier, then a
//     BQ pair settling the supplier on the same date
//   - cancelled: charge, VAT and supplier lines with sides swapped, no BQ pair
package ledger

import (
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"microgestion/internal/chart"
	"microgestion/internal/logger"
	"microgestion/pkg/models"
	"microgestion/pkg/money"
)

// Fallback counterparty labels for unknown references.
const (
	UnknownClientLabel   = "Client Divers"
	UnknownSupplierLabel = "Fournisseur Divers"
)

// Generator builds ledger entries against a chart of accounts.
type Generator struct {
	chart *chart.Chart
	log   zerolog.Logger
}

// NewGenerator creates a generator using the given chart. A nil chart means chart.Default().
func NewGenerator(c *chart.Chart) *Generator {
	if c == nil {
		c = chart.Default()
	}
	return &Generator{
		chart: c,
		log:   logger.WithComponent("ledger"),
	}
}

// Generate computes the entries for every invoice and expense in records,
// sorted by date. Entries sharing a date keep their emission order: invoices
// first, then expenses, each document's lines together.
func Generate(records *models.Records) []models.AccountingEntry {
	return NewGenerator(nil).Generate(records)
}

// Generate computes the ledger entries for records. It never fails: missing
// client or supplier references fall back to generic labels.
func (g *Generator) Generate(records *models.Records) []models.AccountingEntry {
	if records == nil {
		return []models.AccountingEntry{}
	}

	clients := make(map[string]string, len(records.Clients))
	for _, c := range records.Clients {
		clients[c.ID] = c.Name
	}
	suppliers := make(map[string]string, len(records.Suppliers))
	for _, s := range records.Suppliers {
		suppliers[s.ID] = s.Name
	}

	entries := make([]models.AccountingEntry, 0, 5*(len(records.Invoices)+len(records.Expenses)))
	for i := range records.Invoices {
		entries = append(entries, g.postInvoice(&records.Invoices[i], &records.Profile, clients)...)
	}
	for i := range records.Expenses {
		entries = append(entries, g.postExpense(&records.Expenses[i], suppliers)...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	g.log.Debug().
		Int("invoices", len(records.Invoices)).
		Int("expenses", len(records.Expenses)).
		Int("entries", len(entries)).
		Msg("Ledger generated")

	return entries
}

// document accumulates the lines of one source document.
type document struct {
	id        string
	date      time.Time
	label     string
	reference string
	chart     *chart.Chart
	entries   []models.AccountingEntry
}

// line describes one posting; zero Date and empty Label inherit the document's.
type line struct {
	Journal         models.JournalCode
	Date            time.Time
	Account         string
	Side            models.Side
	Amount          money.Amount
	ThirdParty      string
	ThirdPartyLabel string
	Label           string
	Lettering       string
}

func newDocument(c *chart.Chart, id string, date time.Time, label, reference string) *document {
	return &document{
		id:        id,
		date:      civilDate(date),
		label:     label,
		reference: reference,
		chart:     c,
	}
}

func (d *document) add(l line) {
	date := d.date
	if !l.Date.IsZero() {
		date = civilDate(l.Date)
	}
	label := d.label
	if l.Label != "" {
		label = l.Label
	}

	e := models.AccountingEntry{
		ID:               d.id + "-" + strconv.Itoa(len(d.entries)+1),
		SourceDocumentID: d.id,
		Date:             date,
		Journal:          l.Journal,
		Account:          l.Account,
		AccountLabel:     d.chart.Label(l.Account),
		ThirdParty:       l.ThirdParty,
		ThirdPartyLabel:  l.ThirdPartyLabel,
		Label:            label,
		Reference:        d.reference,
		Lettering:        l.Lettering,
	}
	if l.Side == models.DebitSide {
		e.Debit = l.Amount
	} else {
		e.Credit = l.Amount
	}
	d.entries = append(d.entries, e)
}

// civilDate drops the time of day so entries order by calendar date only.
func civilDate(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
