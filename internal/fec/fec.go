// Package fec writes ledger entries as a Fichier des Écritures Comptables, the
// French statutory accounting exchange file.
//
// Format:
//   - UTF-8, tab separated, lines joined with CRLF (no trailing terminator)
//   - a fixed 18-column header line
//   - dates as YYYYMMDD, amounts with two decimals and a comma separator
//   - EcritureNum numbers runs of consecutive lines from the same source document
//
// Serialization never fails and performs no balance validation.
package fec

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"microgestion/internal/chart"
	"microgestion/pkg/models"
	"microgestion/pkg/money"
)

const (
	Separator      = "\t"
	LineTerminator = "\r\n"
	Currency       = "EUR"
	DateLayout     = "20060102"

	// FallbackSiren replaces a missing registration number in filenames.
	FallbackSiren = "000000000"
)

// Header lists the FEC columns in their mandatory order.
var Header = []string{
	"JournalCode",
	"JournalLib",
	"EcritureNum",
	"EcritureDate",
	"CompteNum",
	"CompteLib",
	"CompteAuxNum",
	"CompteAuxLib",
	"PieceRef",
	"PieceDate",
	"EcritureLib",
	"Debit",
	"Credit",
	"EcritureLet",
	"DateLet",
	"ValidDate",
	"MontantDevise",
	"IdenDevise",
}

// Serializer renders entries, resolving journal labels through a chart.
type Serializer struct {
	chart *chart.Chart
}

// NewSerializer creates a serializer. A nil chart means chart.Default().
func NewSerializer(c *chart.Chart) *Serializer {
	if c == nil {
		c = chart.Default()
	}
	return &Serializer{chart: c}
}

// Serialize renders entries with the default chart.
func Serialize(entries []models.AccountingEntry) string {
	return NewSerializer(nil).Serialize(entries)
}

// Serialize renders the complete file content.
func (s *Serializer) Serialize(entries []models.AccountingEntry) string {
	var b strings.Builder
	// Writes to a strings.Builder cannot fail.
	_ = s.Write(&b, entries)
	return b.String()
}

// Write streams the file content to w.
func (s *Serializer) Write(w io.Writer, entries []models.AccountingEntry) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(strings.Join(Header, Separator))

	seq := 0
	prev := ""
	for i := range entries {
		e := &entries[i]
		if i == 0 || e.SourceDocumentID != prev {
			seq++
			prev = e.SourceDocumentID
		}
		bw.WriteString(LineTerminator)
		bw.WriteString(strings.Join(s.row(e, seq), Separator))
	}

	return bw.Flush()
}

func (s *Serializer) row(e *models.AccountingEntry, seq int) []string {
	date := FormatDate(e.Date)

	lettering, letteringDate := "", ""
	if e.Lettering != "" {
		lettering = e.Lettering
		letteringDate = date
	}

	return []string{
		string(e.Journal),
		clean(s.chart.JournalLabel(e.Journal)),
		strconv.Itoa(seq),
		date,
		e.Account,
		clean(e.AccountLabel),
		clean(e.ThirdParty),
		clean(e.ThirdPartyLabel),
		clean(e.Reference),
		date,
		clean(e.Label),
		FormatAmount(e.Debit),
		FormatAmount(e.Credit),
		clean(lettering),
		letteringDate,
		date,
		"",
		Currency,
	}
}

// FormatDate renders a date as YYYYMMDD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatAmount renders an amount with two decimals and a comma separator.
func FormatAmount(a money.Amount) string {
	return a.Fixed(2, ",")
}

// clean keeps free text on a single field.
func clean(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\r', '\n':
			return ' '
		}
		return r
	}, s)
}

// Filename returns the statutory file name {SIREN}FEC{YYYYMMDD}.txt. The SIREN
// is the first nine digits of the registration number (a SIRET starts with its
// SIREN); FallbackSiren is used when fewer than nine digits are available.
func Filename(registrationNumber string, closing time.Time) string {
	digits := make([]byte, 0, 9)
	for i := 0; i < len(registrationNumber) && len(digits) < 9; i++ {
		if c := registrationNumber[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}

	siren := FallbackSiren
	if len(digits) == 9 {
		siren = string(digits)
	}
	return siren + "FEC" + FormatDate(closing) + ".txt"
}
