package ledger

import (
	"regexp"

	"microgestion/pkg/models"
)

var trailingDigits = regexp.MustCompile(`(\d+)\D*$`)

// thirdPartySide returns the side of the client line for a document type, and
// false for types that produce no postings.
func thirdPartySide(t models.DocumentType) (models.Side, string, bool) {
	switch t {
	case models.DocumentInvoice:
		return models.DebitSide, "Facture", true
	case models.DocumentCreditNote:
		return models.CreditSide, "Avoir", true
	case models.DocumentQuote, models.DocumentOrder:
		return 0, "", false
	}
	return 0, "", false
}

func (g *Generator) postInvoice(inv *models.Invoice, profile *models.UserFiscalProfile, clients map[string]string) []models.AccountingEntry {
	side, kind, ok := thirdPartySide(inv.Type)
	if !ok {
		return nil
	}

	name := clients[inv.ClientID]
	if name == "" {
		name = UnknownClientLabel
	}

	roles := g.chart.Roles()
	total := inv.Total.Abs()
	tax := inv.TaxAmount.Abs()
	revenue := inv.Subtotal.Abs()
	if profile.IsVATExempt {
		revenue = total
	}

	doc := newDocument(g.chart, "INV-"+inv.ID, inv.IssueDate, kind+" "+inv.Number+" - "+name, inv.Number)

	doc.add(line{
		Journal:         models.JournalSales,
		Account:         roles.Client,
		Side:            side,
		Amount:          total,
		ThirdParty:      inv.ClientID,
		ThirdPartyLabel: name,
	})
	doc.add(line{
		Journal: models.JournalSales,
		Account: g.chart.RevenueAccount(profile.ActivityType),
		Side:    side.Opposite(),
		Amount:  revenue,
	})
	if !profile.IsVATExempt && tax.IsPositive() {
		doc.add(line{
			Journal: models.JournalSales,
			Account: roles.VATCollected,
			Side:    side.Opposite(),
			Amount:  tax,
		})
	}

	if inv.Status == models.InvoicePaid {
		settled := inv.SettlementDate()
		label := "Règlement " + inv.Number + " - " + name
		tag := LetteringTag(inv)

		doc.add(line{
			Journal:   models.JournalBank,
			Date:      settled,
			Account:   roles.Bank,
			Side:      side,
			Amount:    total,
			Label:     label,
			Lettering: tag,
		})
		doc.add(line{
			Journal:         models.JournalBank,
			Date:            settled,
			Account:         roles.Client,
			Side:            side.Opposite(),
			Amount:          total,
			ThirdParty:      inv.ClientID,
			ThirdPartyLabel: name,
			Label:           label,
			Lettering:       tag,
		})
	}

	return doc.entries
}

// LetteringTag returns the reconciliation tag of a paid document: the last run
// of digits in its number ("FAC-2025-0012" gives "0012"). Numbers without
// digits use the whole number, and documents without a number use their id.
func LetteringTag(inv *models.Invoice) string {
	if inv.Number == "" {
		return inv.ID
	}
	if m := trailingDigits.FindStringSubmatch(inv.Number); m != nil {
		return m[1]
	}
	return inv.Number
}
