package ledger

import (
	"microgestion/pkg/models"
)

func (g *Generator) postExpense(exp *models.Expense, suppliers map[string]string) []models.AccountingEntry {
	name := suppliers[exp.SupplierID]
	if name == "" {
		name = UnknownSupplierLabel
	}

	cancelled := exp.IsCancelled()
	side := models.DebitSide
	if cancelled {
		side = models.CreditSide
	}

	account, mapped := g.chart.ChargeAccount(exp.Category)
	if !mapped {
		g.log.Warn().
			Str("expense_id", exp.ID).
			Str("category", exp.Category).
			Str("account", account).
			Msg("Unmapped expense category, using default charge account")
	}

	roles := g.chart.Roles()
	amount := exp.Amount.Abs()
	vat := exp.VATAmount.Abs()
	net := amount.Sub(vat)

	label := exp.Description
	if label == "" {
		label = exp.Category
	}
	if cancelled {
		label = "Annulation " + label
		if exp.ReversalOf != "" {
			label += " (" + exp.ReversalOf + ")"
		}
	}

	doc := newDocument(g.chart, "EXP-"+exp.ID, exp.Date, label, exp.ID)

	doc.add(line{
		Journal: models.JournalPurchases,
		Account: account,
		Side:    side,
		Amount:  net,
	})
	if vat.IsPositive() {
		doc.add(line{
			Journal: models.JournalPurchases,
			Account: roles.VATDeductible,
			Side:    side,
			Amount:  vat,
		})
	}
	doc.add(line{
		Journal:         models.JournalPurchases,
		Account:         roles.Supplier,
		Side:            side.Opposite(),
		Amount:          amount,
		ThirdParty:      exp.SupplierID,
		ThirdPartyLabel: name,
	})

	// Expenses are settled on their recorded date.
	if !cancelled {
		settle := "Paiement " + label
		doc.add(line{
			Journal: models.JournalBank,
			Account: roles.Bank,
			Side:    models.CreditSide,
			Amount:  amount,
			Label:   settle,
		})
		doc.add(line{
			Journal:         models.JournalBank,
			Account:         roles.Supplier,
			Side:            models.DebitSide,
			Amount:          amount,
			ThirdParty:      exp.SupplierID,
			ThirdPartyLabel: name,
			Label:           settle,
		})
	}

	return doc.entries
}
