package ledger

import (
	"sort"
	"time"

	"microgestion/pkg/models"
	"microgestion/pkg/money"
)

// Imbalance reports a source document whose lines do not balance.
type Imbalance struct {
	SourceDocumentID string
	Debit            money.Amount
	Credit           money.Amount
}

// Difference returns Debit - Credit.
func (i Imbalance) Difference() money.Amount {
	return i.Debit.Sub(i.Credit)
}

// AccountBalance aggregates the postings of one account.
type AccountBalance struct {
	Account string
	Label   string
	Debit   money.Amount
	Credit  money.Amount
}

// Balance returns Debit - Credit.
func (b AccountBalance) Balance() money.Amount {
	return b.Debit.Sub(b.Credit)
}

// Totals returns the sum of all debits and credits.
func Totals(entries []models.AccountingEntry) (debit, credit money.Amount) {
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}

// CheckBalance returns every source document whose debits and credits differ,
// in order of first appearance. An empty result means the ledger balances.
func CheckBalance(entries []models.AccountingEntry) []Imbalance {
	var order []string
	sums := make(map[string]*Imbalance)
	for _, e := range entries {
		s, ok := sums[e.SourceDocumentID]
		if !ok {
			s = &Imbalance{SourceDocumentID: e.SourceDocumentID}
			sums[e.SourceDocumentID] = s
			order = append(order, e.SourceDocumentID)
		}
		s.Debit = s.Debit.Add(e.Debit)
		s.Credit = s.Credit.Add(e.Credit)
	}

	var out []Imbalance
	for _, id := range order {
		if s := sums[id]; !s.Debit.Equal(s.Credit) {
			out = append(out, *s)
		}
	}
	return out
}

// AccountBalances totals entries per account, sorted by account number.
func AccountBalances(entries []models.AccountingEntry) []AccountBalance {
	byAccount := make(map[string]*AccountBalance)
	for _, e := range entries {
		b, ok := byAccount[e.Account]
		if !ok {
			b = &AccountBalance{Account: e.Account, Label: e.AccountLabel}
			byAccount[e.Account] = b
		}
		b.Debit = b.Debit.Add(e.Debit)
		b.Credit = b.Credit.Add(e.Credit)
	}

	out := make([]AccountBalance, 0, len(byAccount))
	for _, b := range byAccount {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out
}

// FilterPeriod keeps the entries dated within [from, to]. A zero bound is open.
func FilterPeriod(entries []models.AccountingEntry, from, to time.Time) []models.AccountingEntry {
	from = civilDateOrZero(from)
	to = civilDateOrZero(to)

	out := make([]models.AccountingEntry, 0, len(entries))
	for _, e := range entries {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func civilDateOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return civilDate(t)
}
