package models

import (
	"time"

	"microgestion/pkg/money"
)

// ExpenseStatus is the lifecycle state of a purchase expense.
type ExpenseStatus string

const (
	ExpenseValidated ExpenseStatus = "validated"
	ExpenseCancelled ExpenseStatus = "cancelled"
)

type Expense struct {
	ID          string
	Date        time.Time
	Description string
	Category    string // Expense category, mapped to a charge account by the chart
	SupplierID  string // Reference to Supplier.ID

	Amount    money.Amount // Amount including VAT
	VATAmount money.Amount // Deductible VAT part of Amount

	Status ExpenseStatus

	// ReversalOf references the expense this record cancels, when it is an
	// explicit reversal record. Empty otherwise.
	ReversalOf string
}

// IsCancelled reports whether the expense is cancelled.
func (e *Expense) IsCancelled() bool {
	return e.Status == ExpenseCancelled
}

// NetAmount returns Amount - VATAmount.
func (e *Expense) NetAmount() money.Amount {
	return e.Amount.Sub(e.VATAmount)
}
