// Package dataset reads the records file exported by the invoicing front end:
// a JSON document with camelCase fields, ISO dates and money as plain numbers
// in major units.
//
//	{
//	  "profile":   {"companyName": "...", "siret": "...", "isVatExempt": false, "activityType": "services"},
//	  "clients":   [{"id": "c1", "name": "Dupont SARL"}],
//	  "suppliers": [{"id": "s1", "name": "Logiciels SA"}],
//	  "invoices":  [{"id": "i1", "type": "invoice", "number": "FAC-2025-0001", "clientId": "c1",
//	                 "issueDate": "2025-02-01", "subtotal": 1000, "taxAmount": 200, "total": 1200,
//	                 "status": "paid", "updatedAt": "2025-02-20T09:30:00Z"}],
//	  "expenses":  [{"id": "e1", "date": "2025-02-10", "description": "...", "category": "Services",
//	                 "amount": 120, "vatAmount": 20, "supplierId": "s1", "status": "validated"}]
//	}
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"microgestion/pkg/models"
	"microgestion/pkg/money"
)

// ErrInvalidDate is returned when a date field is not ISO formatted.
var ErrInvalidDate = errors.New("invalid ISO date")

type fileProfile struct {
	CompanyName  string `json:"companyName"`
	Siret        string `json:"siret"`
	IsVATExempt  bool   `json:"isVatExempt"`
	ActivityType string `json:"activityType"`
	Currency     string `json:"currency"`
}

type fileParty struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type fileInvoice struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Number    string       `json:"number"`
	ClientID  string       `json:"clientId"`
	IssueDate string       `json:"issueDate"`
	DueDate   string       `json:"dueDate"`
	UpdatedAt string       `json:"updatedAt"`
	Subtotal  money.Amount `json:"subtotal"`
	TaxAmount money.Amount `json:"taxAmount"`
	Total     money.Amount `json:"total"`
	Status    string       `json:"status"`
}

type fileExpense struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	SupplierID  string       `json:"supplierId"`
	Amount      money.Amount `json:"amount"`
	VATAmount   money.Amount `json:"vatAmount"`
	Status      string       `json:"status"`
	ReversalOf  string       `json:"reversalOf"`
}

type file struct {
	Profile   fileProfile   `json:"profile"`
	Clients   []fileParty   `json:"clients"`
	Suppliers []fileParty   `json:"suppliers"`
	Invoices  []fileInvoice `json:"invoices"`
	Expenses  []fileExpense `json:"expenses"`
}

// Decode reads a records file.
func Decode(r io.Reader) (*models.Records, error) {
	const op = "dataset.Decode"

	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%s: failed to decode JSON: %w", op, err)
	}

	records := &models.Records{
		Profile: models.UserFiscalProfile{
			CompanyName:        f.Profile.CompanyName,
			RegistrationNumber: f.Profile.Siret,
			IsVATExempt:        f.Profile.IsVATExempt,
			ActivityType:       models.ActivityType(f.Profile.ActivityType),
			Currency:           f.Profile.Currency,
		},
		Clients:   make([]models.Client, 0, len(f.Clients)),
		Suppliers: make([]models.Supplier, 0, len(f.Suppliers)),
		Invoices:  make([]models.Invoice, 0, len(f.Invoices)),
		Expenses:  make([]models.Expense, 0, len(f.Expenses)),
	}
	if records.Profile.Currency == "" {
		records.Profile.Currency = "EUR"
	}

	for _, c := range f.Clients {
		records.Clients = append(records.Clients, models.Client{ID: c.ID, Name: c.Name, Email: c.Email})
	}
	for _, s := range f.Suppliers {
		records.Suppliers = append(records.Suppliers, models.Supplier{ID: s.ID, Name: s.Name, Email: s.Email})
	}

	for _, in := range f.Invoices {
		inv := models.Invoice{
			ID:        in.ID,
			Number:    in.Number,
			Type:      models.DocumentType(in.Type),
			ClientID:  in.ClientID,
			Subtotal:  in.Subtotal,
			TaxAmount: in.TaxAmount,
			Total:     in.Total,
			Status:    models.InvoiceStatus(in.Status),
		}
		var err error
		if inv.IssueDate, err = ParseDate(in.IssueDate); err != nil {
			return nil, fmt.Errorf("%s: invoice %s issueDate: %w", op, in.ID, err)
		}
		if inv.DueDate, err = ParseDate(in.DueDate); err != nil {
			return nil, fmt.Errorf("%s: invoice %s dueDate: %w", op, in.ID, err)
		}
		if inv.UpdatedAt, err = ParseDate(in.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: invoice %s updatedAt: %w", op, in.ID, err)
		}
		records.Invoices = append(records.Invoices, inv)
	}

	for _, in := range f.Expenses {
		date, err := ParseDate(in.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: expense %s date: %w", op, in.ID, err)
		}
		records.Expenses = append(records.Expenses, models.Expense{
			ID:          in.ID,
			Date:        date,
			Description: in.Description,
			Category:    in.Category,
			SupplierID:  in.SupplierID,
			Amount:      in.Amount,
			VATAmount:   in.VATAmount,
			Status:      models.ExpenseStatus(in.Status),
			ReversalOf:  in.ReversalOf,
		})
	}

	return records, nil
}

// ParseDate reads "YYYY-MM-DD" or a full ISO timestamp, keeping the calendar
// date only. An empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) < 10 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// File is a RecordProvider backed by a records file on disk.
type File struct {
	Path string
}

// LoadRecords implements services.RecordProvider.
func (f File) LoadRecords(ctx context.Context) (*models.Records, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to open %s: %w", f.Path, err)
	}
	defer fh.Close()

	return Decode(fh)
}
