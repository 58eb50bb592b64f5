package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgestion/internal/ledger"
	"microgestion/internal/store"
	"microgestion/pkg/models"
	"microgestion/pkg/money"
	"microgestion/pkg/services"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() *models.Records {
	return &models.Records{
		Profile: models.UserFiscalProfile{
			CompanyName:        "Atelier Martin",
			RegistrationNumber: "12345678900012",
			ActivityType:       models.ActivitySales,
			Currency:           "EUR",
		},
		Clients:   []models.Client{{ID: "c1", Name: "Dupont SARL"}},
		Suppliers: []models.Supplier{{ID: "s1", Name: "Logiciels SA", Email: "factures@logiciels.fr"}},
		Invoices: []models.Invoice{
			{
				ID: "i2", Number: "FAC-0002", Type: models.DocumentCreditNote, ClientID: "c1",
				IssueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				Subtotal:  money.MustParse("50"), TaxAmount: money.MustParse("10"), Total: money.MustParse("60"),
				Status: models.InvoiceSent,
			},
			{
				ID: "i1", Number: "FAC-0001", Type: models.DocumentInvoice, ClientID: "c1",
				IssueDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
				DueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC),
				Subtotal:  money.MustParse("1000.10"), TaxAmount: money.MustParse("200.02"), Total: money.MustParse("1200.12"),
				Status: models.InvoicePaid,
			},
		},
		Expenses: []models.Expense{{
			ID: "e1", Date: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), Description: "Licence",
			Category: "Services", SupplierID: "s1",
			Amount: money.MustParse("120"), VATAmount: money.MustParse("20"),
			Status: models.ExpenseCancelled, ReversalOf: "e0",
		}},
	}
}

func TestSaveAndLoadRecords(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.SaveRecords(ctx, sampleRecords()))

	got, err := s.LoadRecords(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Atelier Martin", got.Profile.CompanyName)
	assert.Equal(t, models.ActivitySales, got.Profile.ActivityType)
	assert.False(t, got.Profile.IsVATExempt)
	require.Len(t, got.Clients, 1)
	require.Len(t, got.Suppliers, 1)
	assert.Equal(t, "factures@logiciels.fr", got.Suppliers[0].Email)

	require.Len(t, got.Invoices, 2)
	inv := got.Invoices[0]
	assert.Equal(t, "i1", inv.ID)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.Equal(t, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), inv.UpdatedAt)
	assert.Equal(t, "1200.12", inv.Total.String())
	assert.True(t, got.Invoices[1].UpdatedAt.IsZero())
	assert.Equal(t, models.DocumentCreditNote, got.Invoices[1].Type)

	require.Len(t, got.Expenses, 1)
	assert.True(t, got.Expenses[0].IsCancelled())
	assert.Equal(t, "e0", got.Expenses[0].ReversalOf)
	assert.Equal(t, "20.00", got.Expenses[0].VATAmount.String())
}

func TestSaveRecordsUpserts(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	rec := sampleRecords()
	require.NoError(t, s.SaveRecords(ctx, rec))

	rec.Invoices[1].Status = models.InvoiceCancelled
	rec.Profile.IsVATExempt = true
	require.NoError(t, s.SaveRecords(ctx, rec))

	got, err := s.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Invoices, 2)
	assert.Equal(t, models.InvoiceCancelled, got.Invoices[0].Status)
	assert.True(t, got.Profile.IsVATExempt)
}

func TestStoredRecordsGiveSameLedger(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.SaveRecords(ctx, sampleRecords()))
	got, err := s.LoadRecords(ctx)
	require.NoError(t, err)

	want := ledger.Generate(sampleRecords())
	have := ledger.Generate(got)
	require.Len(t, have, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, have[i].ID)
		assert.True(t, want[i].Debit.Equal(have[i].Debit), want[i].ID)
		assert.True(t, want[i].Credit.Equal(have[i].Credit), want[i].ID)
	}
}

func TestLoadWithoutProfileUsesDefaults(t *testing.T) {
	s := openStore(t)

	got, err := s.LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ActivityServices, got.Profile.ActivityType)
	assert.Equal(t, "EUR", got.Profile.Currency)
	assert.Empty(t, got.Invoices)
}

func TestAuditLog(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.RecordAudit(ctx, services.AuditEntry{
		Action:    services.AuditActionRecordImport,
		Details:   "records.json",
		CreatedAt: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, s.RecordAudit(ctx, services.AuditEntry{
		Action:  services.AuditActionFECExport,
		Details: "123456789FEC20251231.txt",
	}))

	entries, err := s.ListAudit(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, services.AuditActionFECExport, entries[0].Action)
	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, services.AuditActionRecordImport, entries[1].Action)
	assert.True(t, entries[1].CreatedAt.Equal(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)))

	limited, err := s.ListAudit(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
