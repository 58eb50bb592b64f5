package dataset_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgestion/internal/dataset"
	"microgestion/pkg/models"
	"microgestion/pkg/money"
)

const sample = `{
  "profile": {"companyName": "Atelier Martin", "siret": "12345678900012", "isVatExempt": false, "activityType": "services"},
  "clients": [{"id": "c1", "name": "Dupont SARL", "email": "compta@dupont.fr"}],
  "suppliers": [{"id": "s1", "name": "Logiciels SA"}],
  "invoices": [
    {"id": "i1", "type": "invoice", "number": "FAC-2025-0001", "clientId": "c1",
     "issueDate": "2025-02-01", "dueDate": "2025-03-01", "updatedAt": "2025-02-20T09:30:00.000Z",
     "subtotal": 1000, "taxAmount": 200, "total": 1200.10, "status": "paid"}
  ],
  "expenses": [
    {"id": "e1", "date": "2025-02-10", "description": "Licence", "category": "Services",
     "amount": 120, "vatAmount": 20, "supplierId": "s1", "status": "cancelled", "reversalOf": "e0"}
  ]
}`

func TestDecode(t *testing.T) {
	records, err := dataset.Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "12345678900012", records.Profile.RegistrationNumber)
	assert.Equal(t, models.ActivityServices, records.Profile.ActivityType)
	assert.Equal(t, "EUR", records.Profile.Currency)
	require.Len(t, records.Clients, 1)
	assert.Equal(t, "compta@dupont.fr", records.Clients[0].Email)
	require.Len(t, records.Suppliers, 1)

	require.Len(t, records.Invoices, 1)
	inv := records.Invoices[0]
	assert.Equal(t, models.DocumentInvoice, inv.Type)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.Equal(t, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), inv.UpdatedAt)
	assert.True(t, inv.Total.Equal(money.MustParse("1200.10")))

	require.Len(t, records.Expenses, 1)
	exp := records.Expenses[0]
	assert.True(t, exp.IsCancelled())
	assert.Equal(t, "e0", exp.ReversalOf)
	assert.True(t, exp.NetAmount().Equal(money.FromInt(100)))
}

func TestDecodeRejectsBadDates(t *testing.T) {
	_, err := dataset.Decode(strings.NewReader(`{"expenses": [{"id": "e1", "date": "10/02/2025"}]}`))
	assert.ErrorIs(t, err, dataset.ErrInvalidDate)

	_, err = dataset.Decode(strings.NewReader(`{"invoices": [{"id": "i1", "issueDate": "2025"}]}`))
	assert.ErrorIs(t, err, dataset.ErrInvalidDate)

	_, err = dataset.Decode(strings.NewReader(`{"invoices": `))
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := dataset.ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = dataset.ParseDate("2025-12-31T23:59:59+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", d.Format("2006-01-02"))
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	records, err := dataset.File{Path: path}.LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records.Invoices, 1)

	_, err = dataset.File{Path: filepath.Join(t.TempDir(), "nope.json")}.LoadRecords(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dataset.File{Path: path}.LoadRecords(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
