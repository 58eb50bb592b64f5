package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgestion/pkg/models"
	"microgestion/pkg/money"
)

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-dEf_123", id)

	_, err = extractSpreadsheetID("https://example.com/sheet")
	assert.Error(t, err)
}

func TestEntryToValues(t *testing.T) {
	e := models.AccountingEntry{
		Date:            time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Journal:         models.JournalSales,
		Account:         "411000",
		AccountLabel:    "Clients",
		ThirdParty:      "c1",
		ThirdPartyLabel: "Dupont SARL",
		Label:           "Facture FAC-1",
		Reference:       "FAC-1",
		Debit:           money.MustParse("1234.5"),
	}

	values := entryToValues(&e)
	require.Len(t, values, len(headers))
	assert.Equal(t, "VT", values[0])
	assert.Equal(t, "01/02/2025", values[1])
	assert.Equal(t, "FAC-1", values[2])
	assert.Equal(t, "1234.50", values[8])
	assert.Equal(t, "0.00", values[9])
	assert.Equal(t, "", values[10])
}

func TestNewSheetsServiceNeedsCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("GOOGLE_CREDENTIALS", "")

	_, err := NewSheetsService(context.Background(), "https://docs.google.com/spreadsheets/d/abc/edit")
	assert.ErrorContains(t, err, "GOOGLE_CREDENTIALS")

	_, err = NewSheetsService(context.Background(), "not a sheet url")
	assert.ErrorContains(t, err, "spreadsheet ID")
}
