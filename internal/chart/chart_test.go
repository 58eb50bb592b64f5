package chart_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgestion/internal/chart"
	"microgestion/pkg/models"
)

func TestDefaultChargeAccounts(t *testing.T) {
	c := chart.Default()

	cases := map[string]string{
		"Services":     "651000",
		"Restaurant":   "625700",
		"Deplacements": "625100",
		"Loyer":        "613000",
	}
	for category, want := range cases {
		account, mapped := c.ChargeAccount(category)
		assert.True(t, mapped, category)
		assert.Equal(t, want, account, category)
	}

	account, mapped := c.ChargeAccount("Fournitures")
	assert.False(t, mapped)
	assert.Equal(t, "606000", account)
}

func TestRevenueAccount(t *testing.T) {
	c := chart.Default()

	assert.Equal(t, "707000", c.RevenueAccount(models.ActivitySales))
	assert.Equal(t, "706000", c.RevenueAccount(models.ActivityServices))
	assert.Equal(t, "706000", c.RevenueAccount(models.ActivityMixed))
}

func TestLabels(t *testing.T) {
	c := chart.Default()

	assert.Equal(t, "Clients", c.Label("411000"))
	assert.Equal(t, "999999", c.Label("999999"))
	assert.Equal(t, "Journal de banque", c.JournalLabel(models.JournalBank))
	assert.Equal(t, "XX", c.JournalLabel("XX"))
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := chart.Parse([]byte(`
accounts:
  "618500": "Frais de formation"
roles:
  default_charge: "618500"
  bank: "512100"
categories:
  Formation: "618500"
  Loyer: "613200"
journals:
  bq: "Banque principale"
`))
	require.NoError(t, err)

	account, mapped := c.ChargeAccount("Formation")
	assert.True(t, mapped)
	assert.Equal(t, "618500", account)

	account, _ = c.ChargeAccount("Loyer")
	assert.Equal(t, "613200", account)

	account, mapped = c.ChargeAccount("Inconnue")
	assert.False(t, mapped)
	assert.Equal(t, "618500", account)

	roles := c.Roles()
	assert.Equal(t, "512100", roles.Bank)
	assert.Equal(t, "411000", roles.Client)
	assert.Equal(t, "Frais de formation", c.Label("618500"))
	assert.Equal(t, "Banque principale", c.JournalLabel(models.JournalBank))

	// Overrides never leak into other charts.
	def, _ := chart.Default().ChargeAccount("Loyer")
	assert.Equal(t, "613000", def)
}

func TestParseRejectsBadAccounts(t *testing.T) {
	_, err := chart.Parse([]byte("roles:\n  bank: \"51A\"\n"))
	assert.Error(t, err)

	_, err = chart.Parse([]byte("categories:\n  Loyer: \"\"\n"))
	assert.Error(t, err)

	_, err = chart.Parse([]byte("accounts: [1, 2"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  Logiciels: \"651000\"\n"), 0o600))

	c, err := chart.LoadFile(path)
	require.NoError(t, err)
	account, mapped := c.ChargeAccount("Logiciels")
	assert.True(t, mapped)
	assert.Equal(t, "651000", account)

	_, err = chart.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
