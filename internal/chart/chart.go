// Package chart holds the chart of accounts used by the ledger: the accounts
// playing fixed roles (client, bank, VAT...), the expense category table and
// the journal labels.
//
// A Chart is immutable once built. The default tables follow the French PCG;
// a YAML file can override or extend any of them:
//
//	accounts:
//	  "618000": "Divers"
//	roles:
//	  default_charge: "618000"
//	categories:
//	  Formation: "618500"
//	journals:
//	  OD: "Operations diverses"
package chart

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"microgestion/pkg/models"
)

// Roles names the account used for each fixed posting role.
type Roles struct {
	Client        string `yaml:"client"`
	Supplier      string `yaml:"supplier"`
	Bank          string `yaml:"bank"`
	SalesGoods    string `yaml:"sales_goods"`
	SalesServices string `yaml:"sales_services"`
	VATCollected  string `yaml:"vat_collected"`
	VATDeductible string `yaml:"vat_deductible"`
	DefaultCharge string `yaml:"default_charge"`
}

// Config is the YAML shape of a chart override. Empty values keep the defaults.
type Config struct {
	Accounts   map[string]string `yaml:"accounts"`
	Roles      Roles             `yaml:"roles"`
	Categories map[string]string `yaml:"categories"`
	Journals   map[string]string `yaml:"journals"`
}

// Chart is an immutable chart of accounts.
type Chart struct {
	roles      Roles
	labels     map[string]string
	categories map[string]string
	journals   map[models.JournalCode]string
}

var defaultRoles = Roles{
	Client:        "411000",
	Supplier:      "401000",
	Bank:          "512000",
	SalesGoods:    "707000",
	SalesServices: "706000",
	VATCollected:  "445710",
	VATDeductible: "445660",
	DefaultCharge: "606000",
}

var defaultLabels = map[string]string{
	"401000": "Fournisseurs",
	"411000": "Clients",
	"445660": "TVA déductible sur autres biens et services",
	"445710": "TVA collectée",
	"512000": "Banque",
	"606000": "Achats non stockés de matières et fournitures",
	"613000": "Locations",
	"625100": "Voyages et déplacements",
	"625700": "Réceptions",
	"651000": "Redevances pour concessions, brevets, licences",
	"706000": "Prestations de services",
	"707000": "Ventes de marchandises",
}

var defaultCategories = map[string]string{
	"Services":     "651000",
	"Restaurant":   "625700",
	"Deplacements": "625100",
	"Loyer":        "613000",
}

var defaultJournals = map[models.JournalCode]string{
	models.JournalSales:     "Journal des ventes",
	models.JournalPurchases: "Journal des achats",
	models.JournalBank:      "Journal de banque",
	models.JournalMisc:      "Opérations diverses",
}

// Default returns the built-in chart.
func Default() *Chart {
	c, _ := New(Config{})
	return c
}

// New builds a chart from the defaults overlaid with cfg.
func New(cfg Config) (*Chart, error) {
	const op = "chart.New"

	c := &Chart{
		roles:      defaultRoles,
		labels:     make(map[string]string, len(defaultLabels)+len(cfg.Accounts)),
		categories: make(map[string]string, len(defaultCategories)+len(cfg.Categories)),
		journals:   make(map[models.JournalCode]string, len(defaultJournals)),
	}
	for k, v := range defaultLabels {
		c.labels[k] = v
	}
	for k, v := range defaultCategories {
		c.categories[k] = v
	}
	for k, v := range defaultJournals {
		c.journals[k] = v
	}

	for number, label := range cfg.Accounts {
		if !isAccountNumber(number) {
			return nil, fmt.Errorf("%s: invalid account number %q", op, number)
		}
		c.labels[number] = label
	}

	overrides := []struct {
		name string
		src  string
		dst  *string
	}{
		{"client", cfg.Roles.Client, &c.roles.Client},
		{"supplier", cfg.Roles.Supplier, &c.roles.Supplier},
		{"bank", cfg.Roles.Bank, &c.roles.Bank},
		{"sales_goods", cfg.Roles.SalesGoods, &c.roles.SalesGoods},
		{"sales_services", cfg.Roles.SalesServices, &c.roles.SalesServices},
		{"vat_collected", cfg.Roles.VATCollected, &c.roles.VATCollected},
		{"vat_deductible", cfg.Roles.VATDeductible, &c.roles.VATDeductible},
		{"default_charge", cfg.Roles.DefaultCharge, &c.roles.DefaultCharge},
	}
	for _, o := range overrides {
		if o.src == "" {
			continue
		}
		if !isAccountNumber(o.src) {
			return nil, fmt.Errorf("%s: role %s: invalid account number %q", op, o.name, o.src)
		}
		*o.dst = o.src
	}

	for category, account := range cfg.Categories {
		if !isAccountNumber(account) {
			return nil, fmt.Errorf("%s: category %q: invalid account number %q", op, category, account)
		}
		c.categories[category] = account
	}

	for code, label := range cfg.Journals {
		c.journals[models.JournalCode(strings.ToUpper(code))] = label
	}

	return c, nil
}

// Parse builds a chart from YAML data.
func Parse(data []byte) (*Chart, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("chart: failed to parse YAML: %w", err)
	}
	return New(cfg)
}

// LoadFile builds a chart from a YAML file.
func LoadFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chart: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Roles returns the role accounts.
func (c *Chart) Roles() Roles {
	return c.roles
}

// Label returns the label of an account, or the account number when unknown.
func (c *Chart) Label(account string) string {
	if label, ok := c.labels[account]; ok {
		return label
	}
	return account
}

// ChargeAccount returns the charge account for an expense category. Unmapped
// categories get the default charge account and mapped=false.
func (c *Chart) ChargeAccount(category string) (account string, mapped bool) {
	if account, ok := c.categories[category]; ok {
		return account, true
	}
	return c.roles.DefaultCharge, false
}

// RevenueAccount returns the sales account for an activity type. Only pure
// goods sellers use the goods account.
func (c *Chart) RevenueAccount(activity models.ActivityType) string {
	if activity == models.ActivitySales {
		return c.roles.SalesGoods
	}
	return c.roles.SalesServices
}

// JournalLabel returns the label of a journal, or its code when unknown.
func (c *Chart) JournalLabel(code models.JournalCode) string {
	if label, ok := c.journals[code]; ok {
		return label
	}
	return string(code)
}

func isAccountNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
