package models

// Client is a customer. Only its name is used by the ledger.
type Client struct {
	ID    string
	Name  string
	Email string
}

// Supplier is a vendor. Only its name is used by the ledger.
type Supplier struct {
	ID    string
	Name  string
	Email string
}

// ActivityType drives the revenue account used for sales.
type ActivityType string

const (
	ActivitySales    ActivityType = "sales"
	ActivityServices ActivityType = "services"
	ActivityMixed    ActivityType = "mixed"
)

// UserFiscalProfile holds the business owner's tax settings.
type UserFiscalProfile struct {
	CompanyName        string
	RegistrationNumber string // SIREN/SIRET, used for the export filename
	IsVATExempt        bool
	ActivityType       ActivityType
	Currency           string
}

// Records is the full set of domain records the ledger is computed from.
type Records struct {
	Invoices  []Invoice
	Expenses  []Expense
	Clients   []Client
	Suppliers []Supplier
	Profile   UserFiscalProfile
}
