package store

// Schema defines the SQL statements to create database tables.
// Dates are stored as YYYY-MM-DD text ('' when absent) and amounts as decimal text.
const Schema = `
CREATE TABLE IF NOT EXISTS fiscal_profile (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    company_name TEXT NOT NULL DEFAULT '',
    registration_number TEXT NOT NULL DEFAULT '',
    is_vat_exempt INTEGER NOT NULL DEFAULT 0,
    activity_type TEXT NOT NULL DEFAULT 'services',
    currency TEXT NOT NULL DEFAULT 'EUR'
);

CREATE TABLE IF NOT EXISTS clients (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS suppliers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS invoices (
    id TEXT PRIMARY KEY,
    number TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,                -- invoice, quote, order, credit_note
    client_id TEXT NOT NULL DEFAULT '',
    issue_date TEXT NOT NULL,
    due_date TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT '',
    subtotal TEXT NOT NULL,
    tax_amount TEXT NOT NULL,
    total TEXT NOT NULL,
    status TEXT NOT NULL               -- draft, sent, paid, cancelled
);

CREATE INDEX IF NOT EXISTS idx_invoices_issue_date
    ON invoices(issue_date);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    date TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    supplier_id TEXT NOT NULL DEFAULT '',
    amount TEXT NOT NULL,
    vat_amount TEXT NOT NULL,
    status TEXT NOT NULL,              -- validated, cancelled
    reversal_of TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_expenses_date
    ON expenses(date);

-- Audit log of user-visible actions (exports, imports)
CREATE TABLE IF NOT EXISTS audit_log (
    id TEXT PRIMARY KEY,
    action TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_created_at
    ON audit_log(created_at);
`
