package store

import (
	"context"
	"database/sql"
	"fmt"

	"microgestion/pkg/models"
)

// SaveRecords upserts every record of the bundle in one transaction.
// Records absent from the bundle are left untouched.
func (s *Store) SaveRecords(ctx context.Context, records *models.Records) (err error) {
	const op = "store.SaveRecords"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	p := records.Profile
	activity := p.ActivityType
	if activity == "" {
		activity = models.ActivityServices
	}
	currency := p.Currency
	if currency == "" {
		currency = "EUR"
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO fiscal_profile (id, company_name, registration_number, is_vat_exempt, activity_type, currency)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			registration_number = excluded.registration_number,
			is_vat_exempt = excluded.is_vat_exempt,
			activity_type = excluded.activity_type,
			currency = excluded.currency
	`, p.CompanyName, p.RegistrationNumber, p.IsVATExempt, string(activity), currency); err != nil {
		return fmt.Errorf("%s: failed to save fiscal profile: %w", op, err)
	}

	for _, c := range records.Clients {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO clients (id, name, email) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email
		`, c.ID, c.Name, c.Email); err != nil {
			return fmt.Errorf("%s: failed to save client %s: %w", op, c.ID, err)
		}
	}

	for _, sup := range records.Suppliers {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO suppliers (id, name, email) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email
		`, sup.ID, sup.Name, sup.Email); err != nil {
			return fmt.Errorf("%s: failed to save supplier %s: %w", op, sup.ID, err)
		}
	}

	for _, inv := range records.Invoices {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO invoices (id, number, type, client_id, issue_date, due_date, updated_at, subtotal, tax_amount, total, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				number = excluded.number,
				type = excluded.type,
				client_id = excluded.client_id,
				issue_date = excluded.issue_date,
				due_date = excluded.due_date,
				updated_at = excluded.updated_at,
				subtotal = excluded.subtotal,
				tax_amount = excluded.tax_amount,
				total = excluded.total,
				status = excluded.status
		`,
			inv.ID, inv.Number, string(inv.Type), inv.ClientID,
			formatDate(inv.IssueDate), formatDate(inv.DueDate), formatDate(inv.UpdatedAt),
			inv.Subtotal, inv.TaxAmount, inv.Total, string(inv.Status),
		); err != nil {
			return fmt.Errorf("%s: failed to save invoice %s: %w", op, inv.ID, err)
		}
	}

	for _, exp := range records.Expenses {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO expenses (id, date, description, category, supplier_id, amount, vat_amount, status, reversal_of)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				date = excluded.date,
				description = excluded.description,
				category = excluded.category,
				supplier_id = excluded.supplier_id,
				amount = excluded.amount,
				vat_amount = excluded.vat_amount,
				status = excluded.status,
				reversal_of = excluded.reversal_of
		`,
			exp.ID, formatDate(exp.Date), exp.Description, exp.Category, exp.SupplierID,
			exp.Amount, exp.VATAmount, string(exp.Status), exp.ReversalOf,
		); err != nil {
			return fmt.Errorf("%s: failed to save expense %s: %w", op, exp.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	s.log.Info().
		Int("invoices", len(records.Invoices)).
		Int("expenses", len(records.Expenses)).
		Int("clients", len(records.Clients)).
		Int("suppliers", len(records.Suppliers)).
		Msg("Records saved")

	return nil
}

// LoadRecords implements services.RecordProvider. Invoices are ordered by
// issue date then id, expenses by date then id.
func (s *Store) LoadRecords(ctx context.Context) (*models.Records, error) {
	const op = "store.LoadRecords"

	records := &models.Records{
		Profile: models.UserFiscalProfile{ActivityType: models.ActivityServices, Currency: "EUR"},
	}

	var exempt bool
	var activity string
	err := s.db.QueryRowContext(ctx, `
		SELECT company_name, registration_number, is_vat_exempt, activity_type, currency
		FROM fiscal_profile WHERE id = 1
	`).Scan(&records.Profile.CompanyName, &records.Profile.RegistrationNumber, &exempt, &activity, &records.Profile.Currency)
	switch {
	case err == sql.ErrNoRows:
		s.log.Warn().Msg("No fiscal profile stored, using defaults")
	case err != nil:
		return nil, fmt.Errorf("%s: failed to load fiscal profile: %w", op, err)
	default:
		records.Profile.IsVATExempt = exempt
		records.Profile.ActivityType = models.ActivityType(activity)
	}

	if records.Clients, err = s.loadClients(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if records.Suppliers, err = s.loadSuppliers(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if records.Invoices, err = s.loadInvoices(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if records.Expenses, err = s.loadExpenses(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

func (s *Store) loadClients(ctx context.Context) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) loadSuppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email FROM suppliers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var out []models.Supplier
	for rows.Next() {
		var sup models.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Email); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		out = append(out, sup)
	}
	return out, rows.Err()
}

func (s *Store) loadInvoices(ctx context.Context) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, type, client_id, issue_date, due_date, updated_at, subtotal, tax_amount, total, status
		FROM invoices
		ORDER BY issue_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var out []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		var typ, status, issue, due, updated string
		if err := rows.Scan(&inv.ID, &inv.Number, &typ, &inv.ClientID, &issue, &due, &updated,
			&inv.Subtotal, &inv.TaxAmount, &inv.Total, &status); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		inv.Type = models.DocumentType(typ)
		inv.Status = models.InvoiceStatus(status)
		if inv.IssueDate, err = parseDate(issue); err != nil {
			return nil, fmt.Errorf("invoice %s: bad issue_date: %w", inv.ID, err)
		}
		if inv.DueDate, err = parseDate(due); err != nil {
			return nil, fmt.Errorf("invoice %s: bad due_date: %w", inv.ID, err)
		}
		if inv.UpdatedAt, err = parseDate(updated); err != nil {
			return nil, fmt.Errorf("invoice %s: bad updated_at: %w", inv.ID, err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) loadExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, category, supplier_id, amount, vat_amount, status, reversal_of
		FROM expenses
		ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		var exp models.Expense
		var date, status string
		if err := rows.Scan(&exp.ID, &date, &exp.Description, &exp.Category, &exp.SupplierID,
			&exp.Amount, &exp.VATAmount, &status, &exp.ReversalOf); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		exp.Status = models.ExpenseStatus(status)
		if exp.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("expense %s: bad date: %w", exp.ID, err)
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}
