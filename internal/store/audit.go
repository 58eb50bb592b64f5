package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"microgestion/pkg/services"
)

// RecordAudit implements services.AuditLogger. Missing ID and CreatedAt are filled in.
func (s *Store) RecordAudit(ctx context.Context, entry services.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, action, details, created_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.Details, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("store.RecordAudit: failed to insert %s: %w", entry.Action, err)
	}
	return nil
}

// ListAudit returns the most recent audit entries, newest first.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]services.AuditEntry, error) {
	const op = "store.ListAudit"

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, details, created_at FROM audit_log
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query audit log: %w", op, err)
	}
	defer rows.Close()

	var out []services.AuditEntry
	for rows.Next() {
		var e services.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan audit entry: %w", op, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
