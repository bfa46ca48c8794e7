package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/invtrail/invtrail/internal/model"
)

// recordAudit appends one audit entry on the mutation's own transaction, so
// the item write and its trail entry commit together or not at all.
func recordAudit(ctx context.Context, tx *sql.Tx, userID *int64, action string, itemID int64, details string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, item_id, details) VALUES (?, ?, ?, ?)`,
		userID, action, itemID, details,
	)
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

// updateDetails renders the quantity, price and location transition in a
// fixed template, so trail entries stay comparable across versions.
func updateDetails(before, after model.Item) string {
	return fmt.Sprintf("Updated from quantity=%d, price=%s, location=%s to quantity=%d, price=%s, location=%s",
		before.Quantity, formatPrice(before.Price), before.Location,
		after.Quantity, formatPrice(after.Price), after.Location)
}

// formatPrice renders a price in its shortest decimal form, keeping a
// trailing .0 for whole values. Existing trail entries use this notation.
func formatPrice(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ListAuditLog returns all audit entries, newest first.
func ListAuditLog(ctx context.Context, db *sql.DB) ([]model.AuditEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, action, item_id, details, timestamp
		 FROM audit_log ORDER BY timestamp DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit log: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ItemID, &e.Details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
