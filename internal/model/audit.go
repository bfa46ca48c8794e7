package model

import "time"

// AuditEntry is one append-only record of a mutation. Entries reference items
// by id only, so they remain valid (and may dangle) after the item is deleted.
type AuditEntry struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	ItemID    int64     `json:"item_id"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Audit actions. The schema rejects anything outside this set.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)
