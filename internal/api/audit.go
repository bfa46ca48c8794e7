package api

import (
	"database/sql"
	"net/http"

	"github.com/invtrail/invtrail/internal/inventory"
	"github.com/invtrail/invtrail/internal/model"
)

// AuditHandler serves the read-only audit trail.
type AuditHandler struct {
	DB *sql.DB
}

// List handles GET /api/audit, newest entries first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := inventory.ListAuditLog(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list audit log")
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}
