package web

import (
	"log/slog"
	"net/http"

	"github.com/invtrail/invtrail/internal/inventory"
	"github.com/invtrail/invtrail/internal/model"
)

// AuditPage handles GET /audit, the full trail newest first.
func (s *Server) AuditPage(w http.ResponseWriter, r *http.Request) {
	entries, err := inventory.ListAuditLog(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list audit log", "error", err)
	}

	s.Templates.Render(w, "audit.html", &struct {
		PageData
		Entries []model.AuditEntry
	}{
		PageData: s.pageData(w, r, "Audit log"),
		Entries:  entries,
	})
}
