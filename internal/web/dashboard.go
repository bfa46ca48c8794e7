package web

import (
	"log/slog"
	"net/http"

	"github.com/invtrail/invtrail/internal/inventory"
	"github.com/invtrail/invtrail/internal/model"
)

// Dashboard handles GET /, showing inventory totals and recent activity.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := inventory.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items for dashboard", "error", err)
	}
	entries, err := inventory.ListAuditLog(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list audit log for dashboard", "error", err)
	}

	var totalQuantity int
	var totalValue float64
	for _, item := range items {
		totalQuantity += item.Quantity
		totalValue += float64(item.Quantity) * item.Price
	}

	// Limit recent activity to 10 entries.
	if len(entries) > 10 {
		entries = entries[:10]
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		ItemCount     int
		TotalQuantity int
		TotalValue    float64
		RecentEntries []model.AuditEntry
	}{
		PageData:      s.pageData(w, r, "Dashboard"),
		ItemCount:     len(items),
		TotalQuantity: totalQuantity,
		TotalValue:    totalValue,
		RecentEntries: entries,
	})
}
