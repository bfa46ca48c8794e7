package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/invtrail/invtrail/internal/inventory"
	"github.com/invtrail/invtrail/internal/model"
)

// webActingUser returns the cookie-authenticated user's id for audit
// attribution.
func webActingUser(r *http.Request) *int64 {
	claims := GetWebClaims(r.Context())
	if claims == nil {
		return nil
	}
	return &claims.UserID
}

// flashInventoryError turns an inventory failure into user-visible feedback.
func flashInventoryError(w http.ResponseWriter, err error) {
	var verr *inventory.ValidationError
	switch {
	case errors.Is(err, inventory.ErrMissingSKU):
		setFlash(w, "error", "SKU is required.")
	case errors.Is(err, inventory.ErrDuplicateSKU):
		setFlash(w, "error", "SKU already exists.")
	case errors.Is(err, inventory.ErrNotFound):
		setFlash(w, "error", "Item not found.")
	case errors.As(err, &verr):
		setFlash(w, "error", "Invalid "+verr.Field+".")
	default:
		setFlash(w, "error", "Something went wrong, try again.")
	}
}

// parseItemForm reads the full field set from a submitted item form. Numeric
// parse failures surface as a ValidationError so feedback matches the JSON
// surface.
func parseItemForm(r *http.Request) (inventory.ItemInput, error) {
	in := inventory.ItemInput{
		ProductName: r.FormValue("product_name"),
		SKU:         r.FormValue("sku"),
		Category:    r.FormValue("category"),
		Supplier:    r.FormValue("supplier"),
		Location:    r.FormValue("location"),
	}

	if raw := r.FormValue("quantity"); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return in, &inventory.ValidationError{Field: "quantity", Reason: "must be a whole number"}
		}
		in.Quantity = quantity
	}

	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, &inventory.ValidationError{Field: "price", Reason: "must be a number"}
		}
		in.Price = price
	}

	return in, nil
}

// ItemsPage handles GET /items.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	items, err := inventory.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	s.Templates.Render(w, "items.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: s.pageData(w, r, "Inventory"),
		Items:    items,
	})
}

// ItemNewPage handles GET /items/new.
func (s *Server) ItemNewPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "item_new.html", &struct {
		PageData
	}{
		PageData: s.pageData(w, r, "Add item"),
	})
}

// ItemCreateSubmit handles POST /items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	in, err := parseItemForm(r)
	if err == nil {
		_, err = inventory.CreateItem(r.Context(), s.DB, in, webActingUser(r))
	}
	if err != nil {
		flashInventoryError(w, err)
		http.Redirect(w, r, "/items/new", http.StatusSeeOther)
		return
	}

	slog.Info("item created", "user", GetWebClaims(r.Context()).Username, "sku", in.SKU)
	setFlash(w, "success", "Item added.")
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemEditPage handles GET /items/{id}/edit.
func (s *Server) ItemEditPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := inventory.GetItem(r.Context(), s.DB, id)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "item_edit.html", &struct {
		PageData
		Item *model.Item
	}{
		PageData: s.pageData(w, r, "Edit "+item.ProductName),
		Item:     item,
	})
}

// ItemUpdateSubmit handles POST /items/{id}. The form carries every field, so
// this is a full replacement.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	in, err := parseItemForm(r)
	if err == nil {
		_, err = inventory.ReplaceItem(r.Context(), s.DB, id, in, webActingUser(r))
	}
	if err != nil {
		flashInventoryError(w, err)
		http.Redirect(w, r, fmt.Sprintf("/items/%d/edit", id), http.StatusSeeOther)
		return
	}

	slog.Info("item updated", "user", GetWebClaims(r.Context()).Username, "sku", in.SKU)
	setFlash(w, "success", "Item updated.")
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{id}/delete. Deletes happen via POST
// only, never GET.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := inventory.DeleteItem(r.Context(), s.DB, id, webActingUser(r)); err != nil {
		flashInventoryError(w, err)
		http.Redirect(w, r, "/items", http.StatusSeeOther)
		return
	}

	slog.Info("item deleted", "user", GetWebClaims(r.Context()).Username, "id", id)
	setFlash(w, "success", "Item deleted.")
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}
