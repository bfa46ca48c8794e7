package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/invtrail/invtrail/internal/inventory"
	"github.com/invtrail/invtrail/internal/model"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Supplier    string  `json:"supplier"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
}

// patchItemRequest uses pointer fields so omitted keys keep their current
// value (partial-update contract).
type patchItemRequest struct {
	ProductName *string  `json:"product_name"`
	SKU         *string  `json:"sku"`
	Category    *string  `json:"category"`
	Quantity    *int     `json:"quantity"`
	Supplier    *string  `json:"supplier"`
	Price       *float64 `json:"price"`
	Location    *string  `json:"location"`
}

// writeInventoryError translates inventory failure kinds into the wire
// responses the API promises.
func writeInventoryError(w http.ResponseWriter, err error) {
	var verr *inventory.ValidationError
	switch {
	case errors.Is(err, inventory.ErrMissingSKU):
		jsonError(w, http.StatusBadRequest, "Missing sku")
	case errors.Is(err, inventory.ErrDuplicateSKU):
		jsonError(w, http.StatusBadRequest, "SKU exists")
	case errors.Is(err, inventory.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, verr.Error())
	default:
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := inventory.ListItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := inventory.CreateItem(r.Context(), h.DB, inventory.ItemInput{
		ProductName: req.ProductName,
		SKU:         req.SKU,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Supplier:    req.Supplier,
		Price:       req.Price,
		Location:    req.Location,
	}, actingUser(r.Context()))
	if err != nil {
		writeInventoryError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]int64{"id": id})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := inventory.GetItem(r.Context(), h.DB, id)
	if err != nil {
		writeInventoryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. Omitted fields retain their values.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req patchItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err = inventory.PatchItem(r.Context(), h.DB, id, inventory.ItemPatch{
		ProductName: req.ProductName,
		SKU:         req.SKU,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Supplier:    req.Supplier,
		Price:       req.Price,
		Location:    req.Location,
	}, actingUser(r.Context()))
	if err != nil {
		writeInventoryError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := inventory.DeleteItem(r.Context(), h.DB, id, actingUser(r.Context())); err != nil {
		writeInventoryError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
