// Package inventory is the sole mutation path for stock-keeping-unit records.
// Every create, update and delete runs its integrity checks, its item write
// and its audit entry inside one transaction.
package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/invtrail/invtrail/internal/model"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateItem inserts a new item and records a CREATE audit entry, returning
// the assigned id. Fails with ErrMissingSKU, ErrDuplicateSKU or a
// ValidationError; on failure nothing is written.
func CreateItem(ctx context.Context, db *sql.DB, in ItemInput, actingUser *int64) (int64, error) {
	if err := checkInput(in); err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Guard: the SKU must not exist yet. The unique index on items(sku)
	// catches any writer that races past this check.
	taken, err := skuTaken(ctx, tx, in.SKU, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrDuplicateSKU
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (product_name, sku, category, quantity, supplier, price, location)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ProductName, in.SKU, in.Category, in.Quantity, in.Supplier, in.Price, in.Location,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateSKU
		}
		return 0, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting item id: %w", err)
	}

	if err := recordAudit(ctx, tx, actingUser, model.ActionCreate, id, "Created item "+in.ProductName); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing create: %w", err)
	}
	return id, nil
}

// ReplaceItem overwrites every field of an item (the form surface's
// full-replacement contract) and records an UPDATE audit entry with the
// before/after snapshot. Fails with ErrNotFound, ErrMissingSKU,
// ErrDuplicateSKU or a ValidationError; on failure nothing is written.
func ReplaceItem(ctx context.Context, db *sql.DB, id int64, in ItemInput, actingUser *int64) (*model.Item, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	after := model.Item{
		ID:          id,
		ProductName: in.ProductName,
		SKU:         in.SKU,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Supplier:    in.Supplier,
		Price:       in.Price,
		Location:    in.Location,
	}
	return updateItem(ctx, db, id, after, actingUser)
}

// PatchItem overwrites only the fields present in the patch (the JSON
// surface's partial-update contract); nil fields keep their current value.
// SKU uniqueness is enforced the same way as on the form path.
func PatchItem(ctx context.Context, db *sql.DB, id int64, patch ItemPatch, actingUser *int64) (*model.Item, error) {
	if err := checkBounds(patch); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	before, err := getItem(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, ErrNotFound
	}

	after := *before
	if patch.ProductName != nil {
		after.ProductName = *patch.ProductName
	}
	if patch.SKU != nil {
		after.SKU = *patch.SKU
	}
	if patch.Category != nil {
		after.Category = *patch.Category
	}
	if patch.Quantity != nil {
		after.Quantity = *patch.Quantity
	}
	if patch.Supplier != nil {
		after.Supplier = *patch.Supplier
	}
	if patch.Price != nil {
		after.Price = *patch.Price
	}
	if patch.Location != nil {
		after.Location = *patch.Location
	}

	if after.SKU == "" {
		return nil, ErrMissingSKU
	}

	if err := applyUpdate(ctx, tx, *before, after, actingUser); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	return &after, nil
}

// updateItem runs the shared transactional update path for ReplaceItem.
func updateItem(ctx context.Context, db *sql.DB, id int64, after model.Item, actingUser *int64) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	before, err := getItem(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, ErrNotFound
	}

	if err := applyUpdate(ctx, tx, *before, after, actingUser); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	return &after, nil
}

// applyUpdate writes the new field values and the UPDATE audit entry on tx.
// The caller holds the transaction open, so the SKU guard cannot be
// invalidated before the write commits.
func applyUpdate(ctx context.Context, tx *sql.Tx, before, after model.Item, actingUser *int64) error {
	// Guard: a changed SKU must not collide with a different item. An
	// unchanged SKU always passes, even though the item itself holds it.
	if after.SKU != before.SKU {
		taken, err := skuTaken(ctx, tx, after.SKU, before.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateSKU
		}
	}

	_, err := tx.ExecContext(ctx,
		`UPDATE items SET product_name = ?, sku = ?, category = ?, quantity = ?, supplier = ?, price = ?, location = ?
		 WHERE id = ?`,
		after.ProductName, after.SKU, after.Category, after.Quantity, after.Supplier, after.Price, after.Location,
		before.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("updating item: %w", err)
	}

	return recordAudit(ctx, tx, actingUser, model.ActionUpdate, before.ID, updateDetails(before, after))
}

// DeleteItem removes an item permanently and records a DELETE audit entry
// referencing the removed id. Fails with ErrNotFound, in which case no entry
// is written. Item ids are never reassigned.
func DeleteItem(ctx context.Context, db *sql.DB, id int64, actingUser *int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := getItem(ctx, tx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if err := recordAudit(ctx, tx, actingUser, model.ActionDelete, id, "Deleted item "+item.ProductName); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// GetItem returns an item by id, or ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := getItem(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// ListItems returns all items ordered by id.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, product_name, sku, category, quantity, supplier, price, location
		 FROM items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.ProductName, &item.SKU, &item.Category,
			&item.Quantity, &item.Supplier, &item.Price, &item.Location); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// getItem reads one item on q, returning nil when the id does not exist.
func getItem(ctx context.Context, q querier, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := q.QueryRowContext(ctx,
		`SELECT id, product_name, sku, category, quantity, supplier, price, location
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.ProductName, &item.SKU, &item.Category,
		&item.Quantity, &item.Supplier, &item.Price, &item.Location)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// skuTaken reports whether a different item (any item other than excludeID)
// already holds sku.
func skuTaken(ctx context.Context, q querier, sku string, excludeID int64) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE sku = ? AND id != ?`, sku, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking sku: %w", err)
	}
	return count > 0, nil
}
