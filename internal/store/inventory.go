package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kitchenlog/internal/model"
)

// CreateInventoryItem inserts a new stock item for a user.
func CreateInventoryItem(ctx context.Context, db *sql.DB, item *model.InventoryItem) (*model.InventoryItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.RegisteredAt.IsZero() {
		item.RegisteredAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO inventory (id, user_id, name, detail, storage_location, quantity, expiry_date, registered_at, barcode)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Name, item.Detail, item.StorageLocation,
		item.Quantity, item.ExpiryDate, item.RegisteredAt, item.Barcode,
	)
	if err != nil {
		return nil, fmt.Errorf("creating inventory item: %w", err)
	}

	return GetInventoryItem(ctx, db, item.ID)
}

// GetInventoryItem returns a stock item by ID.
func GetInventoryItem(ctx context.Context, db *sql.DB, id string) (*model.InventoryItem, error) {
	item := &model.InventoryItem{}
	var detail, barcode sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, name, detail, storage_location, quantity, expiry_date, registered_at, barcode
		 FROM inventory WHERE id = ?`, id,
	).Scan(&item.ID, &item.UserID, &item.Name, &detail, &item.StorageLocation,
		&item.Quantity, &item.ExpiryDate, &item.RegisteredAt, &barcode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory item: %w", err)
	}
	item.Detail = detail.String
	item.Barcode = barcode.String
	return item, nil
}

// ListInventory returns a user's stock ordered by expiry date ascending,
// so the most urgent items come first.
func ListInventory(ctx context.Context, db *sql.DB, userID string) ([]model.InventoryItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, name, detail, storage_location, quantity, expiry_date, registered_at, barcode
		 FROM inventory WHERE user_id = ? ORDER BY expiry_date, registered_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		var item model.InventoryItem
		var detail, barcode sql.NullString
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &detail, &item.StorageLocation,
			&item.Quantity, &item.ExpiryDate, &item.RegisteredAt, &barcode); err != nil {
			return nil, fmt.Errorf("scanning inventory item: %w", err)
		}
		item.Detail = detail.String
		item.Barcode = barcode.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateInventoryItem replaces a stock item's editable fields.
func UpdateInventoryItem(ctx context.Context, db *sql.DB, item *model.InventoryItem) error {
	_, err := db.ExecContext(ctx,
		`UPDATE inventory SET name = ?, detail = ?, storage_location = ?, quantity = ?, expiry_date = ?, barcode = ?
		 WHERE id = ? AND user_id = ?`,
		item.Name, item.Detail, item.StorageLocation, item.Quantity, item.ExpiryDate, item.Barcode,
		item.ID, item.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating inventory item: %w", err)
	}
	return nil
}

// DeleteInventoryItem removes a stock item. Recipes are unaffected: a
// deleted item simply stops matching.
func DeleteInventoryItem(ctx context.Context, db *sql.DB, id, userID string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM inventory WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting inventory item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("inventory item %s: %w", id, model.ErrNotFound)
	}
	return nil
}
