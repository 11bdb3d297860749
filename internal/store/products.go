package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"kitchenlog/internal/model"
)

// CreateProduct inserts a master-data product for a user.
func CreateProduct(ctx context.Context, db *sql.DB, p *model.Product) (*model.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	barcodes, err := json.Marshal(p.Barcodes)
	if err != nil {
		return nil, fmt.Errorf("encoding barcodes: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO products (id, user_id, name, category, barcodes) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.Category, string(barcodes),
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	return GetProduct(ctx, db, p.ID)
}

// GetProduct returns a product by ID.
func GetProduct(ctx context.Context, db *sql.DB, id string) (*model.Product, error) {
	p := &model.Product{}
	var barcodes string
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, name, category, barcodes FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Category, &barcodes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	if err := json.Unmarshal([]byte(barcodes), &p.Barcodes); err != nil {
		return nil, fmt.Errorf("decoding barcodes: %w", err)
	}
	return p, nil
}

// ListProducts returns a user's products ordered by name.
func ListProducts(ctx context.Context, db *sql.DB, userID string) ([]model.Product, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, name, category, barcodes FROM products WHERE user_id = ? ORDER BY name`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		var barcodes string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Category, &barcodes); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		if err := json.Unmarshal([]byte(barcodes), &p.Barcodes); err != nil {
			return nil, fmt.Errorf("decoding barcodes: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// DeleteProduct removes a product.
func DeleteProduct(ctx context.Context, db *sql.DB, id, userID string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM products WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// LookupBarcode returns the catalog entry for a barcode, or nil if unknown.
func LookupBarcode(ctx context.Context, db *sql.DB, barcode string) (*model.BarcodeEntry, error) {
	e := &model.BarcodeEntry{}
	err := db.QueryRowContext(ctx,
		`SELECT barcode, name, category, default_expiry_days FROM barcode_catalog WHERE barcode = ?`, barcode,
	).Scan(&e.Barcode, &e.Name, &e.Category, &e.DefaultExpiryDays)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up barcode: %w", err)
	}
	return e, nil
}
