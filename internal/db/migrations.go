package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: seed the barcode catalog used to pre-fill inventory forms.
	`INSERT OR IGNORE INTO barcode_catalog (barcode, name, category, default_expiry_days) VALUES
	    ('8801056020019', '제주 삼다수 2L', '생수/음료', 365),
	    ('8801115111030', '서울우유 1L', '유제품', 12),
	    ('8801043014816', '농심 신라면 5개입', '가공식품', 180),
	    ('8801037004656', '동서 맥심 모카골드 100T', '커피/차', 500),
	    ('8801045520117', '오뚜기 3분 카레', '가공식품', 730),
	    ('8801094012403', '코카콜라 1.5L', '생수/음료', 180)`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
