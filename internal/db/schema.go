package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Recipe versions and snapshot
// ingredient/step lists are stored as JSON text columns: they are owned
// exclusively by their parent row and never addressed independently.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL,
    display_name  TEXT,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS inventory (
    id               TEXT PRIMARY KEY,
    user_id          TEXT NOT NULL REFERENCES users(id),
    name             TEXT NOT NULL,
    detail           TEXT,
    storage_location TEXT NOT NULL CHECK (storage_location IN ('FRIDGE', 'FREEZER', 'PANTRY')),
    quantity         TEXT NOT NULL DEFAULT '',
    expiry_date      DATETIME NOT NULL,
    registered_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    barcode          TEXT
);

CREATE INDEX IF NOT EXISTS idx_inventory_user_expiry
    ON inventory(user_id, expiry_date);

CREATE TABLE IF NOT EXISTS products (
    id       TEXT PRIMARY KEY,
    user_id  TEXT NOT NULL REFERENCES users(id),
    name     TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    barcodes TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS barcode_catalog (
    barcode             TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    category            TEXT NOT NULL DEFAULT '',
    default_expiry_days INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS recipes (
    id              TEXT PRIMARY KEY,
    owner_id        TEXT NOT NULL REFERENCES users(id),
    title           TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    current_version TEXT NOT NULL,
    versions        TEXT NOT NULL DEFAULT '[]',
    next_seq        INTEGER NOT NULL DEFAULT 1,
    source_author   TEXT,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_recipes_owner ON recipes(owner_id);

CREATE TABLE IF NOT EXISTS community_snapshots (
    id               TEXT PRIMARY KEY,
    source_recipe_id TEXT,
    title            TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    ingredients      TEXT NOT NULL DEFAULT '[]',
    steps            TEXT NOT NULL DEFAULT '[]',
    author_id        TEXT NOT NULL REFERENCES users(id),
    author_name      TEXT,
    image            BLOB,
    image_mime       TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    like_count       INTEGER NOT NULL DEFAULT 0,
    view_count       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS snapshot_likes (
    snapshot_id TEXT NOT NULL REFERENCES community_snapshots(id) ON DELETE CASCADE,
    user_id     TEXT NOT NULL REFERENCES users(id),
    PRIMARY KEY (snapshot_id, user_id)
);

CREATE TABLE IF NOT EXISTS comments (
    id          TEXT PRIMARY KEY,
    snapshot_id TEXT NOT NULL REFERENCES community_snapshots(id) ON DELETE CASCADE,
    parent_id   TEXT REFERENCES comments(id) ON DELETE CASCADE,
    author_id   TEXT NOT NULL REFERENCES users(id),
    author_name TEXT,
    content     TEXT NOT NULL,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_comments_snapshot ON comments(snapshot_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
