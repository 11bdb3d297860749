package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kitchenlog/internal/model"
)

// Recipes are stored as whole aggregates: the version history lives in a
// JSON column on the recipe row, so versions are never shared between
// recipes or addressable outside their parent.

// CreateRecipe inserts a recipe aggregate.
func CreateRecipe(ctx context.Context, db *sql.DB, r *model.Recipe) (*model.Recipe, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	versions, err := json.Marshal(r.Versions)
	if err != nil {
		return nil, fmt.Errorf("encoding versions: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO recipes (id, owner_id, title, description, current_version, versions, next_seq, source_author, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.OwnerID, r.Title, r.Description, r.CurrentLabel, string(versions),
		r.NextSeq, r.SourceAuthorLabel, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating recipe: %w", err)
	}

	return GetRecipe(ctx, db, r.ID)
}

// GetRecipe returns a recipe aggregate by ID.
func GetRecipe(ctx context.Context, db *sql.DB, id string) (*model.Recipe, error) {
	r := &model.Recipe{}
	var versions string
	var sourceAuthor sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, description, current_version, versions, next_seq, source_author, created_at, updated_at
		 FROM recipes WHERE id = ?`, id,
	).Scan(&r.ID, &r.OwnerID, &r.Title, &r.Description, &r.CurrentLabel, &versions,
		&r.NextSeq, &sourceAuthor, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	if err := json.Unmarshal([]byte(versions), &r.Versions); err != nil {
		return nil, fmt.Errorf("decoding versions: %w", err)
	}
	r.SourceAuthorLabel = sourceAuthor.String
	return r, nil
}

// ListRecipes returns a user's recipes, newest first.
func ListRecipes(ctx context.Context, db *sql.DB, ownerID string) ([]model.Recipe, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, owner_id, title, description, current_version, versions, next_seq, source_author, created_at, updated_at
		 FROM recipes WHERE owner_id = ? ORDER BY created_at DESC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		var r model.Recipe
		var versions string
		var sourceAuthor sql.NullString
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Title, &r.Description, &r.CurrentLabel, &versions,
			&r.NextSeq, &sourceAuthor, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		if err := json.Unmarshal([]byte(versions), &r.Versions); err != nil {
			return nil, fmt.Errorf("decoding versions: %w", err)
		}
		r.SourceAuthorLabel = sourceAuthor.String
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// UpdateRecipe writes back a mutated aggregate (metadata, current pointer
// and the whole version history) in one statement.
func UpdateRecipe(ctx context.Context, db *sql.DB, r *model.Recipe) error {
	versions, err := json.Marshal(r.Versions)
	if err != nil {
		return fmt.Errorf("encoding versions: %w", err)
	}

	r.UpdatedAt = time.Now().UTC()
	_, err = db.ExecContext(ctx,
		`UPDATE recipes SET title = ?, description = ?, current_version = ?, versions = ?, next_seq = ?, updated_at = ?
		 WHERE id = ?`,
		r.Title, r.Description, r.CurrentLabel, string(versions), r.NextSeq, r.UpdatedAt, r.ID,
	)
	if err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}
	return nil
}

// DeleteRecipe removes the aggregate entirely. Community snapshots are
// independent copies and are not touched.
func DeleteRecipe(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	return nil
}
