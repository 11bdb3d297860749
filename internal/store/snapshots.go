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

// CreateSnapshot inserts a published community snapshot.
func CreateSnapshot(ctx context.Context, db *sql.DB, s *model.CommunitySnapshot) (*model.CommunitySnapshot, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	ingredients, err := json.Marshal(s.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("encoding ingredients: %w", err)
	}
	steps, err := json.Marshal(s.Steps)
	if err != nil {
		return nil, fmt.Errorf("encoding steps: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO community_snapshots (id, source_recipe_id, title, description, ingredients, steps, author_id, author_name, created_at, like_count, view_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, nullable(s.SourceRecipeID), s.Title, s.Description, string(ingredients), string(steps),
		s.AuthorID, s.AuthorName, s.CreatedAt, s.LikeCount, s.ViewCount,
	)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot: %w", err)
	}

	return GetSnapshot(ctx, db, s.ID)
}

const snapshotColumns = `id, source_recipe_id, title, description, ingredients, steps,
	author_id, author_name, image_mime, created_at, like_count, view_count`

func scanSnapshot(row interface{ Scan(...any) error }) (*model.CommunitySnapshot, error) {
	s := &model.CommunitySnapshot{}
	var sourceID, authorName, imageMime sql.NullString
	var ingredients, steps string
	err := row.Scan(&s.ID, &sourceID, &s.Title, &s.Description, &ingredients, &steps,
		&s.AuthorID, &authorName, &imageMime, &s.CreatedAt, &s.LikeCount, &s.ViewCount)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ingredients), &s.Ingredients); err != nil {
		return nil, fmt.Errorf("decoding ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(steps), &s.Steps); err != nil {
		return nil, fmt.Errorf("decoding steps: %w", err)
	}
	s.SourceRecipeID = sourceID.String
	s.AuthorName = authorName.String
	s.ImageMime = imageMime.String
	return s, nil
}

// GetSnapshot returns a snapshot by ID.
func GetSnapshot(ctx context.Context, db *sql.DB, id string) (*model.CommunitySnapshot, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM community_snapshots WHERE id = ?`, id,
	)
	s, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}
	return s, nil
}

// ListSnapshots returns snapshots newest first, optionally filtered by a
// title substring and/or an author.
func ListSnapshots(ctx context.Context, db *sql.DB, titleQuery, authorID string) ([]model.CommunitySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM community_snapshots WHERE 1=1`
	var args []any
	if titleQuery != "" {
		query += ` AND title LIKE ?`
		args = append(args, "%"+titleQuery+"%")
	}
	if authorID != "" {
		query += ` AND author_id = ?`
		args = append(args, authorID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []model.CommunitySnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, rows.Err()
}

// UpdateSnapshot replaces a snapshot's own content fields. The source
// recipe is never touched.
func UpdateSnapshot(ctx context.Context, db *sql.DB, s *model.CommunitySnapshot) error {
	ingredients, err := json.Marshal(s.Ingredients)
	if err != nil {
		return fmt.Errorf("encoding ingredients: %w", err)
	}
	steps, err := json.Marshal(s.Steps)
	if err != nil {
		return fmt.Errorf("encoding steps: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE community_snapshots SET title = ?, description = ?, ingredients = ?, steps = ? WHERE id = ?`,
		s.Title, s.Description, string(ingredients), string(steps), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating snapshot: %w", err)
	}
	return nil
}

// DeleteSnapshot removes a snapshot (likes and comments cascade).
func DeleteSnapshot(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM community_snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// IncrementSnapshotViews bumps a snapshot's view counter.
func IncrementSnapshotViews(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE community_snapshots SET view_count = view_count + 1 WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("incrementing snapshot views: %w", err)
	}
	return nil
}

// ToggleSnapshotLike flips a user's like on a snapshot in one transaction:
// present means remove and decrement, absent means add and increment. It
// never double-counts for the same user. Returns whether the snapshot is
// liked after the call.
func ToggleSnapshotLike(ctx context.Context, db *sql.DB, snapshotID, userID string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snapshot_likes WHERE snapshot_id = ? AND user_id = ?`,
		snapshotID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking like: %w", err)
	}

	liked := exists == 0
	if liked {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_likes (snapshot_id, user_id) VALUES (?, ?)`,
			snapshotID, userID,
		); err != nil {
			return false, fmt.Errorf("adding like: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE community_snapshots SET like_count = like_count + 1 WHERE id = ?`, snapshotID,
		); err != nil {
			return false, fmt.Errorf("incrementing like count: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM snapshot_likes WHERE snapshot_id = ? AND user_id = ?`,
			snapshotID, userID,
		); err != nil {
			return false, fmt.Errorf("removing like: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE community_snapshots SET like_count = MAX(like_count - 1, 0) WHERE id = ?`, snapshotID,
		); err != nil {
			return false, fmt.Errorf("decrementing like count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing like toggle: %w", err)
	}
	return liked, nil
}

// SetSnapshotImage sets a snapshot's cover photo.
func SetSnapshotImage(ctx context.Context, db *sql.DB, id string, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE community_snapshots SET image = ?, image_mime = ? WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting snapshot image: %w", err)
	}
	return nil
}

// GetSnapshotImage returns a snapshot's cover photo data and MIME type.
func GetSnapshotImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM community_snapshots WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting snapshot image: %w", err)
	}
	return image, mime.String, nil
}

// nullable converts an empty string to a NULL column value.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
