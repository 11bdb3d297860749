package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kitchenlog/internal/model"
)

// CreateComment inserts a comment on a snapshot.
func CreateComment(ctx context.Context, db *sql.DB, c *model.Comment) (*model.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO comments (id, snapshot_id, parent_id, author_id, author_name, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.SnapshotID, nullable(c.ParentID), c.AuthorID, c.AuthorName, c.Content, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	return GetComment(ctx, db, c.ID)
}

// GetComment returns a comment by ID.
func GetComment(ctx context.Context, db *sql.DB, id string) (*model.Comment, error) {
	c := &model.Comment{}
	var parentID, authorName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, snapshot_id, parent_id, author_id, author_name, content, created_at
		 FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.SnapshotID, &parentID, &c.AuthorID, &authorName, &c.Content, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting comment: %w", err)
	}
	c.ParentID = parentID.String
	c.AuthorName = authorName.String
	return c, nil
}

// ListComments returns all comments of a snapshot, oldest first so threads
// read top-down.
func ListComments(ctx context.Context, db *sql.DB, snapshotID string) ([]model.Comment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, snapshot_id, parent_id, author_id, author_name, content, created_at
		 FROM comments WHERE snapshot_id = ? ORDER BY created_at`, snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		var parentID, authorName sql.NullString
		if err := rows.Scan(&c.ID, &c.SnapshotID, &parentID, &c.AuthorID, &authorName, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		c.ParentID = parentID.String
		c.AuthorName = authorName.String
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment (replies cascade).
func DeleteComment(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}
