// Package community manages published recipe snapshots. A snapshot is a
// copy taken from one recipe version at publish time: edits to the copy
// never write back to the source lineage, and later edits to the source
// never propagate to the copy.
package community

import (
	"context"
	"database/sql"
	"fmt"

	"kitchenlog/internal/model"
	"kitchenlog/internal/recipes"
	"kitchenlog/internal/store"
)

// Service publishes, edits and re-imports community snapshots. It reads
// from the lineage service only at publish time; after that a snapshot
// lives on its own.
type Service struct {
	db      *sql.DB
	recipes *recipes.Service
}

// NewService creates a community service.
func NewService(db *sql.DB, recipes *recipes.Service) *Service {
	return &Service{db: db, recipes: recipes}
}

// PublishRequest names the version to copy and the (caller-editable)
// presentation fields for the published copy.
type PublishRequest struct {
	RecipeID     string
	VersionLabel string
	Title        string // defaults to the recipe title
	Description  string // defaults to the recipe description
	AuthorID     string
}

// Publish deep-copies one version of a recipe into a new snapshot.
// ChangeNotes and the private memo are deliberately left behind: snapshots
// never carry authoring notes.
func (s *Service) Publish(ctx context.Context, req PublishRequest) (*model.CommunitySnapshot, error) {
	if req.AuthorID == "" {
		return nil, model.ErrUnauthenticated
	}

	recipe, err := s.recipes.Get(ctx, req.RecipeID)
	if err != nil {
		return nil, err
	}
	// Only the owner can publish; other callers do not learn the recipe exists.
	if recipe.OwnerID != req.AuthorID {
		return nil, fmt.Errorf("recipe %s: %w", req.RecipeID, model.ErrNotFound)
	}

	var version *model.RecipeVersion
	for i := range recipe.Versions {
		if recipe.Versions[i].Label == req.VersionLabel {
			version = &recipe.Versions[i]
			break
		}
	}
	if version == nil {
		return nil, fmt.Errorf("version %q of recipe %s: %w", req.VersionLabel, req.RecipeID, model.ErrNotFound)
	}

	author, err := store.GetUser(ctx, s.db, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, model.ErrUnauthenticated
	}

	title := req.Title
	if title == "" {
		title = recipe.Title
	}
	description := req.Description
	if description == "" {
		description = recipe.Description
	}

	copied := version.Clone()
	snapshot := &model.CommunitySnapshot{
		SourceRecipeID: recipe.ID,
		Title:          title,
		Description:    description,
		Ingredients:    copied.Ingredients,
		Steps:          copied.Steps,
		AuthorID:       author.ID,
		AuthorName:     author.AuthorLabel(),
	}

	return store.CreateSnapshot(ctx, s.db, snapshot)
}

// Get returns a snapshot by ID.
func (s *Service) Get(ctx context.Context, id string) (*model.CommunitySnapshot, error) {
	snapshot, err := store.GetSnapshot(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, model.ErrNotFound)
	}
	return snapshot, nil
}

// View returns a snapshot and counts the view.
func (s *Service) View(ctx context.Context, id string) (*model.CommunitySnapshot, error) {
	snapshot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := store.IncrementSnapshotViews(ctx, s.db, id); err != nil {
		return nil, err
	}
	snapshot.ViewCount++
	return snapshot, nil
}

// List returns snapshots newest first, optionally filtered by a title
// substring and/or author.
func (s *Service) List(ctx context.Context, titleQuery, authorID string) ([]model.CommunitySnapshot, error) {
	return store.ListSnapshots(ctx, s.db, titleQuery, authorID)
}

// EditRequest carries the replacement content for a snapshot.
type EditRequest struct {
	Title       string
	Description string
	Ingredients []model.Ingredient
	Steps       []string
}

// Edit mutates the snapshot's own fields only; the source recipe, if it
// still exists, is never touched.
func (s *Service) Edit(ctx context.Context, id string, req EditRequest) (*model.CommunitySnapshot, error) {
	snapshot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot.Title = req.Title
	snapshot.Description = req.Description
	snapshot.Ingredients = append([]model.Ingredient{}, req.Ingredients...)
	snapshot.Steps = append([]string{}, req.Steps...)

	if err := store.UpdateSnapshot(ctx, s.db, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Delete removes a snapshot along with its likes and comments.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return store.DeleteSnapshot(ctx, s.db, id)
}

// Import copies a snapshot into a brand-new recipe lineage owned by the
// importing user: a single "1.0" version carrying the snapshot's
// ingredients and steps, with provenance recorded in the change notes.
// The new recipe has no ongoing link to the snapshot or its source.
func (s *Service) Import(ctx context.Context, snapshotID, ownerID string) (*model.Recipe, error) {
	if ownerID == "" {
		return nil, model.ErrUnauthenticated
	}

	snapshot, err := s.Get(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	author := snapshot.AuthorName
	if author == "" {
		author = snapshot.AuthorID
	}

	version := model.RecipeVersion{
		Ingredients: append([]model.Ingredient{}, snapshot.Ingredients...),
		Steps:       append([]string{}, snapshot.Steps...),
		ChangeNotes: fmt.Sprintf("Imported from a community recipe by %s", author),
	}

	return s.recipes.CreateWithVersion(ctx, ownerID, snapshot.Title, snapshot.Description, version, author)
}

// ToggleLike flips the user's like on a snapshot and returns the new state
// and count. Same user can never double-count.
func (s *Service) ToggleLike(ctx context.Context, id, userID string) (bool, int, error) {
	if userID == "" {
		return false, 0, model.ErrUnauthenticated
	}

	if _, err := s.Get(ctx, id); err != nil {
		return false, 0, err
	}

	liked, err := store.ToggleSnapshotLike(ctx, s.db, id, userID)
	if err != nil {
		return false, 0, err
	}

	snapshot, err := s.Get(ctx, id)
	if err != nil {
		return false, 0, err
	}
	return liked, snapshot.LikeCount, nil
}

// AddComment posts a comment on a snapshot. Replies nest exactly one
// level: the parent must be a root comment on the same snapshot.
func (s *Service) AddComment(ctx context.Context, snapshotID, parentID, authorID, content string) (*model.Comment, error) {
	if authorID == "" {
		return nil, model.ErrUnauthenticated
	}

	if _, err := s.Get(ctx, snapshotID); err != nil {
		return nil, err
	}

	if parentID != "" {
		parent, err := store.GetComment(ctx, s.db, parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.SnapshotID != snapshotID {
			return nil, fmt.Errorf("parent comment %s: %w", parentID, model.ErrNotFound)
		}
		if parent.ParentID != "" {
			return nil, fmt.Errorf("replies cannot nest below one level: %w", model.ErrInvariantViolation)
		}
	}

	author, err := store.GetUser(ctx, s.db, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, model.ErrUnauthenticated
	}

	return store.CreateComment(ctx, s.db, &model.Comment{
		SnapshotID: snapshotID,
		ParentID:   parentID,
		AuthorID:   author.ID,
		AuthorName: author.AuthorLabel(),
		Content:    content,
	})
}

// Comments returns a snapshot's comments, oldest first.
func (s *Service) Comments(ctx context.Context, snapshotID string) ([]model.Comment, error) {
	if _, err := s.Get(ctx, snapshotID); err != nil {
		return nil, err
	}
	return store.ListComments(ctx, s.db, snapshotID)
}

// GetComment returns a comment by ID.
func (s *Service) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	comment, err := store.GetComment(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, fmt.Errorf("comment %s: %w", id, model.ErrNotFound)
	}
	return comment, nil
}

// DeleteComment removes a comment and its replies.
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	if _, err := s.GetComment(ctx, id); err != nil {
		return err
	}
	return store.DeleteComment(ctx, s.db, id)
}
