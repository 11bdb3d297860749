// Package recipes owns the recipe lineage aggregate: the append-only
// version history and its current-version pointer. Every recipe holds at
// least one version, and the current pointer always names one of them;
// operations that would break either invariant are rejected before any
// write.
package recipes

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"kitchenlog/internal/model"
	"kitchenlog/internal/store"
)

// Service mediates all lineage mutations through an explicit in-memory
// cache over the persistence layer. Writes go to the store first; the
// cache is only updated once the write succeeds, so a gateway failure
// leaves the cached aggregate untouched and the operation can be retried.
type Service struct {
	db *sql.DB

	mu    sync.RWMutex
	cache map[string]*model.Recipe
}

// NewService creates a lineage service over the given database.
func NewService(db *sql.DB) *Service {
	return &Service{
		db:    db,
		cache: make(map[string]*model.Recipe),
	}
}

// Create makes a new recipe with exactly one empty version labeled "1.0".
func (s *Service) Create(ctx context.Context, ownerID, title, description string) (*model.Recipe, error) {
	if ownerID == "" {
		return nil, model.ErrUnauthenticated
	}

	recipe := &model.Recipe{
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		CurrentLabel: model.FirstVersionLabel,
		Versions: []model.RecipeVersion{{
			Seq:         1,
			Label:       model.FirstVersionLabel,
			Ingredients: []model.Ingredient{},
			Steps:       []string{},
			CreatedAt:   time.Now().UTC(),
		}},
		NextSeq: 2,
	}

	created, err := store.CreateRecipe(ctx, s.db, recipe)
	if err != nil {
		return nil, err
	}

	s.put(created)
	return created.Clone(), nil
}

// CreateWithVersion makes a new recipe whose single "1.0" version already
// carries content. Used by snapshot import; the created lineage is fully
// independent of whatever the content was copied from.
func (s *Service) CreateWithVersion(ctx context.Context, ownerID, title, description string, v model.RecipeVersion, sourceAuthor string) (*model.Recipe, error) {
	if ownerID == "" {
		return nil, model.ErrUnauthenticated
	}

	v = v.Clone()
	v.Seq = 1
	v.Label = model.FirstVersionLabel
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	if v.Ingredients == nil {
		v.Ingredients = []model.Ingredient{}
	}
	if v.Steps == nil {
		v.Steps = []string{}
	}

	recipe := &model.Recipe{
		OwnerID:           ownerID,
		Title:             title,
		Description:       description,
		CurrentLabel:      model.FirstVersionLabel,
		Versions:          []model.RecipeVersion{v},
		NextSeq:           2,
		SourceAuthorLabel: sourceAuthor,
	}

	created, err := store.CreateRecipe(ctx, s.db, recipe)
	if err != nil {
		return nil, err
	}

	s.put(created)
	return created.Clone(), nil
}

// Get returns a recipe aggregate by ID.
func (s *Service) Get(ctx context.Context, id string) (*model.Recipe, error) {
	if cached := s.cached(id); cached != nil {
		return cached, nil
	}

	recipe, err := store.GetRecipe(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, fmt.Errorf("recipe %s: %w", id, model.ErrNotFound)
	}

	s.put(recipe)
	return recipe.Clone(), nil
}

// List returns a user's recipes, newest first, refreshing the cache.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.Recipe, error) {
	recipes, err := store.ListRecipes(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range recipes {
		s.cache[recipes[i].ID] = recipes[i].Clone()
	}
	s.mu.Unlock()

	return recipes, nil
}

// UpdateMetadata changes a recipe's title and description.
func (s *Service) UpdateMetadata(ctx context.Context, id, title, description string) (*model.Recipe, error) {
	return s.mutate(ctx, id, func(r *model.Recipe) error {
		r.Title = title
		r.Description = description
		return nil
	})
}

// AppendVersion appends a version to the lineage. The newest recorded
// version always becomes current.
func (s *Service) AppendVersion(ctx context.Context, id string, v model.RecipeVersion) (*model.Recipe, error) {
	return s.mutate(ctx, id, func(r *model.Recipe) error {
		v = v.Clone()
		v.Seq = r.NextSeq
		r.NextSeq++
		if v.CreatedAt.IsZero() {
			v.CreatedAt = time.Now().UTC()
		}
		if v.Ingredients == nil {
			v.Ingredients = []model.Ingredient{}
		}
		if v.Steps == nil {
			v.Steps = []string{}
		}
		r.Versions = append(r.Versions, v)
		r.CurrentLabel = v.Label
		return nil
	})
}

// EditVersion replaces the entry at index in place, preserving its original
// createdAt and sequence number. Editing the last entry re-points current
// at the (possibly relabeled) version so "current" stays meaningful after
// a correction to the latest entry. Relabeling the current version from
// any index moves the pointer with it, so current always names a stored
// version.
func (s *Service) EditVersion(ctx context.Context, id string, index int, v model.RecipeVersion) (*model.Recipe, error) {
	return s.mutate(ctx, id, func(r *model.Recipe) error {
		if index < 0 || index >= len(r.Versions) {
			return fmt.Errorf("version index %d: %w", index, model.ErrNotFound)
		}

		original := r.Versions[index]
		v = v.Clone()
		v.Seq = original.Seq
		v.CreatedAt = original.CreatedAt
		if v.Ingredients == nil {
			v.Ingredients = []model.Ingredient{}
		}
		if v.Steps == nil {
			v.Steps = []string{}
		}
		r.Versions[index] = v

		if index == len(r.Versions)-1 || original.Label == r.CurrentLabel {
			r.CurrentLabel = v.Label
		}
		return nil
	})
}

// DeleteVersion removes the entry at index. The sole remaining version can
// never be deleted. If the removed version was current, current moves to
// whichever version is now last in storage order.
func (s *Service) DeleteVersion(ctx context.Context, id string, index int) (*model.Recipe, error) {
	return s.mutate(ctx, id, func(r *model.Recipe) error {
		if index < 0 || index >= len(r.Versions) {
			return fmt.Errorf("version index %d: %w", index, model.ErrNotFound)
		}
		if len(r.Versions) == 1 {
			return fmt.Errorf("cannot delete the only version: %w", model.ErrInvariantViolation)
		}

		removed := r.Versions[index]
		r.Versions = append(r.Versions[:index], r.Versions[index+1:]...)

		if removed.Label == r.CurrentLabel {
			r.CurrentLabel = r.Versions[len(r.Versions)-1].Label
		}
		return nil
	})
}

// SetPrimary points current at any existing label. This is the only
// operation that can make an older version current again.
func (s *Service) SetPrimary(ctx context.Context, id, label string) (*model.Recipe, error) {
	return s.mutate(ctx, id, func(r *model.Recipe) error {
		if !r.HasVersionLabel(label) {
			return fmt.Errorf("no version labeled %q: %w", label, model.ErrInvariantViolation)
		}
		r.CurrentLabel = label
		return nil
	})
}

// Delete removes the aggregate. Published snapshots are independent copies
// and survive.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := store.DeleteRecipe(ctx, s.db, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
	return nil
}

// DisplayOrder returns the versions as presented: the current version
// first, then all others newest-appended first.
func DisplayOrder(r *model.Recipe) []model.RecipeVersion {
	out := make([]model.RecipeVersion, 0, len(r.Versions))

	currentIdx := -1
	for i := range r.Versions {
		if r.Versions[i].Label == r.CurrentLabel {
			currentIdx = i
			break
		}
	}
	if currentIdx >= 0 {
		out = append(out, r.Versions[currentIdx])
	}
	for i := len(r.Versions) - 1; i >= 0; i-- {
		if i == currentIdx {
			continue
		}
		out = append(out, r.Versions[i])
	}
	return out
}

// mutate loads the aggregate, applies fn to a working copy, writes it
// through, and only then swaps it into the cache. Any error from fn or the
// store leaves both the cache and the database row unchanged.
func (s *Service) mutate(ctx context.Context, id string, fn func(*model.Recipe) error) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(recipe); err != nil {
		return nil, err
	}

	if err := store.UpdateRecipe(ctx, s.db, recipe); err != nil {
		return nil, err
	}

	s.put(recipe)
	return recipe.Clone(), nil
}

func (s *Service) cached(id string) *model.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.cache[id]; ok {
		return r.Clone()
	}
	return nil
}

func (s *Service) put(r *model.Recipe) {
	s.mu.Lock()
	s.cache[r.ID] = r.Clone()
	s.mu.Unlock()
}
