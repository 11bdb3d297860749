package model

import "time"

// CommunitySnapshot is a publish-time copy of one recipe version. It is
// independent of its source: edits here never write back to the recipe,
// and later edits to the recipe never propagate here.
type CommunitySnapshot struct {
	ID             string       `json:"id"`
	SourceRecipeID string       `json:"source_recipe_id,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Ingredients    []Ingredient `json:"ingredients"`
	Steps          []string     `json:"steps"`
	AuthorID       string       `json:"author_id"`
	AuthorName     string       `json:"author_name,omitempty"`
	ImageMime      string       `json:"image_mime,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	LikeCount      int          `json:"like_count"`
	ViewCount      int          `json:"view_count"`
}

// Comment belongs to a community snapshot. Nesting is at most one level:
// a reply's ParentID must reference a root comment, never another reply.
type Comment struct {
	ID         string    `json:"id"`
	SnapshotID string    `json:"snapshot_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
