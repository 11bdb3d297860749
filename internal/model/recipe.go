package model

import "time"

// Ingredient is one entry of a recipe version's ingredient list. It is
// embedded in its version (never an independently addressable record).
type Ingredient struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	IsRequired bool   `json:"is_required"`
}

// RecipeVersion is one history entry of a recipe's lineage. Seq is an
// internal monotonic sequence number that fixes storage order; Label is a
// free-form display string decoupled from ordering.
type RecipeVersion struct {
	Seq         int64        `json:"seq"`
	Label       string       `json:"label"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	ChangeNotes string       `json:"change_notes"`
	PrivateMemo string       `json:"private_memo,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Recipe is the lineage aggregate. Versions are owned exclusively by the
// recipe; after creation it always holds at least one version, and
// CurrentLabel always names one of them.
type Recipe struct {
	ID                string          `json:"id"`
	OwnerID           string          `json:"owner_id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	CurrentLabel      string          `json:"current_version"`
	Versions          []RecipeVersion `json:"versions"`
	NextSeq           int64           `json:"-"`
	SourceAuthorLabel string          `json:"source_author,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// FirstVersionLabel is the label given to the initial version of every
// recipe, including imported ones.
const FirstVersionLabel = "1.0"

// CurrentVersion returns the version whose label matches CurrentLabel, or
// nil if none does. When labels are duplicated the first match in storage
// order wins.
func (r *Recipe) CurrentVersion() *RecipeVersion {
	for i := range r.Versions {
		if r.Versions[i].Label == r.CurrentLabel {
			return &r.Versions[i]
		}
	}
	return nil
}

// HasVersionLabel reports whether any version carries the given label.
func (r *Recipe) HasVersionLabel(label string) bool {
	for i := range r.Versions {
		if r.Versions[i].Label == label {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the recipe, so cached aggregates can be
// handed out without sharing version or ingredient slices with callers.
func (r *Recipe) Clone() *Recipe {
	out := *r
	out.Versions = make([]RecipeVersion, len(r.Versions))
	for i, v := range r.Versions {
		out.Versions[i] = v.Clone()
	}
	return &out
}

// Clone returns a deep copy of the version.
func (v RecipeVersion) Clone() RecipeVersion {
	out := v
	out.Ingredients = append([]Ingredient(nil), v.Ingredients...)
	out.Steps = append([]string(nil), v.Steps...)
	return out
}
