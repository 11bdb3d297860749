// Package recommend ranks recipes by how well their current version's
// ingredients line up with stock that needs using up.
package recommend

import (
	"math/rand"
	"sort"
	"time"

	"kitchenlog/internal/match"
	"kitchenlog/internal/model"
)

// Score weights.
const (
	baseScore     = 1    // per matched ingredient
	soonBonus     = 10   // matched item expires in 4-7 days
	criticalBonus = 20   // matched item expires in 0-3 days
	pinnedBonus   = 1000 // recipe lists the pinned ingredient
)

// varietyPoolSize is how many of the top candidates the variety mode
// samples from.
const varietyPoolSize = 5

// Options controls filtering, ranking and selection.
type Options struct {
	// PinnedIngredient, when set, restricts results to recipes listing the
	// ingredient by name (normalized) and force-ranks them above all others.
	PinnedIngredient string

	// TopN caps the number of results. Zero means no cap.
	TopN int

	// Variety enables the randomized pick of 1-2 recipes among the top
	// scored candidates instead of a deterministic head slice.
	Variety bool

	// Rand drives the variety selection. Leave nil for time-seeded
	// randomness; inject a fixed seed in tests.
	Rand *rand.Rand
}

// RankedRecipe is one scored candidate.
type RankedRecipe struct {
	Recipe        *model.Recipe  `json:"recipe"`
	Score         int            `json:"score"`
	Matches       []match.Result `json:"matches"`
	ExpiringNames []string       `json:"expiring_names,omitempty"`
}

// Recommend scores every recipe's current version against the stock and
// returns a ranked, filtered candidate list as of today. Pure: recomputed
// from scratch on every call, ties keep input order (stable sort).
func Recommend(recipes []model.Recipe, stock []model.InventoryItem, opts Options, today time.Time) []RankedRecipe {
	pinned := match.Normalize(opts.PinnedIngredient)

	var ranked []RankedRecipe
	for i := range recipes {
		recipe := &recipes[i]
		current := recipe.CurrentVersion()
		if current == nil {
			continue
		}

		results := match.Match(current.Ingredients, stock, today)

		score := 0
		var expiring []string
		hasPinned := false
		for _, res := range results {
			if pinned != "" && match.Normalize(res.Ingredient.Name) == pinned {
				hasPinned = true
			}
			if !res.Matched() {
				continue
			}
			score += baseScore
			switch res.Tier {
			case match.TierSoon:
				score += soonBonus
			case match.TierCritical:
				score += criticalBonus
			}
			// Expired stock earns only the base point: it should not be
			// promoted as if it were fresh.
			if res.Tier == match.TierSoon || res.Tier == match.TierCritical {
				expiring = appendUnique(expiring, res.Stock.Name)
			}
		}

		if pinned != "" {
			if !hasPinned {
				continue
			}
			score += pinnedBonus
		} else if score == 0 {
			// Zero ingredient overlap is never a recommendation.
			continue
		}

		ranked = append(ranked, RankedRecipe{
			Recipe:        recipe,
			Score:         score,
			Matches:       results,
			ExpiringNames: expiring,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if opts.Variety {
		ranked = pickVariety(ranked, opts.Rand)
	}
	if opts.TopN > 0 && len(ranked) > opts.TopN {
		ranked = ranked[:opts.TopN]
	}
	return ranked
}

// pickVariety chooses 1-2 random candidates among the top scored ones,
// keeping score order in the output.
func pickVariety(ranked []RankedRecipe, rng *rand.Rand) []RankedRecipe {
	if len(ranked) <= 1 {
		return ranked
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	pool := len(ranked)
	if pool > varietyPoolSize {
		pool = varietyPoolSize
	}
	want := 1 + rng.Intn(2)
	if want > pool {
		want = pool
	}

	indices := rng.Perm(pool)[:want]
	sort.Ints(indices)

	out := make([]RankedRecipe, 0, want)
	for _, idx := range indices {
		out = append(out, ranked[idx])
	}
	return out
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
