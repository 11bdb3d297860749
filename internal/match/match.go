// Package match pairs recipe ingredients with inventory stock and grades
// how urgently each matched item needs to be used up.
package match

import (
	"strings"
	"time"

	"kitchenlog/internal/model"
)

// Urgency tiers, derived from calendar days until expiry.
const (
	TierExpired  = "expired"  // past its date
	TierCritical = "critical" // 0-3 days left
	TierSoon     = "soon"     // 4-7 days left
	TierNone     = "none"     // more than 7 days, or no match
)

// Tier thresholds in days.
const (
	criticalDays = 3
	soonDays     = 7
)

// Result is the outcome for a single ingredient: the first stock item whose
// normalized name equals the ingredient's, or nil when nothing matches.
type Result struct {
	Ingredient model.Ingredient     `json:"ingredient"`
	Stock      *model.InventoryItem `json:"stock,omitempty"`
	Tier       string               `json:"tier"`
	DaysLeft   int                  `json:"days_left"`
}

// Matched reports whether a stock item was found for the ingredient.
func (r Result) Matched() bool {
	return r.Stock != nil
}

// Normalize produces the lookup key for ingredient/stock names: trimmed,
// lowercased, exact equality only. No partial or fuzzy matching; "Milk"
// and "Milks" are distinct on purpose.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Match returns one Result per ingredient against the given stock, graded
// as of today. Pure function: no side effects, no caching.
func Match(ingredients []model.Ingredient, stock []model.InventoryItem, today time.Time) []Result {
	results := make([]Result, 0, len(ingredients))
	for _, ing := range ingredients {
		res := Result{Ingredient: ing, Tier: TierNone}
		key := Normalize(ing.Name)
		for i := range stock {
			if Normalize(stock[i].Name) == key {
				item := stock[i]
				res.Stock = &item
				res.DaysLeft = DaysUntilExpiry(item.ExpiryDate, today)
				res.Tier = tierFor(res.DaysLeft)
				break
			}
		}
		results = append(results, res)
	}
	return results
}

// DaysUntilExpiry computes whole calendar days between today and the expiry
// date, ignoring time-of-day. Negative means already expired.
func DaysUntilExpiry(expiry, today time.Time) int {
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}

func tierFor(daysLeft int) string {
	switch {
	case daysLeft < 0:
		return TierExpired
	case daysLeft <= criticalDays:
		return TierCritical
	case daysLeft <= soonDays:
		return TierSoon
	default:
		return TierNone
	}
}
