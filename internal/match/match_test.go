package match

import (
	"testing"
	"time"

	"kitchenlog/internal/model"
)

var today = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func stockItem(name string, daysFromNow int) model.InventoryItem {
	return model.InventoryItem{
		ID:         name + "-id",
		Name:       name,
		ExpiryDate: today.AddDate(0, 0, daysFromNow),
	}
}

func TestMatchNormalization(t *testing.T) {
	stock := []model.InventoryItem{stockItem("milk", 10)}

	results := Match([]model.Ingredient{{Name: " Milk "}}, stock, today)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Matched() {
		t.Error("expected ' Milk ' to match 'milk' after normalization")
	}

	results = Match([]model.Ingredient{{Name: "Milk"}}, []model.InventoryItem{stockItem("Milks", 10)}, today)
	if results[0].Matched() {
		t.Error("expected no partial match between 'Milk' and 'Milks'")
	}
}

func TestMatchFirstStockItemWins(t *testing.T) {
	stock := []model.InventoryItem{stockItem("egg", 2), stockItem("Egg", 30)}

	results := Match([]model.Ingredient{{Name: "egg"}}, stock, today)
	if !results[0].Matched() {
		t.Fatal("expected a match")
	}
	if results[0].Stock.ID != "egg-id" {
		t.Errorf("expected first stock item to win, got %q", results[0].Stock.ID)
	}
}

func TestMatchTiers(t *testing.T) {
	tests := []struct {
		days int
		tier string
	}{
		{-1, TierExpired},
		{0, TierCritical},
		{3, TierCritical},
		{4, TierSoon},
		{7, TierSoon},
		{8, TierNone},
		{30, TierNone},
	}

	for _, tt := range tests {
		stock := []model.InventoryItem{stockItem("tofu", tt.days)}
		results := Match([]model.Ingredient{{Name: "tofu"}}, stock, today)
		if results[0].Tier != tt.tier {
			t.Errorf("days=%d: tier = %q, want %q", tt.days, results[0].Tier, tt.tier)
		}
		if results[0].DaysLeft != tt.days {
			t.Errorf("days=%d: DaysLeft = %d", tt.days, results[0].DaysLeft)
		}
	}
}

func TestMatchUnmatchedTierNone(t *testing.T) {
	results := Match([]model.Ingredient{{Name: "saffron"}}, nil, today)
	if results[0].Matched() {
		t.Error("expected no match against empty stock")
	}
	if results[0].Tier != TierNone {
		t.Errorf("unmatched tier = %q, want %q", results[0].Tier, TierNone)
	}
}

func TestDaysUntilExpiryCalendarGranularity(t *testing.T) {
	// Expiry just after midnight tomorrow, queried late today: still 1 day.
	expiry := time.Date(2026, 3, 11, 0, 5, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC)
	if got := DaysUntilExpiry(expiry, now); got != 1 {
		t.Errorf("DaysUntilExpiry = %d, want 1", got)
	}
}
