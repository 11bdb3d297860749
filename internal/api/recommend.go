package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"kitchenlog/internal/match"
	"kitchenlog/internal/model"
	"kitchenlog/internal/recipes"
	"kitchenlog/internal/recommend"
	"kitchenlog/internal/store"
)

// RecommendHandler serves the expiry-weighted recipe recommendations.
type RecommendHandler struct {
	DB      *sql.DB
	Recipes *recipes.Service
}

const defaultRecommendLimit = 5

// Recommend handles GET /api/recommend?ingredient=&limit=&variety=.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())

	limit := defaultRecommendLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			jsonError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	owned, err := h.Recipes.List(r.Context(), uid)
	if err != nil {
		serviceError(w, err)
		return
	}
	stock, err := store.ListInventory(r.Context(), h.DB, uid)
	if err != nil {
		serviceError(w, err)
		return
	}

	ranked := recommend.Recommend(owned, stock, recommend.Options{
		PinnedIngredient: r.URL.Query().Get("ingredient"),
		TopN:             limit,
		Variety:          r.URL.Query().Get("variety") == "true",
	}, time.Now())
	if ranked == nil {
		ranked = []recommend.RankedRecipe{}
	}

	jsonResponse(w, http.StatusOK, ranked)
}

type dashboardResponse struct {
	StockCount     int                       `json:"stock_count"`
	RecipeCount    int                       `json:"recipe_count"`
	ExpiringCount  int                       `json:"expiring_count"`
	Expiring       []model.InventoryItem     `json:"expiring"`
	Recommendation *recommend.RankedRecipe   `json:"recommendation,omitempty"`
}

// Dashboard handles GET /api/dashboard with a stock summary and the single
// best recommendation.
func (h *RecommendHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())

	stock, err := store.ListInventory(r.Context(), h.DB, uid)
	if err != nil {
		serviceError(w, err)
		return
	}
	owned, err := h.Recipes.List(r.Context(), uid)
	if err != nil {
		serviceError(w, err)
		return
	}

	now := time.Now()
	expiring := []model.InventoryItem{}
	for _, item := range stock {
		left := match.DaysUntilExpiry(item.ExpiryDate, now)
		if left >= 0 && left <= 7 {
			expiring = append(expiring, item)
		}
	}

	resp := dashboardResponse{
		StockCount:    len(stock),
		RecipeCount:   len(owned),
		ExpiringCount: len(expiring),
		Expiring:      expiring,
	}

	if ranked := recommend.Recommend(owned, stock, recommend.Options{TopN: 1}, now); len(ranked) > 0 {
		resp.Recommendation = &ranked[0]
	}

	jsonResponse(w, http.StatusOK, resp)
}
