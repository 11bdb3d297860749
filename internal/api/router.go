package api

import (
	"database/sql"
	"net/http"

	"kitchenlog/internal/community"
	"kitchenlog/internal/recipes"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	lineage := recipes.NewService(db)
	social := community.NewService(db, lineage)

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	inventoryHandler := &InventoryHandler{DB: db}
	productsHandler := &ProductsHandler{DB: db}
	recipesHandler := &RecipesHandler{Recipes: lineage}
	communityHandler := &CommunityHandler{DB: db, Community: social}
	recommendHandler := &RecommendHandler{DB: db, Recipes: lineage}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Account management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("PUT /api/auth/profile", authMW(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("DELETE /api/auth/account", authMW(http.HandlerFunc(authHandler.DeleteAccount)))

	// Inventory.
	mux.Handle("GET /api/inventory", authMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("POST /api/inventory", authMW(http.HandlerFunc(inventoryHandler.Create)))
	mux.Handle("GET /api/inventory/expiring", authMW(http.HandlerFunc(inventoryHandler.Expiring)))
	mux.Handle("GET /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Get)))
	mux.Handle("PUT /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Update)))
	mux.Handle("DELETE /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Delete)))

	// Products and the barcode catalog.
	mux.Handle("GET /api/products", authMW(http.HandlerFunc(productsHandler.List)))
	mux.Handle("POST /api/products", authMW(http.HandlerFunc(productsHandler.Create)))
	mux.Handle("DELETE /api/products/{id}", authMW(http.HandlerFunc(productsHandler.Delete)))
	mux.Handle("GET /api/barcodes/{code}", authMW(http.HandlerFunc(productsHandler.LookupBarcode)))

	// Recipes and their version lineage.
	mux.Handle("GET /api/recipes", authMW(http.HandlerFunc(recipesHandler.List)))
	mux.Handle("POST /api/recipes", authMW(http.HandlerFunc(recipesHandler.Create)))
	mux.Handle("GET /api/recipes/{id}", authMW(http.HandlerFunc(recipesHandler.Get)))
	mux.Handle("PUT /api/recipes/{id}", authMW(http.HandlerFunc(recipesHandler.Update)))
	mux.Handle("DELETE /api/recipes/{id}", authMW(http.HandlerFunc(recipesHandler.Delete)))
	mux.Handle("GET /api/recipes/{id}/versions", authMW(http.HandlerFunc(recipesHandler.ListVersions)))
	mux.Handle("POST /api/recipes/{id}/versions", authMW(http.HandlerFunc(recipesHandler.AppendVersion)))
	mux.Handle("PUT /api/recipes/{id}/versions/{index}", authMW(http.HandlerFunc(recipesHandler.EditVersion)))
	mux.Handle("DELETE /api/recipes/{id}/versions/{index}", authMW(http.HandlerFunc(recipesHandler.DeleteVersion)))
	mux.Handle("PUT /api/recipes/{id}/current", authMW(http.HandlerFunc(recipesHandler.SetPrimary)))

	// Community: browsing is public, everything else needs a token.
	mux.HandleFunc("GET /api/community", communityHandler.List)
	mux.HandleFunc("GET /api/community/{id}", communityHandler.Get)
	mux.HandleFunc("GET /api/community/{id}/comments", communityHandler.ListComments)
	mux.HandleFunc("GET /api/community/{id}/image", communityHandler.GetImage)
	mux.Handle("POST /api/community", authMW(http.HandlerFunc(communityHandler.Publish)))
	mux.Handle("PUT /api/community/{id}", authMW(http.HandlerFunc(communityHandler.Edit)))
	mux.Handle("DELETE /api/community/{id}", authMW(http.HandlerFunc(communityHandler.Delete)))
	mux.Handle("POST /api/community/{id}/like", authMW(http.HandlerFunc(communityHandler.ToggleLike)))
	mux.Handle("POST /api/community/{id}/import", authMW(http.HandlerFunc(communityHandler.Import)))
	mux.Handle("POST /api/community/{id}/comments", authMW(http.HandlerFunc(communityHandler.AddComment)))
	mux.Handle("PUT /api/community/{id}/image", authMW(http.HandlerFunc(communityHandler.UploadImage)))
	mux.Handle("DELETE /api/comments/{id}", authMW(http.HandlerFunc(communityHandler.DeleteComment)))

	// Recommendations and the dashboard summary.
	mux.Handle("GET /api/recommend", authMW(http.HandlerFunc(recommendHandler.Recommend)))
	mux.Handle("GET /api/dashboard", authMW(http.HandlerFunc(recommendHandler.Dashboard)))

	return mux
}
