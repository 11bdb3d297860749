package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kitchenlog/internal/db"
	"kitchenlog/internal/model"
	"kitchenlog/internal/recommend"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// registerAndLogin creates an account through the API and returns a token.
func registerAndLogin(t *testing.T, server *httptest.Server, username, displayName string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username":     username,
		"display_name": displayName,
		"password":     "password123",
	})
	resp, err := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: %d", resp.StatusCode)
	}

	body, _ = json.Marshal(map[string]string{"username": username, "password": "password123"})
	resp, err = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// doJSON runs an authenticated request, asserts the status code and decodes
// the response into out when it is non-nil.
func doJSON(t *testing.T, method, url, token string, body any, wantStatus int, out any) {
	t.Helper()
	req, err := authRequest(method, url, token, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", method, url, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func TestLoginEndpoint(t *testing.T) {
	server := setupTestServer(t)
	registerAndLogin(t, server, "cook", "Cook")

	body, _ := json.Marshal(map[string]string{"username": "cook", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/inventory")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The community feed is public.
	resp, _ = http.Get(server.URL + "/api/community")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for public community feed, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestInventoryAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "cook", "Cook")

	var item model.InventoryItem
	doJSON(t, "POST", server.URL+"/api/inventory", token, map[string]any{
		"name":             "Milk",
		"storage_location": "FRIDGE",
		"quantity":         "1",
		"expiry_date":      time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	}, http.StatusCreated, &item)
	if item.ID == "" {
		t.Fatal("created item has no id")
	}

	doJSON(t, "POST", server.URL+"/api/inventory", token, map[string]any{
		"name":             "Flour",
		"storage_location": "PANTRY",
		"quantity":         "1",
		"expiry_date":      time.Now().AddDate(0, 6, 0).Format("2006-01-02"),
	}, http.StatusCreated, nil)

	var items []model.InventoryItem
	doJSON(t, "GET", server.URL+"/api/inventory", token, nil, http.StatusOK, &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	var expiring []model.InventoryItem
	doJSON(t, "GET", server.URL+"/api/inventory/expiring?days=7", token, nil, http.StatusOK, &expiring)
	if len(expiring) != 1 || expiring[0].Name != "Milk" {
		t.Errorf("expected only Milk expiring within 7 days, got %+v", expiring)
	}

	// A second user must not see or touch the first user's stock.
	other := registerAndLogin(t, server, "guest", "Guest")
	var otherItems []model.InventoryItem
	doJSON(t, "GET", server.URL+"/api/inventory", other, nil, http.StatusOK, &otherItems)
	if len(otherItems) != 0 {
		t.Errorf("expected empty inventory for second user, got %d items", len(otherItems))
	}
	doJSON(t, "DELETE", server.URL+"/api/inventory/"+item.ID, other, nil, http.StatusNotFound, nil)
}

func TestRecipeVersioningAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "cook", "Cook")

	var recipe model.Recipe
	doJSON(t, "POST", server.URL+"/api/recipes", token, map[string]string{
		"title":       "Omelette",
		"description": "Quick breakfast",
	}, http.StatusCreated, &recipe)
	if recipe.CurrentLabel != model.FirstVersionLabel {
		t.Fatalf("expected current version %q, got %q", model.FirstVersionLabel, recipe.CurrentLabel)
	}

	base := server.URL + "/api/recipes/" + recipe.ID

	doJSON(t, "POST", base+"/versions", token, map[string]any{
		"label": "1.1",
		"ingredients": []map[string]any{
			{"name": "Egg", "amount": "3", "is_required": true},
			{"name": "Cheese", "amount": "50g"},
		},
		"steps":        []string{"Whisk", "Fry"},
		"change_notes": "Added cheese",
	}, http.StatusCreated, &recipe)
	if recipe.CurrentLabel != "1.1" {
		t.Errorf("append should re-point the current version, got %q", recipe.CurrentLabel)
	}
	if len(recipe.Versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(recipe.Versions))
	}

	// Re-point to the original, then drop the appended one.
	doJSON(t, "PUT", base+"/current", token, map[string]string{"label": "1.0"}, http.StatusOK, &recipe)
	if recipe.CurrentLabel != "1.0" {
		t.Errorf("expected current 1.0, got %q", recipe.CurrentLabel)
	}
	doJSON(t, "PUT", base+"/current", token, map[string]string{"label": "9.9"}, http.StatusConflict, nil)

	doJSON(t, "DELETE", base+"/versions/1", token, nil, http.StatusOK, &recipe)
	if len(recipe.Versions) != 1 {
		t.Fatalf("expected 1 version after delete, got %d", len(recipe.Versions))
	}

	// The sole remaining version cannot be removed.
	doJSON(t, "DELETE", base+"/versions/0", token, nil, http.StatusConflict, nil)

	// A non-owner gets a 404, not a 403, to avoid leaking existence.
	other := registerAndLogin(t, server, "guest", "Guest")
	doJSON(t, "GET", base, other, nil, http.StatusNotFound, nil)
}

func TestCommunityAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	author := registerAndLogin(t, server, "chef", "Chef Kim")
	reader := registerAndLogin(t, server, "reader", "Reader")

	var recipe model.Recipe
	doJSON(t, "POST", server.URL+"/api/recipes", author, map[string]string{
		"title": "Kimchi Stew",
	}, http.StatusCreated, &recipe)
	doJSON(t, "POST", server.URL+"/api/recipes/"+recipe.ID+"/versions", author, map[string]any{
		"label": "1.1",
		"ingredients": []map[string]any{
			{"name": "Kimchi", "amount": "300g", "is_required": true},
		},
		"steps":        []string{"Boil"},
		"private_memo": "secret ratio",
	}, http.StatusCreated, &recipe)

	var snapshot model.CommunitySnapshot
	doJSON(t, "POST", server.URL+"/api/community", author, map[string]string{
		"recipe_id":     recipe.ID,
		"version_label": "1.1",
	}, http.StatusCreated, &snapshot)
	if snapshot.AuthorName != "Chef Kim" {
		t.Errorf("expected author name Chef Kim, got %q", snapshot.AuthorName)
	}

	// Reading the feed needs no token.
	resp, _ := http.Get(server.URL + "/api/community/" + snapshot.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 reading snapshot, got %d", resp.StatusCode)
	}
	var got model.CommunitySnapshot
	json.NewDecoder(resp.Body).Decode(&got)
	resp.Body.Close()
	if got.ViewCount != 1 {
		t.Errorf("expected view count 1, got %d", got.ViewCount)
	}

	// Only the author may edit or delete.
	doJSON(t, "PUT", server.URL+"/api/community/"+snapshot.ID, reader, map[string]string{
		"title": "Hijacked",
	}, http.StatusForbidden, nil)

	// Nobody can publish a recipe they do not own, even knowing its ID.
	doJSON(t, "POST", server.URL+"/api/community", reader, map[string]string{
		"recipe_id":     recipe.ID,
		"version_label": "1.1",
	}, http.StatusNotFound, nil)

	var likeResp struct {
		Liked     bool `json:"liked"`
		LikeCount int  `json:"like_count"`
	}
	doJSON(t, "POST", server.URL+"/api/community/"+snapshot.ID+"/like", reader, nil, http.StatusOK, &likeResp)
	if !likeResp.Liked || likeResp.LikeCount != 1 {
		t.Errorf("expected liked with count 1, got %+v", likeResp)
	}
	doJSON(t, "POST", server.URL+"/api/community/"+snapshot.ID+"/like", reader, nil, http.StatusOK, &likeResp)
	if likeResp.Liked || likeResp.LikeCount != 0 {
		t.Errorf("expected unliked with count 0, got %+v", likeResp)
	}

	// Import gives the reader an independent single-version copy.
	var imported model.Recipe
	doJSON(t, "POST", server.URL+"/api/community/"+snapshot.ID+"/import", reader, nil, http.StatusCreated, &imported)
	if imported.CurrentLabel != model.FirstVersionLabel {
		t.Errorf("imported recipe should start at %q, got %q", model.FirstVersionLabel, imported.CurrentLabel)
	}
	if imported.SourceAuthorLabel != "Chef Kim" {
		t.Errorf("expected provenance Chef Kim, got %q", imported.SourceAuthorLabel)
	}
	if len(imported.Versions) != 1 || imported.Versions[0].PrivateMemo != "" {
		t.Errorf("imported version must not carry the source private memo")
	}

	// One level of comment nesting.
	var root model.Comment
	doJSON(t, "POST", server.URL+"/api/community/"+snapshot.ID+"/comments", reader, map[string]string{
		"content": "Looks great",
	}, http.StatusCreated, &root)
	var reply model.Comment
	doJSON(t, "POST", server.URL+"/api/community/"+snapshot.ID+"/comments", author, map[string]string{
		"parent_id": root.ID,
		"content":   "Thanks",
	}, http.StatusCreated, &reply)
	doJSON(t, "POST", server.URL+"/api/community/"+snapshot.ID+"/comments", reader, map[string]string{
		"parent_id": reply.ID,
		"content":   "Too deep",
	}, http.StatusConflict, nil)

	doJSON(t, "DELETE", server.URL+"/api/comments/"+root.ID, author, nil, http.StatusForbidden, nil)
	doJSON(t, "DELETE", server.URL+"/api/comments/"+root.ID, reader, nil, http.StatusOK, nil)
}

func TestRecommendEndpoint(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "cook", "Cook")

	// Eggs expire in two days, flour is fine for months.
	doJSON(t, "POST", server.URL+"/api/inventory", token, map[string]any{
		"name":             "Egg",
		"storage_location": "FRIDGE",
		"quantity":         "6",
		"expiry_date":      time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	}, http.StatusCreated, nil)
	doJSON(t, "POST", server.URL+"/api/inventory", token, map[string]any{
		"name":             "Flour",
		"storage_location": "PANTRY",
		"quantity":         "1",
		"expiry_date":      time.Now().AddDate(0, 6, 0).Format("2006-01-02"),
	}, http.StatusCreated, nil)

	var recipe model.Recipe
	doJSON(t, "POST", server.URL+"/api/recipes", token, map[string]string{
		"title": "Omelette",
	}, http.StatusCreated, &recipe)
	doJSON(t, "POST", server.URL+"/api/recipes/"+recipe.ID+"/versions", token, map[string]any{
		"label": "1.1",
		"ingredients": []map[string]any{
			{"name": "Egg", "amount": "3", "is_required": true},
		},
		"steps": []string{"Whisk", "Fry"},
	}, http.StatusCreated, nil)

	var ranked []recommend.RankedRecipe
	doJSON(t, "GET", server.URL+"/api/recommend", token, nil, http.StatusOK, &ranked)
	if len(ranked) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(ranked))
	}
	// Base point plus the critical-window bonus.
	if ranked[0].Score != 21 {
		t.Errorf("expected score 21, got %d", ranked[0].Score)
	}

	// Pinning an ingredient no recipe uses filters everything out.
	doJSON(t, "GET", server.URL+"/api/recommend?ingredient=tofu", token, nil, http.StatusOK, &ranked)
	for _, rr := range ranked {
		t.Errorf("expected no results for pinned tofu, got %s", rr.Recipe.Title)
	}

	var dash struct {
		StockCount     int                      `json:"stock_count"`
		RecipeCount    int                      `json:"recipe_count"`
		ExpiringCount  int                      `json:"expiring_count"`
		Recommendation *recommend.RankedRecipe  `json:"recommendation"`
	}
	doJSON(t, "GET", server.URL+"/api/dashboard", token, nil, http.StatusOK, &dash)
	if dash.StockCount != 2 || dash.RecipeCount != 1 || dash.ExpiringCount != 1 {
		t.Errorf("unexpected dashboard counts: %+v", dash)
	}
	if dash.Recommendation == nil || dash.Recommendation.Recipe.Title != "Omelette" {
		t.Error("expected Omelette as the dashboard recommendation")
	}
}

func TestBarcodeLookup(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "cook", "Cook")

	var entry model.BarcodeEntry
	doJSON(t, "GET", server.URL+"/api/barcodes/8801115111030", token, nil, http.StatusOK, &entry)
	if entry.Name == "" || entry.DefaultExpiryDays <= 0 {
		t.Errorf("expected seeded catalog entry, got %+v", entry)
	}

	doJSON(t, "GET", server.URL+"/api/barcodes/0000000000000", token, nil, http.StatusNotFound, nil)
}

func TestDeleteAccount(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "cook", "Cook")

	doJSON(t, "DELETE", server.URL+"/api/auth/account", token, nil, http.StatusOK, nil)

	// The token is revoked and the credentials no longer resolve.
	doJSON(t, "GET", server.URL+"/api/inventory", token, nil, http.StatusUnauthorized, nil)
	body, _ := json.Marshal(map[string]string{"username": "cook", "password": "password123"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after account deletion, got %d", resp.StatusCode)
	}

	// The username is free for a fresh account.
	registerAndLogin(t, server, "cook", "Cook II")
}

func TestLogoutRevokesToken(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "cook", "Cook")

	doJSON(t, "POST", server.URL+"/api/auth/logout", token, nil, http.StatusOK, nil)
	doJSON(t, "GET", server.URL+"/api/inventory", token, nil, http.StatusUnauthorized, nil)
}

func TestRegisterValidation(t *testing.T) {
	server := setupTestServer(t)

	cases := []struct {
		name string
		body map[string]string
		want int
	}{
		{"short password", map[string]string{"username": "a", "password": "short"}, http.StatusBadRequest},
		{"missing username", map[string]string{"password": "password123"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			resp, err := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("register request: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}

	// Duplicate usernames are rejected.
	registerAndLogin(t, server, "cook", "Cook")
	body, _ := json.Marshal(map[string]string{"username": "cook", "password": "password123"})
	resp, _ := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", resp.StatusCode)
	}
}
