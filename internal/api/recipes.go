package api

import (
	"net/http"
	"strconv"

	"kitchenlog/internal/model"
	"kitchenlog/internal/recipes"
)

// RecipesHandler handles recipe lineage endpoints.
type RecipesHandler struct {
	Recipes *recipes.Service
}

type recipeMetadataRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type versionRequest struct {
	Label       string             `json:"label"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Steps       []string           `json:"steps"`
	ChangeNotes string             `json:"change_notes"`
	PrivateMemo string             `json:"private_memo"`
}

func (req *versionRequest) toVersion() model.RecipeVersion {
	return model.RecipeVersion{
		Label:       req.Label,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		ChangeNotes: req.ChangeNotes,
		PrivateMemo: req.PrivateMemo,
	}
}

// owned loads a recipe and hides it unless the caller owns it.
func (h *RecipesHandler) owned(w http.ResponseWriter, r *http.Request) *model.Recipe {
	recipe, err := h.Recipes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return nil
	}
	if recipe.OwnerID != userID(r.Context()) {
		jsonError(w, http.StatusNotFound, "recipe not found")
		return nil
	}
	return recipe
}

// List handles GET /api/recipes.
func (h *RecipesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Recipes.List(r.Context(), userID(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}
	if list == nil {
		list = []model.Recipe{}
	}
	jsonResponse(w, http.StatusOK, list)
}

// Create handles POST /api/recipes.
func (h *RecipesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipeMetadataRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}

	recipe, err := h.Recipes.Create(r.Context(), userID(r.Context()), req.Title, req.Description)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, recipe)
}

// Get handles GET /api/recipes/{id}.
func (h *RecipesHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipe := h.owned(w, r)
	if recipe == nil {
		return
	}
	jsonResponse(w, http.StatusOK, recipe)
}

// Update handles PUT /api/recipes/{id} (metadata only).
func (h *RecipesHandler) Update(w http.ResponseWriter, r *http.Request) {
	recipe := h.owned(w, r)
	if recipe == nil {
		return
	}

	var req recipeMetadataRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}

	updated, err := h.Recipes.UpdateMetadata(r.Context(), recipe.ID, req.Title, req.Description)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/recipes/{id}.
func (h *RecipesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	recipe := h.owned(w, r)
	if recipe == nil {
		return
	}

	if err := h.Recipes.Delete(r.Context(), recipe.ID); err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "recipe deleted"})
}

// ListVersions handles GET /api/recipes/{id}/versions, returning the
// presentation order: current first, the rest newest-appended first.
func (h *RecipesHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	recipe := h.owned(w, r)
	if recipe == nil {
		return
	}
	jsonResponse(w, http.StatusOK, recipes.DisplayOrder(recipe))
}

// AppendVersion handles POST /api/recipes/{id}/versions.
func (h *RecipesHandler) AppendVersion(w http.ResponseWriter, r *http.Request) {
	recipe := h.owned(w, r)
	if recipe == nil {
		return
	}

	var req versionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Label == "" {
		jsonError(w, http.StatusBadRequest, "label required")
		return
	}

	updated, err := h.Recipes.AppendVersion(r.Context(), recipe.ID, req.toVersion())
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, updated)
}

// EditVersion handles PUT /api/recipes/{id}/versions/{index}.
func (h *RecipesHandler) EditVersion(w http.ResponseWriter, r *http.Request) {
	recipe := h.owned(w, r)
	if recipe == nil {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid version index")
		return
	}

	var req versionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Label == "" {
		jsonError(w, http.StatusBadRequest, "label required")
		return
	}

	updated, err := h.Recipes.EditVersion(r.Context(), recipe.ID, index, req.toVersion())
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// DeleteVersion handles DELETE /api/recipes/{id}/versions/{index}.
func (h *RecipesHandler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	recipe := h.owned(w, r)
	if recipe == nil {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid version index")
		return
	}

	updated, err := h.Recipes.DeleteVersion(r.Context(), recipe.ID, index)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// SetPrimary handles PUT /api/recipes/{id}/current.
func (h *RecipesHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	recipe := h.owned(w, r)
	if recipe == nil {
		return
	}

	var req struct {
		Label string `json:"label"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Recipes.SetPrimary(r.Context(), recipe.ID, req.Label)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}
