package api

import (
	"database/sql"
	"io"
	"net/http"

	"kitchenlog/internal/community"
	"kitchenlog/internal/imaging"
	"kitchenlog/internal/model"
	"kitchenlog/internal/store"
)

// CommunityHandler handles published snapshot endpoints.
type CommunityHandler struct {
	DB        *sql.DB
	Community *community.Service
}

type publishRequest struct {
	RecipeID     string `json:"recipe_id"`
	VersionLabel string `json:"version_label"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

type editSnapshotRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Steps       []string           `json:"steps"`
}

type addCommentRequest struct {
	ParentID string `json:"parent_id"`
	Content  string `json:"content"`
}

// authored loads a snapshot and rejects callers other than its author.
func (h *CommunityHandler) authored(w http.ResponseWriter, r *http.Request) *model.CommunitySnapshot {
	snapshot, err := h.Community.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return nil
	}
	if snapshot.AuthorID != userID(r.Context()) {
		jsonError(w, http.StatusForbidden, "not the author of this snapshot")
		return nil
	}
	return snapshot
}

// List handles GET /api/community?q=.
func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.Community.List(r.Context(), r.URL.Query().Get("q"), r.URL.Query().Get("author"))
	if err != nil {
		serviceError(w, err)
		return
	}
	if snapshots == nil {
		snapshots = []model.CommunitySnapshot{}
	}
	jsonResponse(w, http.StatusOK, snapshots)
}

// Get handles GET /api/community/{id} and counts the view.
func (h *CommunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Community.View(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, snapshot)
}

// Publish handles POST /api/community.
func (h *CommunityHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RecipeID == "" || req.VersionLabel == "" {
		jsonError(w, http.StatusBadRequest, "recipe_id and version_label required")
		return
	}

	snapshot, err := h.Community.Publish(r.Context(), community.PublishRequest{
		RecipeID:     req.RecipeID,
		VersionLabel: req.VersionLabel,
		Title:        req.Title,
		Description:  req.Description,
		AuthorID:     userID(r.Context()),
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, snapshot)
}

// Edit handles PUT /api/community/{id} (author only).
func (h *CommunityHandler) Edit(w http.ResponseWriter, r *http.Request) {
	snapshot := h.authored(w, r)
	if snapshot == nil {
		return
	}

	var req editSnapshotRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}

	updated, err := h.Community.Edit(r.Context(), snapshot.ID, community.EditRequest{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/community/{id} (author only).
func (h *CommunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	snapshot := h.authored(w, r)
	if snapshot == nil {
		return
	}

	if err := h.Community.Delete(r.Context(), snapshot.ID); err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "snapshot deleted"})
}

// ToggleLike handles POST /api/community/{id}/like.
func (h *CommunityHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	liked, count, err := h.Community.ToggleLike(r.Context(), r.PathValue("id"), userID(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"liked": liked, "like_count": count})
}

// Import handles POST /api/community/{id}/import.
func (h *CommunityHandler) Import(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.Community.Import(r.Context(), r.PathValue("id"), userID(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, recipe)
}

// ListComments handles GET /api/community/{id}/comments.
func (h *CommunityHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Community.Comments(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	jsonResponse(w, http.StatusOK, comments)
}

// AddComment handles POST /api/community/{id}/comments.
func (h *CommunityHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		jsonError(w, http.StatusBadRequest, "content required")
		return
	}

	comment, err := h.Community.AddComment(r.Context(), r.PathValue("id"), req.ParentID, userID(r.Context()), req.Content)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/comments/{id} (author only).
func (h *CommunityHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.Community.GetComment(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	if comment.AuthorID != userID(r.Context()) {
		jsonError(w, http.StatusForbidden, "not the author of this comment")
		return
	}

	if err := h.Community.DeleteComment(r.Context(), comment.ID); err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

// UploadImage handles PUT /api/community/{id}/image (author only).
func (h *CommunityHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	snapshot := h.authored(w, r)
	if snapshot == nil {
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(io.LimitReader(file, 5<<20))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetSnapshotImage(r.Context(), h.DB, snapshot.ID, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/community/{id}/image.
func (h *CommunityHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetSnapshotImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
