package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"kitchenlog/internal/match"
	"kitchenlog/internal/model"
	"kitchenlog/internal/store"
)

// InventoryHandler handles stock CRUD endpoints.
type InventoryHandler struct {
	DB *sql.DB
}

type inventoryItemRequest struct {
	Name            string `json:"name"`
	Detail          string `json:"detail"`
	StorageLocation string `json:"storage_location"`
	Quantity        string `json:"quantity"`
	ExpiryDate      string `json:"expiry_date"`
	Barcode         string `json:"barcode"`
}

func (req *inventoryItemRequest) validate() (time.Time, string) {
	if req.Name == "" {
		return time.Time{}, "name required"
	}
	if !model.ValidStorageLocation(req.StorageLocation) {
		return time.Time{}, "storage_location must be FRIDGE, FREEZER or PANTRY"
	}
	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return time.Time{}, "expiry_date must be YYYY-MM-DD"
	}
	return expiry, ""
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListInventory(r.Context(), h.DB, userID(r.Context()))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Expiring handles GET /api/inventory/expiring?days=N. Items already
// expired are excluded; the list is the "use these up" view.
func (h *InventoryHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days := 7
	if q := r.URL.Query().Get("days"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 0 {
			jsonError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}

	items, err := store.ListInventory(r.Context(), h.DB, userID(r.Context()))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}

	today := time.Now()
	expiring := []model.InventoryItem{}
	for _, item := range items {
		left := match.DaysUntilExpiry(item.ExpiryDate, today)
		if left >= 0 && left <= days {
			expiring = append(expiring, item)
		}
	}
	jsonResponse(w, http.StatusOK, expiring)
}

// Create handles POST /api/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expiry, msg := req.validate()
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := store.CreateInventoryItem(r.Context(), h.DB, &model.InventoryItem{
		UserID:          userID(r.Context()),
		Name:            req.Name,
		Detail:          req.Detail,
		StorageLocation: req.StorageLocation,
		Quantity:        req.Quantity,
		ExpiryDate:      expiry,
		Barcode:         req.Barcode,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create inventory item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetInventoryItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get inventory item")
		return
	}
	if item == nil || item.UserID != userID(r.Context()) {
		jsonError(w, http.StatusNotFound, "inventory item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/inventory/{id}.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetInventoryItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get inventory item")
		return
	}
	if item == nil || item.UserID != userID(r.Context()) {
		jsonError(w, http.StatusNotFound, "inventory item not found")
		return
	}

	var req inventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expiry, msg := req.validate()
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	item.Name = req.Name
	item.Detail = req.Detail
	item.StorageLocation = req.StorageLocation
	item.Quantity = req.Quantity
	item.ExpiryDate = expiry
	item.Barcode = req.Barcode

	if err := store.UpdateInventoryItem(r.Context(), h.DB, item); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update inventory item")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteInventoryItem(r.Context(), h.DB, r.PathValue("id"), userID(r.Context())); err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "inventory item deleted"})
}
