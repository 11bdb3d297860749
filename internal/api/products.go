package api

import (
	"database/sql"
	"net/http"

	"kitchenlog/internal/model"
	"kitchenlog/internal/store"
)

// ProductsHandler handles master-data product endpoints.
type ProductsHandler struct {
	DB *sql.DB
}

type createProductRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Barcodes []string `json:"barcodes"`
}

// List handles GET /api/products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := store.ListProducts(r.Context(), h.DB, userID(r.Context()))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	jsonResponse(w, http.StatusOK, products)
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	product, err := store.CreateProduct(r.Context(), h.DB, &model.Product{
		UserID:   userID(r.Context()),
		Name:     req.Name,
		Category: req.Category,
		Barcodes: req.Barcodes,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	jsonResponse(w, http.StatusCreated, product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteProduct(r.Context(), h.DB, r.PathValue("id"), userID(r.Context())); err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// LookupBarcode handles GET /api/barcodes/{code}: a catalog lookup used to
// pre-fill inventory forms.
func (h *ProductsHandler) LookupBarcode(w http.ResponseWriter, r *http.Request) {
	entry, err := store.LookupBarcode(r.Context(), h.DB, r.PathValue("code"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to look up barcode")
		return
	}
	if entry == nil {
		jsonError(w, http.StatusNotFound, "unknown barcode")
		return
	}
	jsonResponse(w, http.StatusOK, entry)
}
