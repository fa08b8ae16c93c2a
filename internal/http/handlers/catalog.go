package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumeskin/clinic-platform/internal/catalog"
)

// CatalogHandler serves the read-only product and doctor directories.
type CatalogHandler struct {
	catalog *catalog.Store
}

// NewCatalogHandler creates the catalog handler.
func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{catalog: store}
}

// ListProducts handles GET /catalog/products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.catalog.Products())
}

// GetProduct handles GET /catalog/products/{productID}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.catalog.ProductByID(chi.URLParam(r, "productID"))
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(product)
}

// ListDoctors handles GET /catalog/doctors.
func (h *CatalogHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.catalog.Doctors())
}

// GetDoctor handles GET /catalog/doctors/{doctorID}.
func (h *CatalogHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, ok := h.catalog.DoctorByID(chi.URLParam(r, "doctorID"))
	if !ok {
		http.Error(w, "doctor not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doctor)
}

// HealthCheck handles GET /health.
func (h *CatalogHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
