// Copyright 2026 The Farmgate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/farmgate/farmgate/internal/catalog"
	"github.com/go-chi/chi/v5"
)

// FarmerRequest represents farmer create/update data
type FarmerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Village string `json:"village"`
	Active  bool   `json:"active"`
}

// CreateFarmer registers a supplier
func (h *Handler) CreateFarmer(w http.ResponseWriter, r *http.Request) {
	var req FarmerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "farmer name is required")
		return
	}

	farmer, err := h.catalogService.CreateFarmer(r.Context(), req.Name, req.Phone, req.Email, req.Village)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create farmer")
		return
	}
	respondJSON(w, http.StatusCreated, farmer)
}

// GetFarmer returns one farmer
func (h *Handler) GetFarmer(w http.ResponseWriter, r *http.Request) {
	farmer, err := h.catalogService.GetFarmer(r.Context(), chi.URLParam(r, "farmerID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "farmer not found")
		return
	}
	respondJSON(w, http.StatusOK, farmer)
}

// ListFarmers returns all farmers
func (h *Handler) ListFarmers(w http.ResponseWriter, r *http.Request) {
	farmers, err := h.catalogService.ListFarmers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list farmers")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"farmers": farmers})
}

// ListFarmerProducts returns the products sourced from one farmer
func (h *Handler) ListFarmerProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProductsByFarmer(r.Context(), chi.URLParam(r, "farmerID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}

// UpdateFarmer modifies a farmer record
func (h *Handler) UpdateFarmer(w http.ResponseWriter, r *http.Request) {
	var req FarmerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	farmer := &catalog.Farmer{
		ID:      chi.URLParam(r, "farmerID"),
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Village: req.Village,
		Active:  req.Active,
	}
	if err := h.catalogService.UpdateFarmer(r.Context(), farmer); err != nil {
		if errors.Is(err, catalog.ErrFarmerNotFound) {
			respondError(w, http.StatusNotFound, "farmer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update farmer")
		return
	}
	respondJSON(w, http.StatusOK, farmer)
}

// DeleteFarmer removes a farmer
func (h *Handler) DeleteFarmer(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.DeleteFarmer(r.Context(), chi.URLParam(r, "farmerID")); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete farmer")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "farmer deleted"})
}

// ProductRequest represents product create/update data
type ProductRequest struct {
	FarmerID   string `json:"farmer_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Unit       string `json:"unit"`
	PriceCents int64  `json:"price_cents"`
	Stock      int    `json:"stock"`
	Barcode    string `json:"barcode"`
}

// CreateProduct adds a catalog item
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.FarmerID == "" {
		respondError(w, http.StatusBadRequest, "product name and farmer_id are required")
		return
	}
	if req.PriceCents < 0 || req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "price and stock must not be negative")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), req.FarmerID, req.Name, req.Category, req.Unit, req.Barcode, req.PriceCents, req.Stock)
	if err != nil {
		if errors.Is(err, catalog.ErrFarmerNotFound) {
			respondError(w, http.StatusBadRequest, "farmer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// GetProduct returns one product
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogService.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// GetProductByBarcode resolves a scanned barcode to a product for the POS
func (h *Handler) GetProductByBarcode(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogService.GetProductByBarcode(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// ListProducts returns all products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}

// UpdateProduct modifies a product record
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PriceCents < 0 || req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "price and stock must not be negative")
		return
	}

	product := &catalog.Product{
		ID:         chi.URLParam(r, "productID"),
		Name:       req.Name,
		Category:   req.Category,
		Unit:       req.Unit,
		PriceCents: req.PriceCents,
		Stock:      req.Stock,
		Barcode:    req.Barcode,
	}
	if err := h.catalogService.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// CustomerRequest represents customer create/update data
type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CreateCustomer registers a buyer
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "customer name is required")
		return
	}

	customer, err := h.catalogService.CreateCustomer(r.Context(), req.Name, req.Phone, req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create customer")
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

// GetCustomer returns one customer
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.catalogService.GetCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// ListCustomers returns all customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.catalogService.ListCustomers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"customers": customers})
}

// UpdateCustomer modifies a customer record
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer := &catalog.Customer{
		ID:    chi.URLParam(r, "customerID"),
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	}
	if err := h.catalogService.UpdateCustomer(r.Context(), customer); err != nil {
		if errors.Is(err, catalog.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, "customer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// DeleteCustomer removes a customer
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.DeleteCustomer(r.Context(), chi.URLParam(r, "customerID")); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete customer")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "customer deleted"})
}
