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
	"strconv"
	"time"

	"github.com/farmgate/farmgate/internal/catalog"
	"github.com/farmgate/farmgate/internal/sales"
	"github.com/go-chi/chi/v5"
)

// CreateSaleRequest represents a POS checkout
type CreateSaleRequest struct {
	CustomerID string              `json:"customer_id"`
	CouponCode string              `json:"coupon_code"`
	Lines      []sales.LineRequest `json:"lines"`
	Method     sales.PaymentMethod `json:"method"`
	Reference  string              `json:"reference"`
}

// CreateSale records a checkout. The cashier is the authenticated principal.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal := GetPrincipal(r.Context())
	sale, err := h.salesService.CreateSale(r.Context(), principal.ID, req.CustomerID, req.CouponCode, req.Lines, req.Method, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, sales.ErrEmptySale):
			respondError(w, http.StatusBadRequest, "sale has no items")
		case errors.Is(err, catalog.ErrProductNotFound):
			respondError(w, http.StatusBadRequest, "unknown product in sale")
		case errors.Is(err, catalog.ErrInsufficientStock):
			respondError(w, http.StatusConflict, "insufficient stock")
		case errors.Is(err, sales.ErrCouponNotFound), errors.Is(err, sales.ErrCouponNotApplicable):
			respondError(w, http.StatusBadRequest, "coupon not applicable")
		default:
			respondError(w, http.StatusInternalServerError, "failed to record sale")
		}
		return
	}

	respondJSON(w, http.StatusCreated, sale)
}

// GetSale returns one sale with its items
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.salesService.GetSale(r.Context(), chi.URLParam(r, "saleID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "sale not found")
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// ListSales returns recent sales, newest first
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := h.salesService.ListSales(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sales": list})
}

// ListTransactions returns recent payment records, newest first
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := h.salesService.ListTransactions(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": list})
}

// CouponRequest represents coupon create/update data
type CouponRequest struct {
	Code          string             `json:"code"`
	Kind          sales.DiscountKind `json:"kind"`
	Value         int64              `json:"value"`
	MinOrderCents int64              `json:"min_order_cents"`
	ValidFrom     time.Time          `json:"valid_from"`
	ValidUntil    time.Time          `json:"valid_until"`
	Active        bool               `json:"active"`
}

// CreateCoupon registers a discount code
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coupon, err := h.salesService.CreateCoupon(r.Context(), req.Code, req.Kind, req.Value, req.MinOrderCents, req.ValidFrom, req.ValidUntil)
	if err != nil {
		if errors.Is(err, sales.ErrCouponAlreadyExists) {
			respondError(w, http.StatusConflict, "coupon code already exists")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid coupon")
		return
	}
	respondJSON(w, http.StatusCreated, coupon)
}

// ListCoupons returns all coupons
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.salesService.ListCoupons(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list coupons")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"coupons": coupons})
}

// UpdateCoupon modifies a coupon
func (h *Handler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coupon := &sales.Coupon{
		ID:            chi.URLParam(r, "couponID"),
		Code:          req.Code,
		Kind:          req.Kind,
		Value:         req.Value,
		MinOrderCents: req.MinOrderCents,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		Active:        req.Active,
	}
	if err := h.salesService.UpdateCoupon(r.Context(), coupon); err != nil {
		if errors.Is(err, sales.ErrCouponNotFound) {
			respondError(w, http.StatusNotFound, "coupon not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update coupon")
		return
	}
	respondJSON(w, http.StatusOK, coupon)
}

// DeleteCoupon removes a coupon
func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.salesService.DeleteCoupon(r.Context(), chi.URLParam(r, "couponID")); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete coupon")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "coupon deleted"})
}

// Settlements returns the per-farmer payout aggregation for a period.
// Defaults to the current month when no window is given.
func (h *Handler) Settlements(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid 'from' timestamp")
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid 'to' timestamp")
			return
		}
		to = t
	}

	settlements, err := h.salesService.Settlements(r.Context(), from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute settlements")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"from":        from,
		"to":          to,
		"settlements": settlements,
	})
}
