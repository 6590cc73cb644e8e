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

package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/farmgate/farmgate/internal/catalog"
	"github.com/farmgate/farmgate/internal/observability/logger"
	"github.com/google/uuid"
)

// loyaltyDivisorCents: one loyalty point per whole currency unit spent.
const loyaltyDivisorCents = 100

// LineRequest is one requested line of a POS checkout, before pricing.
type LineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Service provides the POS sale flow plus coupon management and reports.
type Service struct {
	saleRepo   SaleRepository
	txRepo     TransactionRepository
	couponRepo CouponRepository
	reportRepo ReportRepository
	products   catalog.ProductRepository
	customers  catalog.CustomerRepository
}

// NewService creates a new sales service
func NewService(
	saleRepo SaleRepository,
	txRepo TransactionRepository,
	couponRepo CouponRepository,
	reportRepo ReportRepository,
	products catalog.ProductRepository,
	customers catalog.CustomerRepository,
) *Service {
	return &Service{
		saleRepo:   saleRepo,
		txRepo:     txRepo,
		couponRepo: couponRepo,
		reportRepo: reportRepo,
		products:   products,
		customers:  customers,
	}
}

// CreateSale records a POS checkout: lines are priced from the catalog,
// an optional coupon is applied, stock is decremented, and a payment
// transaction is written for the final total. Returns the stored sale.
func (s *Service) CreateSale(ctx context.Context, cashierID, customerID, couponCode string, lines []LineRequest, method PaymentMethod, reference string) (*Sale, error) {
	if len(lines) == 0 {
		return nil, ErrEmptySale
	}

	if customerID != "" {
		if _, err := s.customers.GetByID(ctx, customerID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	items := make([]SaleItem, 0, len(lines))
	var subtotal int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for product %s", line.Quantity, line.ProductID)
		}
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, SaleItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			FarmerID:       p.FarmerID,
			Quantity:       line.Quantity,
			UnitPriceCents: p.PriceCents,
		})
		subtotal += int64(line.Quantity) * p.PriceCents
	}

	var discount int64
	if couponCode != "" {
		coupon, err := s.couponRepo.GetByCode(ctx, couponCode)
		if err != nil {
			return nil, err
		}
		discount, err = coupon.DiscountFor(subtotal, now)
		if err != nil {
			return nil, err
		}
	}

	// Decrement stock before persisting the sale; a failed line aborts the
	// checkout and the already-adjusted lines are compensated.
	adjusted := make([]SaleItem, 0, len(items))
	for _, item := range items {
		if err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			for _, a := range adjusted {
				if rbErr := s.products.AdjustStock(ctx, a.ProductID, a.Quantity); rbErr != nil {
					slog.ErrorContext(ctx, "failed to restore stock after aborted sale",
						logger.String("product_id", a.ProductID),
						logger.Error(rbErr),
					)
				}
			}
			return nil, err
		}
		adjusted = append(adjusted, item)
	}

	sale := &Sale{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		CashierID:     cashierID,
		Items:         items,
		CouponCode:    couponCode,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    subtotal - discount,
		CreatedAt:     now,
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	tx := &Transaction{
		ID:          uuid.NewString(),
		SaleID:      sale.ID,
		Method:      method,
		AmountCents: sale.TotalCents,
		Reference:   reference,
		CreatedAt:   now,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if customerID != "" {
		points := int(sale.TotalCents / loyaltyDivisorCents)
		if points > 0 {
			if err := s.customers.AddLoyaltyPoints(ctx, customerID, points); err != nil {
				slog.WarnContext(ctx, "failed to award loyalty points", logger.Error(err))
			}
		}
	}

	return sale, nil
}

func (s *Service) GetSale(ctx context.Context, id string) (*Sale, error) {
	return s.saleRepo.GetByID(ctx, id)
}

func (s *Service) ListSales(ctx context.Context, limit int) ([]*Sale, error) {
	return s.saleRepo.List(ctx, limit)
}

func (s *Service) ListTransactions(ctx context.Context, limit int) ([]*Transaction, error) {
	return s.txRepo.List(ctx, limit)
}

// CreateCoupon registers a discount code.
func (s *Service) CreateCoupon(ctx context.Context, code string, kind DiscountKind, value, minOrderCents int64, validFrom, validUntil time.Time) (*Coupon, error) {
	if kind != DiscountPercent && kind != DiscountFixed {
		return nil, fmt.Errorf("unknown discount kind %q", kind)
	}
	if kind == DiscountPercent && (value < 0 || value > 100) {
		return nil, fmt.Errorf("percent value out of range: %d", value)
	}

	if existing, err := s.couponRepo.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, ErrCouponAlreadyExists
	} else if err != nil && !errors.Is(err, ErrCouponNotFound) {
		return nil, err
	}

	c := &Coupon{
		ID:            uuid.NewString(),
		Code:          code,
		Kind:          kind,
		Value:         value,
		MinOrderCents: minOrderCents,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
		Active:        true,
	}
	if err := s.couponRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return c, nil
}

func (s *Service) ListCoupons(ctx context.Context) ([]*Coupon, error) {
	return s.couponRepo.List(ctx)
}

func (s *Service) UpdateCoupon(ctx context.Context, c *Coupon) error {
	return s.couponRepo.Update(ctx, c)
}

func (s *Service) DeleteCoupon(ctx context.Context, id string) error {
	return s.couponRepo.Delete(ctx, id)
}

// Settlements reports the per-farmer gross value of produce sold in the
// given window.
func (s *Service) Settlements(ctx context.Context, from, to time.Time) ([]*Settlement, error) {
	return s.reportRepo.Settlements(ctx, from, to)
}

// Dashboard returns the landing screen summary.
func (s *Service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	return s.reportRepo.Dashboard(ctx)
}
