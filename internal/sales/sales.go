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
	"time"
)

// Domain errors
var (
	ErrSaleNotFound        = errors.New("sale not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponAlreadyExists = errors.New("coupon already exists")
	ErrCouponNotApplicable = errors.New("coupon not applicable to this order")
	ErrEmptySale           = errors.New("sale has no items")
)

// PaymentMethod is how a POS sale was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

// SaleItem is one priced line of a sale. UnitPriceCents is the catalog price
// at the moment of sale; later product edits never rewrite history.
type SaleItem struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	FarmerID       string `json:"farmer_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// LineTotalCents returns quantity times unit price.
func (i SaleItem) LineTotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// Sale is one completed POS checkout.
type Sale struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customer_id,omitempty"` // empty for walk-in
	CashierID     string     `json:"cashier_id"`
	Items         []SaleItem `json:"items"`
	CouponCode    string     `json:"coupon_code,omitempty"`
	SubtotalCents int64      `json:"subtotal_cents"`
	DiscountCents int64      `json:"discount_cents"`
	TotalCents    int64      `json:"total_cents"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Transaction is the payment record backing a sale.
type Transaction struct {
	ID          string        `json:"id"`
	SaleID      string        `json:"sale_id"`
	Method      PaymentMethod `json:"method"`
	AmountCents int64         `json:"amount_cents"`
	Reference   string        `json:"reference,omitempty"` // processor/receipt reference, free-form
	CreatedAt   time.Time     `json:"created_at"`
}

// DiscountKind selects how a coupon's value is applied.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed"
)

// Coupon is a POS/storefront discount code.
type Coupon struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	Kind          DiscountKind `json:"kind"`
	Value         int64        `json:"value"` // percent (0-100) or cents, by Kind
	MinOrderCents int64        `json:"min_order_cents"`
	ValidFrom     time.Time    `json:"valid_from"`
	ValidUntil    time.Time    `json:"valid_until"`
	Active        bool         `json:"active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// DiscountFor computes the discount the coupon grants on a subtotal, or an
// error when the coupon does not apply. The discount never exceeds the
// subtotal.
func (c *Coupon) DiscountFor(subtotalCents int64, at time.Time) (int64, error) {
	if !c.Active || at.Before(c.ValidFrom) || at.After(c.ValidUntil) {
		return 0, ErrCouponNotApplicable
	}
	if subtotalCents < c.MinOrderCents {
		return 0, ErrCouponNotApplicable
	}

	var discount int64
	switch c.Kind {
	case DiscountPercent:
		discount = subtotalCents * c.Value / 100
	case DiscountFixed:
		discount = c.Value
	default:
		return 0, ErrCouponNotApplicable
	}

	if discount > subtotalCents {
		discount = subtotalCents
	}
	return discount, nil
}

// Settlement is the per-farmer payout view: the value of a farmer's produce
// sold in a period.
type Settlement struct {
	FarmerID   string `json:"farmer_id"`
	FarmerName string `json:"farmer_name"`
	ItemsSold  int    `json:"items_sold"`
	GrossCents int64  `json:"gross_cents"`
}

// DashboardSummary backs the portal landing screen.
type DashboardSummary struct {
	SalesToday        int   `json:"sales_today"`
	RevenueTodayCents int64 `json:"revenue_today_cents"`
	SalesTotal        int   `json:"sales_total"`
	RevenueTotalCents int64 `json:"revenue_total_cents"`
	OpenTickets       int   `json:"open_tickets"`
	ActiveFarmers     int   `json:"active_farmers"`
	Products          int   `json:"products"`
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// Create persists the sale and its items atomically
	Create(ctx context.Context, sale *Sale) error
	GetByID(ctx context.Context, id string) (*Sale, error)
	List(ctx context.Context, limit int) ([]*Sale, error)
}

// TransactionRepository defines the interface for payment records
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, limit int) ([]*Transaction, error)
}

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	Create(ctx context.Context, c *Coupon) error
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id string) error
}

// ReportRepository answers aggregation queries for settlements and the
// dashboard.
type ReportRepository interface {
	Settlements(ctx context.Context, from, to time.Time) ([]*Settlement, error)
	Dashboard(ctx context.Context) (*DashboardSummary, error)
}
