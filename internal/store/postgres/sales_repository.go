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

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farmgate/farmgate/internal/sales"
	"github.com/jackc/pgx/v5"
)

// SaleRepository implements sales.SaleRepository
type SaleRepository struct {
	db *DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create persists the sale and its items in one transaction.
func (r *SaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var customerID *string
	if sale.CustomerID != "" {
		customerID = &sale.CustomerID
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO sales (id, customer_id, cashier_id, coupon_code, subtotal_cents, discount_cents, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sale.ID, customerID, sale.CashierID, sale.CouponCode,
		sale.SubtotalCents, sale.DiscountCents, sale.TotalCents, sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	for i, item := range sale.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, position, product_id, product_name, farmer_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, sale.ID, i, item.ProductID, item.ProductName, item.FarmerID, item.Quantity, item.UnitPriceCents)
		if err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a sale with its items
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*sales.Sale, error) {
	var (
		sale       sales.Sale
		customerID *string
	)
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, customer_id, cashier_id, coupon_code, subtotal_cents, discount_cents, total_cents, created_at
		FROM sales WHERE id = $1
	`, id).Scan(
		&sale.ID, &customerID, &sale.CashierID, &sale.CouponCode,
		&sale.SubtotalCents, &sale.DiscountCents, &sale.TotalCents, &sale.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sales.ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if customerID != nil {
		sale.CustomerID = *customerID
	}

	items, err := r.itemsFor(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return &sale, nil
}

// List retrieves the most recent sales with their items
func (r *SaleRepository) List(ctx context.Context, limit int) ([]*sales.Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, customer_id, cashier_id, coupon_code, subtotal_cents, discount_cents, total_cents, created_at
		FROM sales ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var result []*sales.Sale
	for rows.Next() {
		var (
			sale       sales.Sale
			customerID *string
		)
		if err := rows.Scan(
			&sale.ID, &customerID, &sale.CashierID, &sale.CouponCode,
			&sale.SubtotalCents, &sale.DiscountCents, &sale.TotalCents, &sale.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		if customerID != nil {
			sale.CustomerID = *customerID
		}
		result = append(result, &sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sale := range result {
		items, err := r.itemsFor(ctx, sale.ID)
		if err != nil {
			return nil, err
		}
		sale.Items = items
	}
	return result, nil
}

func (r *SaleRepository) itemsFor(ctx context.Context, saleID string) ([]sales.SaleItem, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT product_id, product_name, farmer_id, quantity, unit_price_cents
		FROM sale_items WHERE sale_id = $1 ORDER BY position
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale items: %w", err)
	}
	defer rows.Close()

	var items []sales.SaleItem
	for rows.Next() {
		var item sales.SaleItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.FarmerID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// TransactionRepository implements sales.TransactionRepository
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *sales.Transaction) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO transactions (id, sale_id, method, amount_cents, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.SaleID, string(t.Method), t.AmountCents, t.Reference, t.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*sales.Transaction, error) {
	var t sales.Transaction
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, sale_id, method, amount_cents, reference, created_at
		FROM transactions WHERE id = $1
	`, id).Scan(&t.ID, &t.SaleID, &t.Method, &t.AmountCents, &t.Reference, &t.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sales.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

func (r *TransactionRepository) List(ctx context.Context, limit int) ([]*sales.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, sale_id, method, amount_cents, reference, created_at
		FROM transactions ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var result []*sales.Transaction
	for rows.Next() {
		var t sales.Transaction
		if err := rows.Scan(&t.ID, &t.SaleID, &t.Method, &t.AmountCents, &t.Reference, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

// CouponRepository implements sales.CouponRepository
type CouponRepository struct {
	db *DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(ctx context.Context, c *sales.Coupon) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO coupons (id, code, kind, value, min_order_cents, valid_from, valid_until, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Code, string(c.Kind), c.Value, c.MinOrderCents, c.ValidFrom, c.ValidUntil, c.Active)

	if err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*sales.Coupon, error) {
	var c sales.Coupon
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, code, kind, value, min_order_cents, valid_from, valid_until, active, created_at, updated_at
		FROM coupons WHERE code = $1
	`, code).Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.MinOrderCents, &c.ValidFrom, &c.ValidUntil, &c.Active, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sales.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return &c, nil
}

func (r *CouponRepository) List(ctx context.Context) ([]*sales.Coupon, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, code, kind, value, min_order_cents, valid_from, valid_until, active, created_at, updated_at
		FROM coupons ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*sales.Coupon
	for rows.Next() {
		var c sales.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.MinOrderCents, &c.ValidFrom, &c.ValidUntil, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, &c)
	}
	return coupons, rows.Err()
}

func (r *CouponRepository) Update(ctx context.Context, c *sales.Coupon) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE coupons
		SET kind = $2, value = $3, min_order_cents = $4, valid_from = $5, valid_until = $6, active = $7, updated_at = now()
		WHERE id = $1
	`, c.ID, string(c.Kind), c.Value, c.MinOrderCents, c.ValidFrom, c.ValidUntil, c.Active)

	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sales.ErrCouponNotFound
	}
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	return nil
}

// ReportRepository implements sales.ReportRepository
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Settlements aggregates the gross value of each farmer's produce sold in
// the window.
func (r *ReportRepository) Settlements(ctx context.Context, from, to time.Time) ([]*sales.Settlement, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT f.id, f.name,
			COALESCE(SUM(si.quantity), 0) AS items_sold,
			COALESCE(SUM(si.quantity * si.unit_price_cents), 0) AS gross_cents
		FROM farmers f
		JOIN sale_items si ON si.farmer_id = f.id
		JOIN sales s ON s.id = si.sale_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		GROUP BY f.id, f.name
		ORDER BY gross_cents DESC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	var result []*sales.Settlement
	for rows.Next() {
		var s sales.Settlement
		if err := rows.Scan(&s.FarmerID, &s.FarmerName, &s.ItemsSold, &s.GrossCents); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		result = append(result, &s)
	}
	return result, rows.Err()
}

// Dashboard computes the landing screen summary.
func (r *ReportRepository) Dashboard(ctx context.Context) (*sales.DashboardSummary, error) {
	var d sales.DashboardSummary
	err := r.db.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sales WHERE created_at >= date_trunc('day', now())),
			(SELECT COALESCE(SUM(total_cents), 0) FROM sales WHERE created_at >= date_trunc('day', now())),
			(SELECT COUNT(*) FROM sales),
			(SELECT COALESCE(SUM(total_cents), 0) FROM sales),
			(SELECT COUNT(*) FROM tickets WHERE status <> 'closed'),
			(SELECT COUNT(*) FROM farmers WHERE active),
			(SELECT COUNT(*) FROM products)
	`).Scan(
		&d.SalesToday, &d.RevenueTodayCents,
		&d.SalesTotal, &d.RevenueTotalCents,
		&d.OpenTickets, &d.ActiveFarmers, &d.Products,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard summary: %w", err)
	}
	return &d, nil
}
