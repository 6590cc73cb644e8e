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

	"github.com/farmgate/farmgate/internal/catalog"
	"github.com/jackc/pgx/v5"
)

// FarmerRepository implements catalog.FarmerRepository
type FarmerRepository struct {
	db *DB
}

// NewFarmerRepository creates a new farmer repository
func NewFarmerRepository(db *DB) *FarmerRepository {
	return &FarmerRepository{db: db}
}

func (r *FarmerRepository) Create(ctx context.Context, f *catalog.Farmer) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO farmers (id, name, phone, email, village, active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, f.ID, f.Name, f.Phone, f.Email, f.Village, f.Active)

	if err != nil {
		return fmt.Errorf("failed to create farmer: %w", err)
	}
	return nil
}

func (r *FarmerRepository) GetByID(ctx context.Context, id string) (*catalog.Farmer, error) {
	var f catalog.Farmer
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, village, active, created_at, updated_at
		FROM farmers WHERE id = $1
	`, id).Scan(&f.ID, &f.Name, &f.Phone, &f.Email, &f.Village, &f.Active, &f.CreatedAt, &f.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("failed to get farmer: %w", err)
	}
	return &f, nil
}

func (r *FarmerRepository) List(ctx context.Context) ([]*catalog.Farmer, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, phone, email, village, active, created_at, updated_at
		FROM farmers ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}
	defer rows.Close()

	var farmers []*catalog.Farmer
	for rows.Next() {
		var f catalog.Farmer
		if err := rows.Scan(&f.ID, &f.Name, &f.Phone, &f.Email, &f.Village, &f.Active, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan farmer: %w", err)
		}
		farmers = append(farmers, &f)
	}
	return farmers, rows.Err()
}

func (r *FarmerRepository) Update(ctx context.Context, f *catalog.Farmer) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE farmers
		SET name = $2, phone = $3, email = $4, village = $5, active = $6, updated_at = now()
		WHERE id = $1
	`, f.ID, f.Name, f.Phone, f.Email, f.Village, f.Active)

	if err != nil {
		return fmt.Errorf("failed to update farmer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrFarmerNotFound
	}
	return nil
}

func (r *FarmerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM farmers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete farmer: %w", err)
	}
	return nil
}

// ProductRepository implements catalog.ProductRepository
type ProductRepository struct {
	db *DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, farmer_id, name, category, unit, price_cents, stock, barcode, created_at, updated_at`

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.FarmerID, &p.Name, &p.Category, &p.Unit,
		&p.PriceCents, &p.Stock, &p.Barcode, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO products (id, farmer_id, name, category, unit, price_cents, stock, barcode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.FarmerID, p.Name, p.Category, p.Unit, p.PriceCents, p.Stock, p.Barcode)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode)
	return scanProduct(row)
}

func (r *ProductRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at`)
}

func (r *ProductRepository) ListByFarmer(ctx context.Context, farmerID string) ([]*catalog.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products WHERE farmer_id = $1 ORDER BY created_at`, farmerID)
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*catalog.Product, error) {
	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, category = $3, unit = $4, price_cents = $5, stock = $6, barcode = $7, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Name, p.Category, p.Unit, p.PriceCents, p.Stock, p.Barcode)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// AdjustStock changes stock by delta in a single guarded statement; the
// WHERE clause refuses updates that would drive stock negative.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
	`, id, delta)

	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Either the product is missing or the delta would overdraw it.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return catalog.ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// CustomerRepository implements catalog.CustomerRepository
type CustomerRepository struct {
	db *DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *catalog.Customer) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO customers (id, name, phone, email, loyalty_points)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Phone, c.Email, c.LoyaltyPoints)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*catalog.Customer, error) {
	var c catalog.Customer
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, loyalty_points, created_at, updated_at
		FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.LoyaltyPoints, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*catalog.Customer, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, phone, email, loyalty_points, created_at, updated_at
		FROM customers ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*catalog.Customer
	for rows.Next() {
		var c catalog.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.LoyaltyPoints, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, c *catalog.Customer) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, updated_at = now()
		WHERE id = $1
	`, c.ID, c.Name, c.Phone, c.Email)

	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) AddLoyaltyPoints(ctx context.Context, id string, points int) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE customers SET loyalty_points = loyalty_points + $2, updated_at = now()
		WHERE id = $1
	`, id, points)

	if err != nil {
		return fmt.Errorf("failed to add loyalty points: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
