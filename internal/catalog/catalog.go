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

package catalog

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrFarmerNotFound    = errors.New("farmer not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Farmer is a supplier whose produce the portal sells on consignment.
type Farmer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Village   string    `json:"village"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is a sellable catalog item sourced from one farmer. PriceCents
// avoids float arithmetic in money paths; Barcode is the printed code the
// POS scanner reads.
type Product struct {
	ID         string    `json:"id"`
	FarmerID   string    `json:"farmer_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Unit       string    `json:"unit"` // kg, bunch, litre, piece
	PriceCents int64     `json:"price_cents"`
	Stock      int       `json:"stock"`
	Barcode    string    `json:"barcode"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Customer is a storefront/POS buyer.
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	LoyaltyPoints int       `json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FarmerRepository defines the interface for farmer persistence
type FarmerRepository interface {
	Create(ctx context.Context, f *Farmer) error
	GetByID(ctx context.Context, id string) (*Farmer, error)
	List(ctx context.Context) ([]*Farmer, error)
	Update(ctx context.Context, f *Farmer) error
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]*Product, error)
	Update(ctx context.Context, p *Product) error

	// AdjustStock changes stock by delta (negative for a sale) and fails
	// with ErrInsufficientStock when the result would go below zero.
	AdjustStock(ctx context.Context, id string, delta int) error

	Delete(ctx context.Context, id string) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]*Customer, error)
	Update(ctx context.Context, c *Customer) error
	AddLoyaltyPoints(ctx context.Context, id string, points int) error
	Delete(ctx context.Context, id string) error
}
