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
	"testing"
)

// In-memory mocks in the domain test style.

type MockFarmerRepository struct {
	farmers map[string]*Farmer
}

func NewMockFarmerRepository() *MockFarmerRepository {
	return &MockFarmerRepository{farmers: make(map[string]*Farmer)}
}

func (m *MockFarmerRepository) Create(ctx context.Context, f *Farmer) error {
	cp := *f
	m.farmers[f.ID] = &cp
	return nil
}

func (m *MockFarmerRepository) GetByID(ctx context.Context, id string) (*Farmer, error) {
	f, ok := m.farmers[id]
	if !ok {
		return nil, ErrFarmerNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *MockFarmerRepository) List(ctx context.Context) ([]*Farmer, error) {
	var out []*Farmer
	for _, f := range m.farmers {
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockFarmerRepository) Update(ctx context.Context, f *Farmer) error {
	if _, ok := m.farmers[f.ID]; !ok {
		return ErrFarmerNotFound
	}
	cp := *f
	m.farmers[f.ID] = &cp
	return nil
}

func (m *MockFarmerRepository) Delete(ctx context.Context, id string) error {
	delete(m.farmers, id)
	return nil
}

type MockCatalogProductRepository struct {
	products map[string]*Product
}

func NewMockCatalogProductRepository() *MockCatalogProductRepository {
	return &MockCatalogProductRepository{products: make(map[string]*Product)}
}

func (m *MockCatalogProductRepository) Create(ctx context.Context, p *Product) error {
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *MockCatalogProductRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockCatalogProductRepository) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	for _, p := range m.products {
		if p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *MockCatalogProductRepository) List(ctx context.Context) ([]*Product, error) {
	var out []*Product
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCatalogProductRepository) ListByFarmer(ctx context.Context, farmerID string) ([]*Product, error) {
	var out []*Product
	for _, p := range m.products {
		if p.FarmerID == farmerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockCatalogProductRepository) Update(ctx context.Context, p *Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return ErrProductNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *MockCatalogProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	p, ok := m.products[id]
	if !ok {
		return ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

func (m *MockCatalogProductRepository) Delete(ctx context.Context, id string) error {
	delete(m.products, id)
	return nil
}

type MockCatalogCustomerRepository struct {
	customers map[string]*Customer
}

func NewMockCatalogCustomerRepository() *MockCatalogCustomerRepository {
	return &MockCatalogCustomerRepository{customers: make(map[string]*Customer)}
}

func (m *MockCatalogCustomerRepository) Create(ctx context.Context, c *Customer) error {
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *MockCatalogCustomerRepository) GetByID(ctx context.Context, id string) (*Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCatalogCustomerRepository) List(ctx context.Context) ([]*Customer, error) {
	var out []*Customer
	for _, c := range m.customers {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCatalogCustomerRepository) Update(ctx context.Context, c *Customer) error {
	if _, ok := m.customers[c.ID]; !ok {
		return ErrCustomerNotFound
	}
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *MockCatalogCustomerRepository) AddLoyaltyPoints(ctx context.Context, id string, points int) error {
	c, ok := m.customers[id]
	if !ok {
		return ErrCustomerNotFound
	}
	c.LoyaltyPoints += points
	return nil
}

func (m *MockCatalogCustomerRepository) Delete(ctx context.Context, id string) error {
	delete(m.customers, id)
	return nil
}

func newCatalogService() (*Service, *MockFarmerRepository, *MockCatalogProductRepository) {
	farmers := NewMockFarmerRepository()
	products := NewMockCatalogProductRepository()
	return NewService(farmers, products, NewMockCatalogCustomerRepository()), farmers, products
}

// TestPurpose: Validates that products can only be created under an existing farmer.
// Scope: Unit Test
// Expected: Create succeeds for a registered farmer and returns ErrFarmerNotFound otherwise.
// Test Case ID: CAT-01
func TestCatalog_Service_CreateProduct_RequiresFarmer(t *testing.T) {
	s, _, _ := newCatalogService()
	ctx := context.Background()

	farmer, err := s.CreateFarmer(ctx, "Gopal Singh", "98100 00002", "", "Khera")
	if err != nil {
		t.Fatalf("create farmer failed: %v", err)
	}

	p, err := s.CreateProduct(ctx, farmer.ID, "Spinach", "greens", "bunch", "890100001", 150, 30)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if p.FarmerID != farmer.ID {
		t.Errorf("expected product bound to farmer %s, got %s", farmer.ID, p.FarmerID)
	}

	_, err = s.CreateProduct(ctx, "farmer-ghost", "Okra", "vegetable", "kg", "", 400, 10)
	if !errors.Is(err, ErrFarmerNotFound) {
		t.Errorf("expected ErrFarmerNotFound, got %v", err)
	}
}

// TestPurpose: Validates barcode resolution for the POS scanner path.
// Scope: Unit Test
// Expected: A known barcode resolves to its product; an unknown one returns ErrProductNotFound.
// Test Case ID: CAT-02
func TestCatalog_Service_GetProductByBarcode(t *testing.T) {
	s, _, _ := newCatalogService()
	ctx := context.Background()

	farmer, _ := s.CreateFarmer(ctx, "Gopal Singh", "", "", "Khera")
	created, err := s.CreateProduct(ctx, farmer.ID, "Spinach", "greens", "bunch", "890100001", 150, 30)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	got, err := s.GetProductByBarcode(ctx, "890100001")
	if err != nil {
		t.Fatalf("barcode lookup failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected product %s, got %s", created.ID, got.ID)
	}

	if _, err := s.GetProductByBarcode(ctx, "000000000"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

// TestPurpose: Validates update existence checks across the catalog entities.
// Scope: Unit Test
// Expected: Updating an unknown farmer, product or customer reports its not-found error.
// Test Case ID: CAT-03
func TestCatalog_Service_Update_UnknownEntities(t *testing.T) {
	s, _, _ := newCatalogService()
	ctx := context.Background()

	if err := s.UpdateFarmer(ctx, &Farmer{ID: "nope"}); !errors.Is(err, ErrFarmerNotFound) {
		t.Errorf("expected ErrFarmerNotFound, got %v", err)
	}
	if err := s.UpdateProduct(ctx, &Product{ID: "nope"}); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
	if err := s.UpdateCustomer(ctx, &Customer{ID: "nope"}); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

// TestPurpose: Validates the farmer-scoped product listing used by the farmer detail screen.
// Scope: Unit Test
// Expected: ListProductsByFarmer returns only that farmer's produce.
// Test Case ID: CAT-04
func TestCatalog_Service_ListProductsByFarmer(t *testing.T) {
	s, _, _ := newCatalogService()
	ctx := context.Background()

	first, _ := s.CreateFarmer(ctx, "Gopal Singh", "", "", "Khera")
	second, _ := s.CreateFarmer(ctx, "Lakshmi Bai", "", "", "Rampur")
	s.CreateProduct(ctx, first.ID, "Spinach", "greens", "bunch", "", 150, 30)
	s.CreateProduct(ctx, first.ID, "Okra", "vegetable", "kg", "", 400, 10)
	s.CreateProduct(ctx, second.ID, "Milk", "dairy", "litre", "", 600, 20)

	products, err := s.ListProductsByFarmer(ctx, first.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products for the first farmer, got %d", len(products))
	}
	for _, p := range products {
		if p.FarmerID != first.ID {
			t.Errorf("expected product %s to belong to %s", p.ID, first.ID)
		}
	}
}
