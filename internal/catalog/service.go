package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides catalog business logic for the farmers, products and
// customers screens.
type Service struct {
	farmers   FarmerRepository
	products  ProductRepository
	customers CustomerRepository
}

// NewService creates a new catalog service
func NewService(farmers FarmerRepository, products ProductRepository, customers CustomerRepository) *Service {
	return &Service{farmers: farmers, products: products, customers: customers}
}

// CreateFarmer registers a new supplier.
func (s *Service) CreateFarmer(ctx context.Context, name, phone, email, village string) (*Farmer, error) {
	f := &Farmer{
		ID:      uuid.NewString(),
		Name:    name,
		Phone:   phone,
		Email:   email,
		Village: village,
		Active:  true,
	}
	if err := s.farmers.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create farmer: %w", err)
	}
	return f, nil
}

func (s *Service) GetFarmer(ctx context.Context, id string) (*Farmer, error) {
	return s.farmers.GetByID(ctx, id)
}

func (s *Service) ListFarmers(ctx context.Context) ([]*Farmer, error) {
	return s.farmers.List(ctx)
}

func (s *Service) UpdateFarmer(ctx context.Context, f *Farmer) error {
	if _, err := s.farmers.GetByID(ctx, f.ID); err != nil {
		return err
	}
	return s.farmers.Update(ctx, f)
}

func (s *Service) DeleteFarmer(ctx context.Context, id string) error {
	return s.farmers.Delete(ctx, id)
}

// CreateProduct adds a catalog item for a farmer. The farmer must exist.
func (s *Service) CreateProduct(ctx context.Context, farmerID, name, category, unit, barcode string, priceCents int64, stock int) (*Product, error) {
	if _, err := s.farmers.GetByID(ctx, farmerID); err != nil {
		return nil, err
	}

	p := &Product{
		ID:         uuid.NewString(),
		FarmerID:   farmerID,
		Name:       name,
		Category:   category,
		Unit:       unit,
		PriceCents: priceCents,
		Stock:      stock,
		Barcode:    barcode,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.products.GetByID(ctx, id)
}

// GetProductByBarcode resolves a scanned POS barcode.
func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.products.GetByBarcode(ctx, barcode)
}

func (s *Service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.products.List(ctx)
}

func (s *Service) ListProductsByFarmer(ctx context.Context, farmerID string) ([]*Product, error) {
	return s.products.ListByFarmer(ctx, farmerID)
}

func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if _, err := s.products.GetByID(ctx, p.ID); err != nil {
		return err
	}
	return s.products.Update(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

// CreateCustomer registers a storefront customer.
func (s *Service) CreateCustomer(ctx context.Context, name, phone, email string) (*Customer, error) {
	c := &Customer{
		ID:    uuid.NewString(),
		Name:  name,
		Phone: phone,
		Email: email,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]*Customer, error) {
	return s.customers.List(ctx)
}

func (s *Service) UpdateCustomer(ctx context.Context, c *Customer) error {
	if _, err := s.customers.GetByID(ctx, c.ID); err != nil {
		return err
	}
	return s.customers.Update(ctx, c)
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.customers.Delete(ctx, id)
}
