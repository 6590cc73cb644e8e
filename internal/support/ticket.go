package support

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrInvalidStatus  = errors.New("invalid ticket status")
)

// Status is a ticket's workflow state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// ValidStatus reports whether s is a known workflow state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Ticket is a customer support request handled through the portal.
type Ticket struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id,omitempty"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Status     Status    `json:"status"`
	AssigneeID string    `json:"assignee_id,omitempty"` // employee working the ticket, empty if unassigned
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Repository defines the interface for ticket persistence
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id string) (*Ticket, error)
	List(ctx context.Context) ([]*Ticket, error)
	Update(ctx context.Context, t *Ticket) error
	Delete(ctx context.Context, id string) error
}

// Service provides ticket business logic for the tickets screen.
type Service struct {
	repo Repository
}

// NewService creates a new support service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateTicket opens a new ticket.
func (s *Service) CreateTicket(ctx context.Context, customerID, subject, body string) (*Ticket, error) {
	t := &Ticket{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Subject:    subject,
		Body:       body,
		Status:     StatusOpen,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return t, nil
}

func (s *Service) GetTicket(ctx context.Context, id string) (*Ticket, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListTickets(ctx context.Context) ([]*Ticket, error) {
	return s.repo.List(ctx)
}

// UpdateTicket changes status and assignee.
func (s *Service) UpdateTicket(ctx context.Context, id string, status Status, assigneeID string) (*Ticket, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Status = status
	t.AssigneeID = assigneeID
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return t, nil
}

func (s *Service) DeleteTicket(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
