package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmgate/farmgate/internal/support"
	"github.com/jackc/pgx/v5"
)

// TicketRepository implements support.Repository
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, t *support.Ticket) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO tickets (id, customer_id, subject, body, status, assignee_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, nullable(t.CustomerID), t.Subject, t.Body, string(t.Status), nullable(t.AssigneeID))

	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*support.Ticket, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, customer_id, subject, body, status, assignee_id, created_at, updated_at
		FROM tickets WHERE id = $1
	`, id)
	return scanTicket(row)
}

func (r *TicketRepository) List(ctx context.Context) ([]*support.Ticket, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, customer_id, subject, body, status, assignee_id, created_at, updated_at
		FROM tickets ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*support.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *TicketRepository) Update(ctx context.Context, t *support.Ticket) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE tickets
		SET subject = $2, body = $3, status = $4, assignee_id = $5, updated_at = now()
		WHERE id = $1
	`, t.ID, t.Subject, t.Body, string(t.Status), nullable(t.AssigneeID))

	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	if result.RowsAffected() == 0 {
		return support.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	return nil
}

func scanTicket(row pgx.Row) (*support.Ticket, error) {
	var (
		t          support.Ticket
		customerID *string
		assigneeID *string
	)
	err := row.Scan(&t.ID, &customerID, &t.Subject, &t.Body, &t.Status, &assigneeID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, support.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}
	if customerID != nil {
		t.CustomerID = *customerID
	}
	if assigneeID != nil {
		t.AssigneeID = *assigneeID
	}
	return &t, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
