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

	"github.com/farmgate/farmgate/internal/identity"
	"github.com/jackc/pgx/v5"
)

// EmployeeRepository implements identity.Repository
type EmployeeRepository struct {
	db *DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create creates a new employee with the given password hash
func (r *EmployeeRepository) Create(ctx context.Context, emp *identity.Employee, passwordHash string) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO employees (id, name, email, phone, role, active, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, emp.ID, emp.Name, emp.Email, emp.Phone, string(emp.Role), emp.Active, passwordHash)

	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

const employeeColumns = `id, name, email, phone, role, active, failed_login_attempts, locked_until, created_at, updated_at`

func scanEmployee(row pgx.Row) (*identity.Employee, error) {
	var emp identity.Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Phone, &emp.Role, &emp.Active,
		&emp.FailedLoginAttempts, &emp.LockedUntil, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &emp, nil
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*identity.Employee, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

// GetByEmail retrieves an employee by email
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*identity.Employee, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = $1`, email)
	return scanEmployee(row)
}

// List retrieves all employees ordered by creation time
func (r *EmployeeRepository) List(ctx context.Context) ([]*identity.Employee, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*identity.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// Update updates employee information
func (r *EmployeeRepository) Update(ctx context.Context, emp *identity.Employee) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE employees
		SET name = $2, phone = $3, role = $4, active = $5, updated_at = now()
		WHERE id = $1
	`, emp.ID, emp.Name, emp.Phone, string(emp.Role), emp.Active)

	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return identity.ErrEmployeeNotFound
	}
	return nil
}

// UpdateLockout updates the failed-attempt counter and lockout deadline
func (r *EmployeeRepository) UpdateLockout(ctx context.Context, id string, failedAttempts int, lockedUntil *time.Time) error {
	_, err := r.db.pool.Exec(ctx, `
		UPDATE employees
		SET failed_login_attempts = $2, locked_until = $3, updated_at = now()
		WHERE id = $1
	`, id, failedAttempts, lockedUntil)

	if err != nil {
		return fmt.Errorf("failed to update lockout: %w", err)
	}
	return nil
}

// GetPasswordHash retrieves the stored password hash
func (r *EmployeeRepository) GetPasswordHash(ctx context.Context, id string) (string, error) {
	var hash string
	err := r.db.pool.QueryRow(ctx, `SELECT password_hash FROM employees WHERE id = $1`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", identity.ErrEmployeeNotFound
		}
		return "", fmt.Errorf("failed to get password hash: %w", err)
	}
	return hash, nil
}

// UpdatePassword replaces the stored password hash
func (r *EmployeeRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE employees SET password_hash = $2, updated_at = now() WHERE id = $1
	`, id, passwordHash)

	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return identity.ErrEmployeeNotFound
	}
	return nil
}

// Delete removes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}
