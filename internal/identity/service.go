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

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/farmgate/farmgate/internal/observability/logger"
	"github.com/farmgate/farmgate/internal/rbac"
	"github.com/farmgate/farmgate/internal/session"
	"github.com/google/uuid"
)

// Service provides employee identity business logic: credential
// verification for the login flow and CRUD for the employees screen.
type Service struct {
	repo               Repository
	hasher             *PasswordHasher
	lockoutMaxAttempts int
	lockoutDuration    time.Duration
}

// NewService creates a new identity service
func NewService(repo Repository, hasher *PasswordHasher, lockoutMaxAttempts int, lockoutDuration time.Duration) *Service {
	return &Service{
		repo:               repo,
		hasher:             hasher,
		lockoutMaxAttempts: lockoutMaxAttempts,
		lockoutDuration:    lockoutDuration,
	}
}

// Authenticate verifies email/password and returns the principal to record
// in the session. The caller decides what to do with it; this method does
// not touch session state.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*session.Principal, error) {
	emp, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		slog.InfoContext(ctx, "login failed", logger.Email(email), logger.String("reason", "employee_not_found"))
		return nil, ErrInvalidCredentials
	}

	if !emp.Active {
		slog.InfoContext(ctx, "login failed", logger.EmployeeID(emp.ID), logger.String("reason", "inactive"))
		return nil, ErrAccountInactive
	}

	if emp.LockedUntil != nil && emp.LockedUntil.After(time.Now()) {
		slog.InfoContext(ctx, "login failed", logger.EmployeeID(emp.ID), logger.String("reason", "locked_out"))
		return nil, ErrAccountLocked
	}

	hash, err := s.repo.GetPasswordHash(ctx, emp.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := s.hasher.Verify(password, hash)
	if err != nil || !valid {
		newAttempts := emp.FailedLoginAttempts + 1
		var lockedUntil *time.Time
		if newAttempts >= s.lockoutMaxAttempts {
			until := time.Now().Add(s.lockoutDuration)
			lockedUntil = &until
			slog.WarnContext(ctx, "employee locked out after repeated failures",
				logger.EmployeeID(emp.ID),
				slog.Int("attempts", newAttempts),
			)
		}
		_ = s.repo.UpdateLockout(ctx, emp.ID, newAttempts, lockedUntil)

		slog.InfoContext(ctx, "login failed", logger.EmployeeID(emp.ID), logger.String("reason", "invalid_password"))
		return nil, ErrInvalidCredentials
	}

	if emp.FailedLoginAttempts > 0 || emp.LockedUntil != nil {
		_ = s.repo.UpdateLockout(ctx, emp.ID, 0, nil)
	}

	slog.InfoContext(ctx, "login succeeded", logger.EmployeeID(emp.ID), logger.RoleName(string(emp.Role)))

	return &session.Principal{
		ID:    emp.ID,
		Name:  emp.Name,
		Email: emp.Email,
		Role:  emp.Role,
	}, nil
}

// CreateEmployee provisions a new employee with credentials.
func (s *Service) CreateEmployee(ctx context.Context, name, email, phone, password string, role rbac.Role) (*Employee, error) {
	email = normalizeEmail(email)
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !isStrongPassword(password) {
		return nil, ErrWeakPassword
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmployeeAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	emp := &Employee{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Phone:  phone,
		Role:   role,
		Active: true,
	}

	if err := s.repo.Create(ctx, emp, hash); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return emp, nil
}

// GetEmployee retrieves an employee by ID.
func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	return s.repo.GetByID(ctx, id)
}

// ListEmployees lists all employees.
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	return s.repo.List(ctx)
}

// UpdateEmployee updates name, phone, role and active flag. A role change
// takes effect on the employee's next login; the permission table a role
// maps to is consulted fresh on every check regardless.
func (s *Service) UpdateEmployee(ctx context.Context, id, name, phone string, role rbac.Role, active bool) (*Employee, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	emp.Name = name
	emp.Phone = phone
	emp.Role = role
	emp.Active = active

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return emp, nil
}

// ChangePassword verifies the old password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	hash, err := s.repo.GetPasswordHash(ctx, id)
	if err != nil {
		return ErrEmployeeNotFound
	}

	valid, err := s.hasher.Verify(oldPassword, hash)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	if !isStrongPassword(newPassword) {
		return ErrWeakPassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, newHash)
}

// DeleteEmployee removes an employee record.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Helper functions
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && len(email) < 255
}

func isStrongPassword(password string) bool {
	return len(password) >= 8
}
