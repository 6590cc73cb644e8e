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
	"errors"
	"testing"
	"time"

	"github.com/farmgate/farmgate/internal/rbac"
)

// MockEmployeeRepository is a simple in-memory implementation of Repository
type MockEmployeeRepository struct {
	employees map[string]*Employee
	hashes    map[string]string
}

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{
		employees: make(map[string]*Employee),
		hashes:    make(map[string]string),
	}
}

func (m *MockEmployeeRepository) Create(ctx context.Context, emp *Employee, passwordHash string) error {
	cp := *emp
	m.employees[emp.ID] = &cp
	m.hashes[emp.ID] = passwordHash
	return nil
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id string) (*Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	cp := *emp
	return &cp, nil
}

func (m *MockEmployeeRepository) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	for _, emp := range m.employees {
		if emp.Email == email {
			cp := *emp
			return &cp, nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (m *MockEmployeeRepository) List(ctx context.Context) ([]*Employee, error) {
	var out []*Employee
	for _, emp := range m.employees {
		cp := *emp
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockEmployeeRepository) Update(ctx context.Context, emp *Employee) error {
	stored, ok := m.employees[emp.ID]
	if !ok {
		return ErrEmployeeNotFound
	}
	stored.Name = emp.Name
	stored.Phone = emp.Phone
	stored.Role = emp.Role
	stored.Active = emp.Active
	return nil
}

func (m *MockEmployeeRepository) UpdateLockout(ctx context.Context, id string, failedAttempts int, lockedUntil *time.Time) error {
	emp, ok := m.employees[id]
	if !ok {
		return ErrEmployeeNotFound
	}
	emp.FailedLoginAttempts = failedAttempts
	emp.LockedUntil = lockedUntil
	return nil
}

func (m *MockEmployeeRepository) GetPasswordHash(ctx context.Context, id string) (string, error) {
	hash, ok := m.hashes[id]
	if !ok {
		return "", ErrEmployeeNotFound
	}
	return hash, nil
}

func (m *MockEmployeeRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	if _, ok := m.hashes[id]; !ok {
		return ErrEmployeeNotFound
	}
	m.hashes[id] = passwordHash
	return nil
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, id string) error {
	delete(m.employees, id)
	delete(m.hashes, id)
	return nil
}

func newTestService(repo Repository) *Service {
	hasher := NewPasswordHasher(65536, 3, 4, 16, 32)
	return NewService(repo, hasher, 3, 5*time.Minute)
}

// TestPurpose: Validates the employee authentication flow, including success, failure, and account lockout after repeated failures.
// Scope: Unit Test
// Security: Authentication mechanisms and brute-force protection (lockout)
// Expected: Success for correct credentials, ErrInvalidCredentials for wrong ones, ErrAccountLocked past the threshold.
// Test Case ID: IDN-01
func TestIdentity_Service_Authenticate(t *testing.T) {
	repo := NewMockEmployeeRepository()
	s := newTestService(repo)
	ctx := context.Background()

	emp, err := s.CreateEmployee(ctx, "Asha Verma", "asha@example.com", "98100 00001", "SecurePassword123", rbac.RoleManager)
	if err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}

	principal, err := s.Authenticate(ctx, "asha@example.com", "SecurePassword123")
	if err != nil {
		t.Fatalf("expected success, got err: %v", err)
	}
	if principal.ID != emp.ID {
		t.Errorf("expected principal ID %s, got %s", emp.ID, principal.ID)
	}
	if principal.Role != rbac.RoleManager {
		t.Errorf("expected manager role on principal, got %s", principal.Role)
	}

	_, err = s.Authenticate(ctx, "asha@example.com", "WrongPassword")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	s.Authenticate(ctx, "asha@example.com", "WrongPassword")          // failed: 2
	_, err = s.Authenticate(ctx, "asha@example.com", "WrongPassword") // failed: 3, threshold met
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for 3rd failed attempt, got %v", err)
	}

	_, err = s.Authenticate(ctx, "asha@example.com", "SecurePassword123")
	if !errors.Is(err, ErrAccountLocked) {
		t.Errorf("expected ErrAccountLocked, got %v", err)
	}
}

// TestPurpose: Validates that deactivated accounts cannot authenticate even with correct credentials.
// Scope: Unit Test
// Security: Account lifecycle enforcement
// Expected: ErrAccountInactive for a deactivated employee.
// Test Case ID: IDN-02
func TestIdentity_Service_Authenticate_Inactive(t *testing.T) {
	repo := NewMockEmployeeRepository()
	s := newTestService(repo)
	ctx := context.Background()

	emp, err := s.CreateEmployee(ctx, "Ravi Iyer", "ravi@example.com", "", "SecurePassword123", rbac.RoleAccountant)
	if err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}
	if _, err := s.UpdateEmployee(ctx, emp.ID, emp.Name, emp.Phone, emp.Role, false); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	_, err = s.Authenticate(ctx, "ravi@example.com", "SecurePassword123")
	if !errors.Is(err, ErrAccountInactive) {
		t.Errorf("expected ErrAccountInactive, got %v", err)
	}
}

// TestPurpose: Validates that creating an employee fails when the email is already registered.
// Scope: Unit Test
// Expected: ErrEmployeeAlreadyExists on the second create with the same email.
// Test Case ID: IDN-03
func TestIdentity_Service_CreateEmployee_Conflict(t *testing.T) {
	repo := NewMockEmployeeRepository()
	s := newTestService(repo)
	ctx := context.Background()

	if _, err := s.CreateEmployee(ctx, "A", "dup@example.com", "", "SecurePassword123", rbac.RoleManager); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := s.CreateEmployee(ctx, "B", "DUP@example.com", "", "AnotherPassword456", rbac.RoleAccountant)
	if !errors.Is(err, ErrEmployeeAlreadyExists) {
		t.Errorf("expected ErrEmployeeAlreadyExists, got %v", err)
	}
}

// TestPurpose: Validates input checks on employee creation.
// Scope: Unit Test
// Security: Credential policy enforcement
// Expected: ErrInvalidEmail for a malformed address, ErrWeakPassword below 8 characters.
// Test Case ID: IDN-04
func TestIdentity_Service_CreateEmployee_Validation(t *testing.T) {
	repo := NewMockEmployeeRepository()
	s := newTestService(repo)
	ctx := context.Background()

	if _, err := s.CreateEmployee(ctx, "X", "not-an-email", "", "SecurePassword123", rbac.RoleManager); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := s.CreateEmployee(ctx, "X", "x@example.com", "", "short", rbac.RoleManager); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

// TestPurpose: Validates the password change flow, including old-password verification.
// Scope: Unit Test
// Expected: Wrong old password rejects; after a successful change only the new password authenticates.
// Test Case ID: IDN-05
func TestIdentity_Service_ChangePassword(t *testing.T) {
	repo := NewMockEmployeeRepository()
	s := newTestService(repo)
	ctx := context.Background()

	emp, err := s.CreateEmployee(ctx, "Meera Nair", "meera@example.com", "", "OriginalPass123", rbac.RoleSalesExecutive)
	if err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}

	if err := s.ChangePassword(ctx, emp.ID, "WrongOld", "ReplacementPass456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong old password, got %v", err)
	}
	if err := s.ChangePassword(ctx, emp.ID, "OriginalPass123", "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if err := s.ChangePassword(ctx, emp.ID, "OriginalPass123", "ReplacementPass456"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := s.Authenticate(ctx, "meera@example.com", "OriginalPass123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("expected old password to stop working")
	}
	if _, err := s.Authenticate(ctx, "meera@example.com", "ReplacementPass456"); err != nil {
		t.Errorf("expected new password to authenticate, got %v", err)
	}
}
