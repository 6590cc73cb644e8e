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
	"time"

	"github.com/farmgate/farmgate/internal/rbac"
)

// Domain errors
var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeAlreadyExists = errors.New("employee already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrWeakPassword          = errors.New("password does not meet security requirements")
	ErrAccountLocked         = errors.New("account is locked")
	ErrAccountInactive       = errors.New("account is inactive")
)

// Employee is a portal staff member. The Role field is the key into the
// permission table; which portal areas the employee can reach is decided
// there, never on the employee record itself.
type Employee struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	Role                rbac.Role  `json:"role"`
	Active              bool       `json:"active"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Repository defines the interface for employee persistence
type Repository interface {
	// Create creates a new employee with the given password hash
	Create(ctx context.Context, emp *Employee, passwordHash string) error

	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id string) (*Employee, error)

	// GetByEmail retrieves an employee by email
	GetByEmail(ctx context.Context, email string) (*Employee, error)

	// List retrieves all employees ordered by creation time
	List(ctx context.Context) ([]*Employee, error)

	// Update updates employee information
	Update(ctx context.Context, emp *Employee) error

	// UpdateLockout updates the failed-attempt counter and lockout deadline
	UpdateLockout(ctx context.Context, id string, failedAttempts int, lockedUntil *time.Time) error

	// GetPasswordHash retrieves the stored password hash
	GetPasswordHash(ctx context.Context, id string) (string, error)

	// UpdatePassword replaces the stored password hash
	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// Delete removes an employee
	Delete(ctx context.Context, id string) error
}
