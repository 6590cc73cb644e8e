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
	"fmt"
	"log/slog"
	"os"

	"github.com/farmgate/farmgate/internal/observability/logger"
	"github.com/farmgate/farmgate/internal/rbac"
)

const (
	EnvBootstrapAdminEmail    = "FG_BOOTSTRAP_ADMIN_EMAIL"
	EnvBootstrapAdminPassword = "FG_BOOTSTRAP_ADMIN_PASSWORD"
	EnvBootstrapAdminName     = "FG_BOOTSTRAP_ADMIN_NAME"
)

// Bootstrap provisions the initial admin employee from environment
// configuration so a fresh install has someone who can log in. It is a no-op
// when the variables are unset or the employee already exists.
func (s *Service) Bootstrap(ctx context.Context) error {
	email := os.Getenv(EnvBootstrapAdminEmail)
	password := os.Getenv(EnvBootstrapAdminPassword)
	if email == "" || password == "" {
		return nil
	}

	name := os.Getenv(EnvBootstrapAdminName)
	if name == "" {
		name = "Administrator"
	}

	if existing, err := s.repo.GetByEmail(ctx, normalizeEmail(email)); err == nil && existing != nil {
		return nil
	}

	emp, err := s.CreateEmployee(ctx, name, email, "", password, rbac.RoleAdmin)
	if err != nil {
		if errors.Is(err, ErrEmployeeAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to bootstrap admin employee: %w", err)
	}

	slog.InfoContext(ctx, "bootstrapped initial admin employee",
		logger.EmployeeID(emp.ID),
		logger.Email(emp.Email),
	)
	return nil
}
