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

package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/farmgate/farmgate/internal/observability/logger"
)

// ErrTableNotFound is returned by a TableRepository when no table has been
// persisted yet.
var ErrTableNotFound = errors.New("permission table not found")

// TableRepository defines the interface for permission table persistence.
// The table is always written whole; there is no partial merge.
type TableRepository interface {
	// Load retrieves the persisted table. Returns ErrTableNotFound when no
	// table exists and ErrMalformedTable (wrapped) when the stored blob
	// cannot be decoded.
	Load(ctx context.Context) (Table, error)

	// Save replaces the persisted table with the given one.
	Save(ctx context.Context, table Table) error
}

// Store holds the effective permission table for the running process. It
// hydrates from the repository at startup (falling back to the built-in
// defaults when nothing usable is persisted), serializes mutations, and
// answers every authorization check from the current in-memory table so that
// an admin edit is visible on the very next check.
type Store struct {
	repo TableRepository

	mu    sync.RWMutex
	table Table
}

// NewStore creates a permission table store. Call Load before serving checks.
func NewStore(repo TableRepository) *Store {
	return &Store{repo: repo, table: DefaultTable()}
}

// Load hydrates the store from persistence. A missing table is normal for a
// fresh install; a malformed or unreadable one is recoverable — it is logged
// and the built-in defaults govern until the next successful Save.
func (s *Store) Load(ctx context.Context) {
	table, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		table = table.Canonicalize()
	case errors.Is(err, ErrTableNotFound):
		slog.InfoContext(ctx, "no persisted permission table, using defaults")
		table = DefaultTable()
	default:
		slog.WarnContext(ctx, "failed to load permission table, falling back to defaults",
			logger.Error(err),
		)
		table = DefaultTable()
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
}

// Save canonicalizes and persists the full table, then swaps it in as the
// effective one. The persistence write must succeed before the in-memory
// state changes, so what is persisted and what governs checks never diverge.
func (s *Store) Save(ctx context.Context, table Table) error {
	canonical := table.Canonicalize()
	if err := s.repo.Save(ctx, canonical); err != nil {
		return fmt.Errorf("failed to persist permission table: %w", err)
	}

	s.mu.Lock()
	s.table = canonical
	s.mu.Unlock()
	return nil
}

// Allows reports whether role may perform action on resource under the
// current table. Fail-closed: unknown roles, resources and actions all deny.
func (s *Store) Allows(role Role, resource Resource, action Action) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Allows(role, resource, action)
}

// PermissionsFor returns a copy of the current entry list for role.
func (s *Store) PermissionsFor(role Role) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.PermissionsFor(role)
}

// AccessibleResources returns the resources role can see in navigation.
func (s *Store) AccessibleResources(role Role) map[Resource]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.AccessibleResources(role)
}

// Snapshot returns a deep copy of the current table, e.g. for the roles
// management screen.
func (s *Store) Snapshot() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// Roles returns the role names present in the current table.
func (s *Store) Roles() []Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roles := make([]Role, 0, len(s.table))
	for role := range s.table {
		roles = append(roles, role)
	}
	return roles
}

// ValidateDeclaredResources checks every resource declared by a guarded
// route against the current table and logs a startup warning for any that no
// role grants. A typo in a route declaration otherwise just locks everyone
// out silently (fail-closed), so surface it early.
func (s *Store) ValidateDeclaredResources(ctx context.Context, declared []Resource) []Resource {
	s.mu.RLock()
	granted := make(map[Resource]bool)
	for _, entries := range s.table {
		for _, e := range entries {
			if len(e.Actions) > 0 {
				granted[e.Resource] = true
			}
		}
	}
	s.mu.RUnlock()

	var missing []Resource
	seen := make(map[Resource]bool)
	for _, res := range declared {
		if seen[res] {
			continue
		}
		seen[res] = true
		if !granted[res] {
			missing = append(missing, res)
		}
	}
	for _, res := range missing {
		slog.WarnContext(ctx, "route declares a resource no role grants; all requests to it will be denied",
			logger.String("resource", string(res)),
		)
	}
	return missing
}
