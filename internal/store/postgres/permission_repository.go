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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/farmgate/farmgate/internal/rbac"
	"github.com/jackc/pgx/v5"
)

// permissionTableKey is the app_state key the permission table lives under.
const permissionTableKey = "role_permissions"

// PermissionTableRepository implements rbac.TableRepository on top of the
// app_state key/value table. The table is one JSON document, written whole.
type PermissionTableRepository struct {
	db *DB
}

// NewPermissionTableRepository creates a new permission table repository
func NewPermissionTableRepository(db *DB) *PermissionTableRepository {
	return &PermissionTableRepository{db: db}
}

// Load retrieves the persisted table. A missing row maps to
// rbac.ErrTableNotFound; an undecodable blob maps to rbac.ErrMalformedTable
// so the caller can fall back to defaults instead of crashing.
func (r *PermissionTableRepository) Load(ctx context.Context) (rbac.Table, error) {
	var raw []byte
	err := r.db.pool.QueryRow(ctx, `
		SELECT value FROM app_state WHERE key = $1
	`, permissionTableKey).Scan(&raw)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rbac.ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to load permission table: %w", err)
	}

	var table rbac.Table
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("%w: %v", rbac.ErrMalformedTable, err)
	}
	return table, nil
}

// Save replaces the persisted table.
func (r *PermissionTableRepository) Save(ctx context.Context, table rbac.Table) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode permission table: %w", err)
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, permissionTableKey, raw)

	if err != nil {
		return fmt.Errorf("failed to save permission table: %w", err)
	}
	return nil
}
