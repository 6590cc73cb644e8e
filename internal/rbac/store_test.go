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
	"reflect"
	"testing"
)

// MockTableRepository is a simple in-memory implementation of TableRepository
type MockTableRepository struct {
	table   Table
	loadErr error
	saveErr error
}

func NewMockTableRepository() *MockTableRepository {
	return &MockTableRepository{}
}

func (m *MockTableRepository) Load(ctx context.Context) (Table, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.table == nil {
		return nil, ErrTableNotFound
	}
	return m.table.Clone(), nil
}

func (m *MockTableRepository) Save(ctx context.Context, table Table) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.table = table.Clone()
	return nil
}

// TestPurpose: Validates that a fresh install with no persisted table serves the built-in defaults.
// Scope: Unit Test
// Expected: Store answers checks from DefaultTable after Load on an empty repository.
// Test Case ID: RBS-01
func TestStore_Load_NoPersistedTable_UsesDefaults(t *testing.T) {
	repo := NewMockTableRepository()
	store := NewStore(repo)
	store.Load(context.Background())

	if !store.Allows(RoleAdmin, ResourceRoles, ActionEdit) {
		t.Error("expected default admin grant after loading empty repository")
	}
	if !reflect.DeepEqual(store.Snapshot(), DefaultTable()) {
		t.Error("expected snapshot to equal the default table")
	}
}

// TestPurpose: Validates fail-soft recovery from malformed persisted state.
// Scope: Unit Test
// Security: Availability under corrupted configuration (never crash, never fail-open beyond defaults)
// Expected: A malformed table falls back to defaults instead of erroring out.
// Test Case ID: RBS-02
func TestStore_Load_MalformedTable_FallsBackToDefaults(t *testing.T) {
	repo := NewMockTableRepository()
	repo.loadErr = fmt.Errorf("%w: unexpected end of JSON input", ErrMalformedTable)

	store := NewStore(repo)
	store.Load(context.Background())

	if !reflect.DeepEqual(store.Snapshot(), DefaultTable()) {
		t.Error("expected defaults to govern after malformed load")
	}
}

// TestPurpose: Validates the save path: canonicalize, persist, then swap in. The persisted and effective tables never diverge.
// Scope: Unit Test
// Expected: Load(Save(T)) equals Canonicalize(T); the new table governs the very next check.
// Test Case ID: RBS-03
func TestStore_Save_RoundTrip(t *testing.T) {
	repo := NewMockTableRepository()
	store := NewStore(repo)
	store.Load(context.Background())

	submitted := Table{
		RoleManager: {
			{Resource: ResourceSales, Actions: []Action{ActionEdit, ActionView}},
			{Resource: ResourceSales, Actions: []Action{ActionCreate}},
			{Resource: ResourceTickets, Actions: []Action{"bogus"}},
		},
	}

	if err := store.Save(context.Background(), submitted); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	persisted, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(persisted, submitted.Canonicalize()) {
		t.Errorf("persisted table is not the canonical form:\n got %v\nwant %v", persisted, submitted.Canonicalize())
	}

	// Effective immediately.
	if !store.Allows(RoleManager, ResourceSales, ActionCreate) {
		t.Error("expected new grant to apply on the next check")
	}
	if store.Allows(RoleManager, ResourceTickets, ActionView) {
		t.Error("expected dropped bogus-action entry to deny")
	}
}

// TestPurpose: Validates that a failed persistence write leaves the effective table unchanged.
// Scope: Unit Test
// Expected: After a save error the previous table still governs checks.
// Test Case ID: RBS-04
func TestStore_Save_PersistFailure_KeepsOldTable(t *testing.T) {
	repo := NewMockTableRepository()
	store := NewStore(repo)
	store.Load(context.Background())

	repo.saveErr = errors.New("connection reset")
	err := store.Save(context.Background(), Table{
		RoleManager: {{Resource: ResourceSales, Actions: []Action{ActionView}}},
	})
	if err == nil {
		t.Fatal("expected save to propagate the persistence error")
	}

	// Defaults (the previous table) still govern.
	if !store.Allows(RoleManager, ResourceFarmers, ActionView) {
		t.Error("expected the pre-save table to remain effective after a failed save")
	}
}

// TestPurpose: Validates that revoking a grant takes effect for sessions that are already logged in.
// Scope: Unit Test
// Security: Permission revocation latency (next check, not next login)
// Expected: After removing a role's grant, the same role is denied on the following check.
// Test Case ID: RBS-05
func TestStore_Revoke_EffectiveOnNextCheck(t *testing.T) {
	repo := NewMockTableRepository()
	store := NewStore(repo)
	store.Load(context.Background())

	if !store.Allows(RoleManager, ResourceCoupons, ActionDelete) {
		t.Fatal("expected default manager coupon grant")
	}

	revoked := store.Snapshot()
	var kept []Entry
	for _, e := range revoked[RoleManager] {
		if e.Resource != ResourceCoupons {
			kept = append(kept, e)
		}
	}
	revoked[RoleManager] = kept

	if err := store.Save(context.Background(), revoked); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if store.Allows(RoleManager, ResourceCoupons, ActionDelete) {
		t.Error("expected revoked grant to deny on the next check")
	}
}

// TestPurpose: Validates the startup cross-check between route-declared resources and the permission table.
// Scope: Unit Test
// Expected: Resources no role grants are reported; granted ones are not.
// Test Case ID: RBS-06
func TestStore_ValidateDeclaredResources(t *testing.T) {
	repo := NewMockTableRepository()
	repo.table = Table{
		RoleManager: {{Resource: ResourceSales, Actions: []Action{ActionView}}},
	}
	store := NewStore(repo)
	store.Load(context.Background())

	missing := store.ValidateDeclaredResources(context.Background(), []Resource{
		ResourceSales,
		ResourceTickets,
		ResourceTickets, // duplicate declarations report once
	})

	if len(missing) != 1 || missing[0] != ResourceTickets {
		t.Errorf("expected [tickets] to be reported missing, got %v", missing)
	}
}
