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
	"reflect"
	"testing"
)

// TestPurpose: Validates the allow-list check across known and unknown roles, resources and actions.
// Scope: Unit Test
// Security: Fail-closed authorization (anything not explicitly granted denies)
// Expected: Only explicitly granted (role, resource, action) triples allow.
// Test Case ID: RBC-01
func TestTable_Allows_FailClosed(t *testing.T) {
	table := Table{
		RoleSalesExecutive: {
			{Resource: ResourceSales, Actions: []Action{ActionView, ActionCreate}},
			{Resource: ResourceProducts, Actions: []Action{ActionView}},
		},
	}

	if !table.Allows(RoleSalesExecutive, ResourceSales, ActionCreate) {
		t.Error("expected explicit grant to allow")
	}
	if table.Allows(RoleSalesExecutive, ResourceSales, ActionDelete) {
		t.Error("expected ungranted action to deny")
	}
	if table.Allows(RoleSalesExecutive, ResourceEmployees, ActionView) {
		t.Error("expected ungranted resource to deny")
	}
	if table.Allows(RoleAccountant, ResourceSales, ActionView) {
		t.Error("expected role absent from table to deny")
	}
	if table.Allows("ghost_role", ResourceSales, ActionView) {
		t.Error("expected unknown role to deny")
	}
	if table.Allows(RoleSalesExecutive, "not_a_resource", ActionView) {
		t.Error("expected unknown resource to deny")
	}
	if table.Allows(RoleSalesExecutive, ResourceSales, "not_an_action") {
		t.Error("expected unknown action to deny")
	}
}

// TestPurpose: Validates canonicalization: duplicate resources merge, unknown actions drop, action order normalizes, empty entries disappear.
// Scope: Unit Test
// Expected: Canonical form is stable and minimal.
// Test Case ID: RBC-02
func TestTable_Canonicalize(t *testing.T) {
	table := Table{
		RoleManager: {
			{Resource: ResourceSales, Actions: []Action{ActionEdit, ActionView}},
			{Resource: ResourceSales, Actions: []Action{ActionCreate, "fly"}},
			{Resource: ResourceTickets, Actions: []Action{"warp"}},
			{Resource: ResourceFarmers, Actions: nil},
		},
	}

	got := table.Canonicalize()

	want := []Entry{
		{Resource: ResourceSales, Actions: []Action{ActionView, ActionCreate, ActionEdit}},
	}
	if !reflect.DeepEqual(got[RoleManager], want) {
		t.Errorf("canonical entries mismatch:\n got %v\nwant %v", got[RoleManager], want)
	}
}

// TestPurpose: Validates that canonicalization is idempotent, which is the round-trip law the store relies on.
// Scope: Unit Test
// Expected: Canonicalize(Canonicalize(T)) == Canonicalize(T).
// Test Case ID: RBC-03
func TestTable_Canonicalize_Idempotent(t *testing.T) {
	table := Table{
		RoleAdmin: {
			{Resource: ResourceRoles, Actions: []Action{ActionDelete, ActionView, ActionView}},
			{Resource: ResourceRoles, Actions: []Action{ActionEdit}},
		},
		RoleAccountant: {},
	}

	once := table.Canonicalize()
	twice := once.Canonicalize()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("canonicalization not idempotent:\n once %v\ntwice %v", once, twice)
	}
}

// TestPurpose: Validates that navigation visibility is action-blind: any granted action exposes the resource.
// Scope: Unit Test
// Expected: A resource with only "delete" granted is still accessible; resources with no grant are not.
// Test Case ID: RBC-04
func TestTable_AccessibleResources_ActionBlind(t *testing.T) {
	table := Table{
		RoleAccountant: {
			{Resource: ResourceTransactions, Actions: []Action{ActionView}},
			{Resource: ResourceCoupons, Actions: []Action{ActionDelete}},
			{Resource: ResourceTickets, Actions: nil},
		},
	}

	accessible := table.AccessibleResources(RoleAccountant)

	if !accessible[ResourceTransactions] {
		t.Error("expected transactions to be accessible")
	}
	if !accessible[ResourceCoupons] {
		t.Error("expected coupons to be accessible via delete-only grant")
	}
	if accessible[ResourceTickets] {
		t.Error("expected empty action set to hide the resource")
	}
	if accessible[ResourceEmployees] {
		t.Error("expected ungranted resource to be inaccessible")
	}
}

// TestPurpose: Validates that Clone produces an independent deep copy.
// Scope: Unit Test
// Expected: Mutating the clone leaves the original untouched.
// Test Case ID: RBC-05
func TestTable_Clone_Independent(t *testing.T) {
	table := Table{
		RoleManager: {
			{Resource: ResourceSales, Actions: []Action{ActionView}},
		},
	}

	clone := table.Clone()
	clone[RoleManager][0].Actions[0] = ActionDelete
	clone["extra"] = []Entry{{Resource: ResourceRoles, Actions: []Action{ActionView}}}

	if table.Allows(RoleManager, ResourceSales, ActionDelete) {
		t.Error("mutating clone leaked into the original table")
	}
	if _, ok := table["extra"]; ok {
		t.Error("adding a role to the clone leaked into the original")
	}
}

// TestPurpose: Validates the shipped default table gives admin everything and keeps the other roles scoped.
// Scope: Unit Test
// Expected: Admin allows every (resource, action); sales executive cannot manage employees.
// Test Case ID: RBC-06
func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	for _, res := range KnownResources {
		for _, act := range []Action{ActionView, ActionCreate, ActionEdit, ActionDelete} {
			if !table.Allows(RoleAdmin, res, act) {
				t.Errorf("expected admin to be allowed %s on %s", act, res)
			}
		}
	}

	if table.Allows(RoleSalesExecutive, ResourceEmployees, ActionView) {
		t.Error("expected sales executive to be denied the employees screen")
	}
	if table.Allows(RoleAccountant, ResourceRoles, ActionEdit) {
		t.Error("expected accountant to be denied role management")
	}
	if !table.Allows(RoleSalesExecutive, ResourceSales, ActionCreate) {
		t.Error("expected sales executive to record sales")
	}
}
