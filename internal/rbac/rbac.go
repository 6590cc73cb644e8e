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

import "errors"

// Domain errors
var (
	ErrMalformedTable = errors.New("malformed permission table")
)

// Role is the name of a permission profile. The built-in roles are listed
// below; the management screen may introduce additional ones, which are
// treated exactly the same way (the name is purely a lookup key).
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleManager        Role = "manager"
	RoleSalesExecutive Role = "sales_executive"
	RoleAccountant     Role = "accountant"
)

// Resource names a protected area of portal functionality. Resources are
// flat; there is no hierarchy or inheritance between them.
type Resource string

const (
	ResourceDashboard    Resource = "dashboard"
	ResourceFarmers      Resource = "farmers"
	ResourceProducts     Resource = "products"
	ResourceSales        Resource = "sales"
	ResourceTransactions Resource = "transactions"
	ResourceEmployees    Resource = "employees"
	ResourceRoles        Resource = "roles"
	ResourceCoupons      Resource = "coupons"
	ResourceTickets      Resource = "tickets"
	ResourceCustomers    Resource = "customers"
	ResourceSettlements  Resource = "settlements"
)

// KnownResources lists every resource the portal ships with, in display order.
var KnownResources = []Resource{
	ResourceDashboard,
	ResourceFarmers,
	ResourceProducts,
	ResourceSales,
	ResourceTransactions,
	ResourceEmployees,
	ResourceRoles,
	ResourceCoupons,
	ResourceTickets,
	ResourceCustomers,
	ResourceSettlements,
}

// Action is the operation being gated. The set is closed and uniform across
// resources.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// allActions is the canonical ordering used when normalizing action sets.
var allActions = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}

// ValidAction reports whether a is one of the closed action set.
func ValidAction(a Action) bool {
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return true
	}
	return false
}

// Entry associates one resource with the set of actions a role may perform
// on it. Within a role's entry list each resource appears at most once.
type Entry struct {
	Resource Resource `json:"resource"`
	Actions  []Action `json:"actions"`
}

// HasAction reports whether the entry grants the given action.
func (e Entry) HasAction(action Action) bool {
	for _, a := range e.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Table maps a role to its ordered permission entries. Authorization is
// allow-list only: a missing role, missing resource entry, or missing action
// all mean denial.
type Table map[Role][]Entry

// Allows reports whether the table grants action on resource to role.
func (t Table) Allows(role Role, resource Resource, action Action) bool {
	for _, e := range t[role] {
		if e.Resource == resource {
			return e.HasAction(action)
		}
	}
	return false
}

// PermissionsFor returns a copy of the entry list for role, or nil for an
// unknown role.
func (t Table) PermissionsFor(role Role) []Entry {
	src := t[role]
	if src == nil {
		return nil
	}
	out := make([]Entry, len(src))
	for i, e := range src {
		out[i] = Entry{Resource: e.Resource, Actions: append([]Action(nil), e.Actions...)}
	}
	return out
}

// AccessibleResources returns the set of resources for which role has at
// least one action. This backs menu visibility only; it deliberately does not
// distinguish actions (a delete-only grant still surfaces the nav entry, the
// route guard is the enforcement point).
func (t Table) AccessibleResources(role Role) map[Resource]bool {
	out := make(map[Resource]bool)
	for _, e := range t[role] {
		if len(e.Actions) > 0 {
			out[e.Resource] = true
		}
	}
	return out
}

// Canonicalize returns a normalized copy of the table: duplicate resources
// within a role are merged (first position wins), unknown actions are
// dropped, action sets follow the view/create/edit/delete ordering, and
// entries left with no actions are removed entirely. Saving always persists
// the canonical form, so load-after-save round-trips.
func (t Table) Canonicalize() Table {
	out := make(Table, len(t))
	for role, entries := range t {
		var (
			order  []Resource
			merged = make(map[Resource]map[Action]bool)
		)
		for _, e := range entries {
			set, seen := merged[e.Resource]
			if !seen {
				set = make(map[Action]bool)
				merged[e.Resource] = set
				order = append(order, e.Resource)
			}
			for _, a := range e.Actions {
				if ValidAction(a) {
					set[a] = true
				}
			}
		}
		canonical := make([]Entry, 0, len(order))
		for _, res := range order {
			var actions []Action
			for _, a := range allActions {
				if merged[res][a] {
					actions = append(actions, a)
				}
			}
			if len(actions) == 0 {
				continue
			}
			canonical = append(canonical, Entry{Resource: res, Actions: actions})
		}
		out[role] = canonical
	}
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for role := range t {
		out[role] = t.PermissionsFor(role)
	}
	return out
}
