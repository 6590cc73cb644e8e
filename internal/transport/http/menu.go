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

package http

import (
	"net/http"

	"github.com/farmgate/farmgate/internal/rbac"
)

// MenuItem is one entry of the portal's navigation chrome. Items tagged with
// a resource appear only for roles that can access that resource; untagged
// items (separators, section headers) always appear.
type MenuItem struct {
	Label     string        `json:"label"`
	Path      string        `json:"path,omitempty"`
	Icon      string        `json:"icon,omitempty"`
	Separator bool          `json:"separator,omitempty"`
	Resource  rbac.Resource `json:"-"`
}

// portalMenu is the full navigation in display order. The filter never
// reorders; each role sees a subsequence of this list.
var portalMenu = []MenuItem{
	{Label: "Dashboard", Path: "/dashboard", Icon: "home", Resource: rbac.ResourceDashboard},
	{Separator: true},
	{Label: "Farmers", Path: "/farmers", Icon: "users", Resource: rbac.ResourceFarmers},
	{Label: "Products", Path: "/products", Icon: "package", Resource: rbac.ResourceProducts},
	{Label: "Customers", Path: "/customers", Icon: "user", Resource: rbac.ResourceCustomers},
	{Separator: true},
	{Label: "Sales", Path: "/sales", Icon: "shopping-cart", Resource: rbac.ResourceSales},
	{Label: "Transactions", Path: "/transactions", Icon: "credit-card", Resource: rbac.ResourceTransactions},
	{Label: "Coupons", Path: "/coupons", Icon: "tag", Resource: rbac.ResourceCoupons},
	{Label: "Settlements", Path: "/settlements", Icon: "banknote", Resource: rbac.ResourceSettlements},
	{Separator: true},
	{Label: "Tickets", Path: "/tickets", Icon: "life-buoy", Resource: rbac.ResourceTickets},
	{Label: "Employees", Path: "/employees", Icon: "briefcase", Resource: rbac.ResourceEmployees},
	{Label: "Roles", Path: "/roles", Icon: "shield", Resource: rbac.ResourceRoles},
}

// FilterMenu returns the items visible to a role: untagged items pass
// through, tagged items pass only when the role can access the resource.
// Visibility is action-blind; any granted action on a resource shows its
// menu entry.
func FilterMenu(menu []MenuItem, accessible map[rbac.Resource]bool) []MenuItem {
	filtered := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if item.Resource != "" && !accessible[item.Resource] {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// Menu returns the navigation filtered for the current principal.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())
	if principal == nil {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	accessible := h.permissions.AccessibleResources(principal.Role)
	respondJSON(w, http.StatusOK, map[string]any{
		"items": FilterMenu(portalMenu, accessible),
	})
}
