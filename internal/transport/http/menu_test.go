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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farmgate/farmgate/internal/rbac"
	"github.com/farmgate/farmgate/internal/session"
	"github.com/stretchr/testify/assert"
)

// TestPurpose: Validates that menu filtering keeps display order and drops only inaccessible tagged items.
// Scope: Unit Test
// Expected: The filtered menu is a subsequence of the full menu; untagged separators survive.
// Test Case ID: MNU-01
func TestMenu_Filter_Subsequence(t *testing.T) {
	menu := []MenuItem{
		{Label: "Dashboard", Resource: rbac.ResourceDashboard},
		{Separator: true},
		{Label: "Sales", Resource: rbac.ResourceSales},
		{Label: "Employees", Resource: rbac.ResourceEmployees},
	}
	accessible := map[rbac.Resource]bool{
		rbac.ResourceDashboard: true,
		rbac.ResourceSales:     true,
	}

	filtered := FilterMenu(menu, accessible)

	labels := make([]string, 0, len(filtered))
	for _, item := range filtered {
		if item.Separator {
			labels = append(labels, "---")
			continue
		}
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"Dashboard", "---", "Sales"}, labels,
		"MNU-01: Order preserved, separator kept, denied entry dropped")
}

// TestPurpose: Validates that visibility is action-blind: any grant on a resource shows its entry.
// Scope: Unit Test
// Expected: A delete-only grant still surfaces the resource in navigation.
// Test Case ID: MNU-02
func TestMenu_Filter_ActionBlind(t *testing.T) {
	store := rbac.NewStore(&memTableRepo{table: rbac.Table{
		"auditor": {{Resource: rbac.ResourceSettlements, Actions: []rbac.Action{rbac.ActionDelete}}},
	}})
	store.Load(context.Background())

	filtered := FilterMenu(portalMenu, store.AccessibleResources("auditor"))

	var labels []string
	for _, item := range filtered {
		if !item.Separator {
			labels = append(labels, item.Label)
		}
	}
	assert.Equal(t, []string{"Settlements"}, labels,
		"MNU-02: A delete-only grant should still show the entry")
}

// TestPurpose: Validates the menu endpoint end to end for an admin and for an anonymous request.
// Scope: Unit Test
// Expected: Admin sees every entry of the full menu; no principal yields 401.
// Test Case ID: MNU-03
func TestMenu_Handler(t *testing.T) {
	h := createGuardHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	req = req.WithContext(WithPrincipal(req.Context(), &session.Principal{ID: "emp-1", Role: rbac.RoleAdmin}))
	w := httptest.NewRecorder()
	h.Menu(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items []MenuItem `json:"items"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body.Items, len(portalMenu),
		"MNU-03: Admin should see the full menu")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	w = httptest.NewRecorder()
	h.Menu(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code,
		"MNU-03: Anonymous menu requests should be rejected")
}
