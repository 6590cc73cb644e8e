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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/farmgate/farmgate/internal/rbac"
	"github.com/farmgate/farmgate/internal/session"
	"github.com/stretchr/testify/assert"
)

func adminRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	principal := &session.Principal{ID: "emp-admin", Name: "Admin", Role: rbac.RoleAdmin}
	return req.WithContext(WithPrincipal(req.Context(), principal))
}

// TestPurpose: Validates that the roles screen gets the table plus the closed resource/action vocabulary.
// Scope: Unit Test
// Expected: Response carries table, resources and the four actions.
// Test Case ID: ROL-01
func TestRoles_GetPermissions(t *testing.T) {
	h := createGuardHandler(t)

	w := httptest.NewRecorder()
	h.GetPermissions(w, adminRequest(http.MethodGet, "/api/v1/roles/permissions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Table     rbac.Table      `json:"table"`
		Resources []rbac.Resource `json:"resources"`
		Actions   []rbac.Action   `json:"actions"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotEmpty(t, body.Table[rbac.RoleAdmin], "ROL-01: Default admin entries expected")
	assert.Len(t, body.Resources, len(rbac.KnownResources))
	assert.Equal(t, []rbac.Action{rbac.ActionView, rbac.ActionCreate, rbac.ActionEdit, rbac.ActionDelete}, body.Actions)
}

// TestPurpose: Validates the table replacement flow: the submitted table is canonicalized, persisted, and governs the next check.
// Scope: Unit Test
// Security: Permission administration round trip
// Expected: Duplicate entries merge in the response; a check against the new table reflects the edit.
// Test Case ID: ROL-02
func TestRoles_PutPermissions_CanonicalizesAndApplies(t *testing.T) {
	h := createGuardHandler(t)

	submitted := rbac.Table{
		rbac.RoleAccountant: {
			{Resource: rbac.ResourceTickets, Actions: []rbac.Action{rbac.ActionEdit, rbac.ActionView}},
			{Resource: rbac.ResourceTickets, Actions: []rbac.Action{rbac.ActionCreate}},
		},
	}
	payload, _ := json.Marshal(submitted)

	w := httptest.NewRecorder()
	h.PutPermissions(w, adminRequest(http.MethodPut, "/api/v1/roles/permissions", payload))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Table rbac.Table `json:"table"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))

	entries := body.Table[rbac.RoleAccountant]
	if assert.Len(t, entries, 1, "ROL-02: Duplicate resource entries should merge") {
		assert.Equal(t, rbac.ResourceTickets, entries[0].Resource)
		assert.Equal(t, []rbac.Action{rbac.ActionView, rbac.ActionCreate, rbac.ActionEdit}, entries[0].Actions,
			"ROL-02: Actions should come back in canonical order")
	}

	assert.True(t, h.permissions.Allows(rbac.RoleAccountant, rbac.ResourceTickets, rbac.ActionCreate),
		"ROL-02: The new grant should govern the next check")
	assert.False(t, h.permissions.Allows(rbac.RoleAccountant, rbac.ResourceSettlements, rbac.ActionView),
		"ROL-02: Entries absent from the replacement table should deny")
}

// TestPurpose: Validates input rejection on table replacement.
// Scope: Unit Test
// Security: Guards against wiping the whole table by accident
// Expected: HTTP 400 for an empty table, an empty role name, and a malformed body.
// Test Case ID: ROL-03
func TestRoles_PutPermissions_RejectsInvalidInput(t *testing.T) {
	h := createGuardHandler(t)
	before := h.permissions.Snapshot()

	w := httptest.NewRecorder()
	h.PutPermissions(w, adminRequest(http.MethodPut, "/api/v1/roles/permissions", []byte(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code, "ROL-03: Empty table should be rejected")

	w = httptest.NewRecorder()
	h.PutPermissions(w, adminRequest(http.MethodPut, "/api/v1/roles/permissions",
		[]byte(`{"": [{"resource": "sales", "actions": ["view"]}]}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code, "ROL-03: Empty role name should be rejected")

	req := adminRequest(http.MethodPut, "/api/v1/roles/permissions", nil)
	req.Body = http.NoBody
	w = httptest.NewRecorder()
	h.PutPermissions(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, "ROL-03: Malformed body should be rejected")

	assert.Equal(t, before, h.permissions.Snapshot(),
		"ROL-03: Rejected requests must not change the effective table")
}

// TestPurpose: Validates that unknown actions in a submitted table are dropped rather than persisted.
// Scope: Unit Test
// Security: Closed action vocabulary (no grant smuggling via unknown verbs)
// Expected: An entry with only bogus actions disappears from the stored table.
// Test Case ID: ROL-04
func TestRoles_PutPermissions_DropsUnknownActions(t *testing.T) {
	h := createGuardHandler(t)

	payload := `{"manager": [{"resource": "sales", "actions": ["view", "fly"]}, {"resource": "coupons", "actions": ["warp"]}]}`
	w := httptest.NewRecorder()
	h.PutPermissions(w, adminRequest(http.MethodPut, "/api/v1/roles/permissions", []byte(strings.TrimSpace(payload))))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Table rbac.Table `json:"table"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))

	entries := body.Table[rbac.RoleManager]
	if assert.Len(t, entries, 1, "ROL-04: The all-bogus coupons entry should be dropped") {
		assert.Equal(t, []rbac.Action{rbac.ActionView}, entries[0].Actions)
	}
	assert.False(t, h.permissions.Allows(rbac.RoleManager, rbac.ResourceSales, "fly"))
}
