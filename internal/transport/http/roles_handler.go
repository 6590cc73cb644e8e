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
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/farmgate/farmgate/internal/observability/logger"
	"github.com/farmgate/farmgate/internal/rbac"
)

// GetPermissions returns the current permission table for the roles screen,
// plus the closed resource and action vocabulary the screen renders.
func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"table":     h.permissions.Snapshot(),
		"resources": rbac.KnownResources,
		"actions":   []rbac.Action{rbac.ActionView, rbac.ActionCreate, rbac.ActionEdit, rbac.ActionDelete},
	})
}

// PutPermissions replaces the whole permission table. The submitted table is
// canonicalized before persisting; what comes back in the response is what
// will govern every subsequent check.
func (h *Handler) PutPermissions(w http.ResponseWriter, r *http.Request) {
	var table rbac.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(table) == 0 {
		respondError(w, http.StatusBadRequest, "permission table must not be empty")
		return
	}
	for role := range table {
		if role == "" {
			respondError(w, http.StatusBadRequest, "role names must not be empty")
			return
		}
	}

	if err := h.permissions.Save(r.Context(), table); err != nil {
		slog.ErrorContext(r.Context(), "failed to save permission table", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to save permission table")
		return
	}

	principal := GetPrincipal(r.Context())
	slog.InfoContext(r.Context(), "permission table updated",
		logger.EmployeeID(principal.ID),
		logger.RoleName(string(principal.Role)),
	)

	respondJSON(w, http.StatusOK, map[string]any{
		"table": h.permissions.Snapshot(),
	})
}
