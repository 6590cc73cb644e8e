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
	"log/slog"
	"net/http"

	"github.com/farmgate/farmgate/internal/observability/logger"
	"github.com/farmgate/farmgate/internal/rbac"
)

// RequirePermission guards a route with a (resource, action) declaration.
// The decision is three-valued on the wire: no principal is 401, a principal
// the table does not authorize is 403, and only an explicit grant passes.
// Everything unknown denies.
func (h *Handler) RequirePermission(resource rbac.Resource, action rbac.Action) func(http.Handler) http.Handler {
	h.declared = append(h.declared, resource)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if principal == nil {
				respondError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			allowed := h.permissions.Allows(principal.Role, resource, action)
			if h.authzMetrics != nil {
				h.authzMetrics.Record(r.Context(), string(resource), string(action), allowed)
			}

			if !allowed {
				slog.InfoContext(r.Context(), "authorization denied",
					logger.EmployeeID(principal.ID),
					logger.RoleName(string(principal.Role)),
					logger.ResourceName(string(resource)),
					logger.ActionName(string(action)),
				)
				respondError(w, http.StatusForbidden, "access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DeclaredResources returns every resource named by a route guard. Only
// meaningful after the router has been built; main cross-checks the result
// against the permission table so a typo in a declaration is noticed at
// startup rather than as a silent universal denial.
func (h *Handler) DeclaredResources() []rbac.Resource {
	out := make([]rbac.Resource, len(h.declared))
	copy(out, h.declared)
	return out
}
