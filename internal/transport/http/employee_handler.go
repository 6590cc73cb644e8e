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
	"errors"
	"net/http"

	"github.com/farmgate/farmgate/internal/identity"
	"github.com/farmgate/farmgate/internal/rbac"
	"github.com/go-chi/chi/v5"
)

// CreateEmployeeRequest represents new employee data
type CreateEmployeeRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Password string    `json:"password"`
	Role     rbac.Role `json:"role"`
}

// CreateEmployee provisions a staff account
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.identityService.CreateEmployee(r.Context(), req.Name, req.Email, req.Phone, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmployeeAlreadyExists):
			respondError(w, http.StatusConflict, "employee already exists")
		case errors.Is(err, identity.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "invalid email address")
		case errors.Is(err, identity.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, "password does not meet security requirements")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create employee")
		}
		return
	}

	respondJSON(w, http.StatusCreated, emp)
}

// GetEmployee returns one employee
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.identityService.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "employee not found")
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

// ListEmployees returns all employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.identityService.ListEmployees(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"employees": employees})
}

// UpdateEmployeeRequest represents employee mutation data
type UpdateEmployeeRequest struct {
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	Role   rbac.Role `json:"role"`
	Active bool      `json:"active"`
}

// UpdateEmployee modifies a staff account. A role change takes effect on the
// employee's next login; already-issued sessions keep the role they carry.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.identityService.UpdateEmployee(r.Context(), chi.URLParam(r, "employeeID"), req.Name, req.Phone, req.Role, req.Active)
	if err != nil {
		if errors.Is(err, identity.ErrEmployeeNotFound) {
			respondError(w, http.StatusNotFound, "employee not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update employee")
		return
	}

	// Deactivation cuts off live sessions immediately.
	if !emp.Active {
		if err := h.sessionService.LogoutAll(r.Context(), emp.ID); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to revoke sessions")
			return
		}
	}

	respondJSON(w, http.StatusOK, emp)
}

// DeleteEmployee removes a staff account and its sessions
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")

	if err := h.identityService.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, identity.ErrEmployeeNotFound) {
			respondError(w, http.StatusNotFound, "employee not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete employee")
		return
	}

	if err := h.sessionService.LogoutAll(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to revoke sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "employee deleted"})
}
