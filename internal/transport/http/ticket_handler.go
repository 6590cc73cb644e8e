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

	"github.com/farmgate/farmgate/internal/support"
	"github.com/go-chi/chi/v5"
)

// CreateTicketRequest represents a new support request
type CreateTicketRequest struct {
	CustomerID string `json:"customer_id"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// CreateTicket opens a support ticket
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Subject == "" {
		respondError(w, http.StatusBadRequest, "ticket subject is required")
		return
	}

	ticket, err := h.supportService.CreateTicket(r.Context(), req.CustomerID, req.Subject, req.Body)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create ticket")
		return
	}
	respondJSON(w, http.StatusCreated, ticket)
}

// GetTicket returns one ticket
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.supportService.GetTicket(r.Context(), chi.URLParam(r, "ticketID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "ticket not found")
		return
	}
	respondJSON(w, http.StatusOK, ticket)
}

// ListTickets returns all tickets, newest first
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.supportService.ListTickets(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list tickets")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
}

// UpdateTicketRequest represents a ticket workflow move
type UpdateTicketRequest struct {
	Status     support.Status `json:"status"`
	AssigneeID string         `json:"assignee_id"`
}

// UpdateTicket moves a ticket through its workflow
func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	var req UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticket, err := h.supportService.UpdateTicket(r.Context(), chi.URLParam(r, "ticketID"), req.Status, req.AssigneeID)
	if err != nil {
		switch {
		case errors.Is(err, support.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, "invalid ticket status")
		case errors.Is(err, support.ErrTicketNotFound):
			respondError(w, http.StatusNotFound, "ticket not found")
		default:
			respondError(w, http.StatusInternalServerError, "failed to update ticket")
		}
		return
	}
	respondJSON(w, http.StatusOK, ticket)
}

// DeleteTicket removes a ticket
func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := h.supportService.DeleteTicket(r.Context(), chi.URLParam(r, "ticketID")); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete ticket")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "ticket deleted"})
}
