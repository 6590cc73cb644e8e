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
	"log/slog"
	"net/http"
	"time"

	"github.com/farmgate/farmgate/internal/catalog"
	"github.com/farmgate/farmgate/internal/identity"
	"github.com/farmgate/farmgate/internal/observability/logger"
	"github.com/farmgate/farmgate/internal/observability/metrics"
	"github.com/farmgate/farmgate/internal/rbac"
	"github.com/farmgate/farmgate/internal/sales"
	"github.com/farmgate/farmgate/internal/session"
	"github.com/farmgate/farmgate/internal/support"
	"github.com/farmgate/farmgate/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	identityService *identity.Service
	sessionService  *session.Service
	catalogService  *catalog.Service
	salesService    *sales.Service
	supportService  *support.Service
	permissions     *rbac.Store
	tokenIssuer     *token.Issuer
	authzMetrics    *metrics.AuthzMetrics
	sessionConfig   SessionConfig

	declared []rbac.Resource
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
	CookieMaxAge   int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	identityService *identity.Service,
	sessionService *session.Service,
	catalogService *catalog.Service,
	salesService *sales.Service,
	supportService *support.Service,
	permissions *rbac.Store,
	tokenIssuer *token.Issuer,
	authzMetrics *metrics.AuthzMetrics,
	sessionConfig SessionConfig,
) *Handler {
	return &Handler{
		identityService: identityService,
		sessionService:  sessionService,
		catalogService:  catalogService,
		salesService:    salesService,
		supportService:  supportService,
		permissions:     permissions,
		tokenIssuer:     tokenIssuer,
		authzMetrics:    authzMetrics,
		sessionConfig:   sessionConfig,
	}
}

// NewRouter creates a new HTTP router. Every protected route declares its
// (resource, action) pair here, next to the route itself, so the mapping is
// reviewable in one place.
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Authentication
		r.Post("/auth/login", h.Login)
		r.Post("/auth/token", h.IssueToken)

		// Everything below requires a principal
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.Me)
			r.Post("/auth/change-password", h.ChangePassword)
			r.Get("/menu", h.Menu)

			r.With(h.RequirePermission(rbac.ResourceDashboard, rbac.ActionView)).
				Get("/dashboard", h.Dashboard)

			r.Route("/farmers", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.ResourceFarmers, rbac.ActionView)).Get("/", h.ListFarmers)
				r.With(h.RequirePermission(rbac.ResourceFarmers, rbac.ActionView)).Get("/{farmerID}", h.GetFarmer)
				r.With(h.RequirePermission(rbac.ResourceFarmers, rbac.ActionView)).Get("/{farmerID}/products", h.ListFarmerProducts)
				r.With(h.RequirePermission(rbac.ResourceFarmers, rbac.ActionCreate)).Post("/", h.CreateFarmer)
				r.With(h.RequirePermission(rbac.ResourceFarmers, rbac.ActionEdit)).Put("/{farmerID}", h.UpdateFarmer)
				r.With(h.RequirePermission(rbac.ResourceFarmers, rbac.ActionDelete)).Delete("/{farmerID}", h.DeleteFarmer)
			})

			r.Route("/products", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionView)).Get("/", h.ListProducts)
				r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionView)).Get("/{productID}", h.GetProduct)
				r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionView)).Get("/barcode/{barcode}", h.GetProductByBarcode)
				r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionCreate)).Post("/", h.CreateProduct)
				r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionEdit)).Put("/{productID}", h.UpdateProduct)
				r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionDelete)).Delete("/{productID}", h.DeleteProduct)
			})

			r.Route("/customers", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.ResourceCustomers, rbac.ActionView)).Get("/", h.ListCustomers)
				r.With(h.RequirePermission(rbac.ResourceCustomers, rbac.ActionView)).Get("/{customerID}", h.GetCustomer)
				r.With(h.RequirePermission(rbac.ResourceCustomers, rbac.ActionCreate)).Post("/", h.CreateCustomer)
				r.With(h.RequirePermission(rbac.ResourceCustomers, rbac.ActionEdit)).Put("/{customerID}", h.UpdateCustomer)
				r.With(h.RequirePermission(rbac.ResourceCustomers, rbac.ActionDelete)).Delete("/{customerID}", h.DeleteCustomer)
			})

			r.Route("/sales", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.ResourceSales, rbac.ActionView)).Get("/", h.ListSales)
				r.With(h.RequirePermission(rbac.ResourceSales, rbac.ActionView)).Get("/{saleID}", h.GetSale)
				r.With(h.RequirePermission(rbac.ResourceSales, rbac.ActionCreate)).Post("/", h.CreateSale)
			})

			r.With(h.RequirePermission(rbac.ResourceTransactions, rbac.ActionView)).
				Get("/transactions", h.ListTransactions)

			r.Route("/coupons", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.ResourceCoupons, rbac.ActionView)).Get("/", h.ListCoupons)
				r.With(h.RequirePermission(rbac.ResourceCoupons, rbac.ActionCreate)).Post("/", h.CreateCoupon)
				r.With(h.RequirePermission(rbac.ResourceCoupons, rbac.ActionEdit)).Put("/{couponID}", h.UpdateCoupon)
				r.With(h.RequirePermission(rbac.ResourceCoupons, rbac.ActionDelete)).Delete("/{couponID}", h.DeleteCoupon)
			})

			r.With(h.RequirePermission(rbac.ResourceSettlements, rbac.ActionView)).
				Get("/settlements", h.Settlements)

			r.Route("/tickets", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.ResourceTickets, rbac.ActionView)).Get("/", h.ListTickets)
				r.With(h.RequirePermission(rbac.ResourceTickets, rbac.ActionView)).Get("/{ticketID}", h.GetTicket)
				r.With(h.RequirePermission(rbac.ResourceTickets, rbac.ActionCreate)).Post("/", h.CreateTicket)
				r.With(h.RequirePermission(rbac.ResourceTickets, rbac.ActionEdit)).Put("/{ticketID}", h.UpdateTicket)
				r.With(h.RequirePermission(rbac.ResourceTickets, rbac.ActionDelete)).Delete("/{ticketID}", h.DeleteTicket)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.ResourceEmployees, rbac.ActionView)).Get("/", h.ListEmployees)
				r.With(h.RequirePermission(rbac.ResourceEmployees, rbac.ActionView)).Get("/{employeeID}", h.GetEmployee)
				r.With(h.RequirePermission(rbac.ResourceEmployees, rbac.ActionCreate)).Post("/", h.CreateEmployee)
				r.With(h.RequirePermission(rbac.ResourceEmployees, rbac.ActionEdit)).Put("/{employeeID}", h.UpdateEmployee)
				r.With(h.RequirePermission(rbac.ResourceEmployees, rbac.ActionDelete)).Delete("/{employeeID}", h.DeleteEmployee)
			})

			r.Route("/roles", func(r chi.Router) {
				r.With(h.RequirePermission(rbac.ResourceRoles, rbac.ActionView)).Get("/permissions", h.GetPermissions)
				r.With(h.RequirePermission(rbac.ResourceRoles, rbac.ActionEdit)).Put("/permissions", h.PutPermissions)
			})
		})
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "farmgate",
	})
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an employee and creates a session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, err := h.identityService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrAccountLocked):
			respondError(w, http.StatusUnauthorized, "account is temporarily locked")
		case errors.Is(err, identity.ErrAccountInactive):
			respondError(w, http.StatusUnauthorized, "account is inactive")
		default:
			respondError(w, http.StatusUnauthorized, "invalid credentials")
		}
		return
	}

	sess, err := h.sessionService.Login(r.Context(), *principal, getIPAddress(r), r.UserAgent())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.setSessionCookie(w, sess.ID)

	respondJSON(w, http.StatusOK, map[string]any{
		"principal": principal,
	})
}

// IssueToken authenticates an employee and returns a bearer token for
// POS and API clients that cannot hold a cookie session.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, err := h.identityService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tok, err := h.tokenIssuer.Issue(*principal)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue token", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token_type":   "Bearer",
		"access_token": tok,
	})
}

// Logout destroys the current session. Logging out twice is not an error.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := GetSessionID(r.Context()); sessionID != "" {
		if err := h.sessionService.Logout(r.Context(), sessionID); err != nil {
			slog.ErrorContext(r.Context(), "failed to destroy session", logger.Error(err))
		}
	}

	h.clearSessionCookie(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// Me returns the current principal together with its effective permissions,
// so the SPA can build its chrome from one round trip.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())
	if principal == nil {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"principal":   principal,
		"permissions": h.permissions.PermissionsFor(principal.Role),
	})
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword updates the current principal's password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())
	if principal == nil {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.identityService.ChangePassword(r.Context(), principal.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "invalid old password")
		case errors.Is(err, identity.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, "new password does not meet security requirements")
		default:
			respondError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}

// Dashboard returns the landing screen summary
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.salesService.Dashboard(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute dashboard summary", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Helper functions
func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,
		MaxAge:   h.sessionConfig.CookieMaxAge,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func getIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
