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

	"github.com/farmgate/farmgate/internal/session"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	sessionIDKey contextKey = "session_id"
)

// GetPrincipal retrieves the authenticated principal from context. Returns
// nil when the request is unauthenticated; every authorization decision made
// on a nil principal must deny.
func GetPrincipal(ctx context.Context) *session.Principal {
	if val, ok := ctx.Value(principalKey).(*session.Principal); ok {
		return val
	}
	return nil
}

// GetSessionID retrieves the session ID from context. Empty for requests
// authenticated by bearer token rather than a session cookie.
func GetSessionID(ctx context.Context) string {
	if val, ok := ctx.Value(sessionIDKey).(string); ok {
		return val
	}
	return ""
}

// WithPrincipal returns a context carrying the principal. Exposed for tests
// that exercise guarded handlers without the full middleware chain.
func WithPrincipal(ctx context.Context, p *session.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
