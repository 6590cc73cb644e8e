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

package token

import (
	"errors"
	"testing"
	"time"

	"github.com/farmgate/farmgate/internal/rbac"
	"github.com/farmgate/farmgate/internal/session"
)

var testSecret = []byte("test-secret-at-least-32-bytes-long")

// TestPurpose: Validates the bearer token round trip: an issued token verifies back to the same principal.
// Scope: Unit Test
// Security: Token integrity (HS256 signature)
// Expected: Verify(Issue(p)) returns p.
// Test Case ID: TOK-01
func TestToken_IssueAndVerify(t *testing.T) {
	issuer := NewIssuer(testSecret, "farmgate", time.Hour)
	principal := session.Principal{
		ID:    "emp-1",
		Name:  "Asha Verma",
		Email: "asha@example.com",
		Role:  rbac.RoleSalesExecutive,
	}

	tok, err := issuer.Issue(principal)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	got, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if *got != principal {
		t.Errorf("principal mismatch: got %+v, want %+v", *got, principal)
	}
}

// TestPurpose: Validates that a token signed with a different secret is rejected.
// Scope: Unit Test
// Security: Signature verification (prevents token forgery)
// Expected: ErrInvalidToken for a foreign signature.
// Test Case ID: TOK-02
func TestToken_Verify_WrongSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, "farmgate", time.Hour)
	forger := NewIssuer([]byte("another-secret-also-32-bytes-min"), "farmgate", time.Hour)

	tok, err := forger.Issue(session.Principal{ID: "emp-1", Role: rbac.RoleAdmin})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

// TestPurpose: Validates that expired tokens are rejected.
// Scope: Unit Test
// Security: Token lifetime enforcement
// Expected: ErrInvalidToken once the expiry has passed.
// Test Case ID: TOK-03
func TestToken_Verify_Expired(t *testing.T) {
	issuer := NewIssuer(testSecret, "farmgate", -time.Minute)

	tok, err := issuer.Issue(session.Principal{ID: "emp-1", Role: rbac.RoleAdmin})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

// TestPurpose: Validates that tokens from a different issuer are rejected.
// Scope: Unit Test
// Expected: ErrInvalidToken for a mismatched iss claim.
// Test Case ID: TOK-04
func TestToken_Verify_WrongIssuer(t *testing.T) {
	issuer := NewIssuer(testSecret, "farmgate", time.Hour)
	other := NewIssuer(testSecret, "someone-else", time.Hour)

	tok, err := other.Issue(session.Principal{ID: "emp-1", Role: rbac.RoleAdmin})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}
