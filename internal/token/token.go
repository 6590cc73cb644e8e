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
	"fmt"
	"time"

	"github.com/farmgate/farmgate/internal/rbac"
	"github.com/farmgate/farmgate/internal/session"
	"github.com/golang-jwt/jwt/v5"
)

// Domain errors
var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carries the principal inside a bearer access token. POS terminals
// authenticate with these instead of cookies. The role is fixed at issue
// time; the permission table it maps to is still consulted fresh on every
// check.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
}

// NewIssuer creates a token issuer
func NewIssuer(secret []byte, issuer string, lifetime time.Duration) *Issuer {
	return &Issuer{secret: secret, issuer: issuer, lifetime: lifetime}
}

// Issue signs an access token for the principal.
func (i *Issuer) Issue(principal session.Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  principal.Name,
		Email: principal.Email,
		Role:  string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a signed token and returns the principal it carries.
func (i *Issuer) Verify(tokenString string) (*session.Principal, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	return &session.Principal{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  rbac.Role(claims.Role),
	}, nil
}
