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

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service manages session lifecycle: login creates, logout destroys, and
// every authenticated request resolves its principal through Current.
type Service struct {
	repo        Repository
	lifetime    time.Duration
	idleTimeout time.Duration
}

// NewService creates a session service
func NewService(repo Repository, lifetime, idleTimeout time.Duration) *Service {
	return &Service{
		repo:        repo,
		lifetime:    lifetime,
		idleTimeout: idleTimeout,
	}
}

// Login records an authenticated principal and returns the new session. The
// session row is persisted before the session is handed out, so the record
// of "who is logged in" is never ahead of storage.
func (s *Service) Login(ctx context.Context, principal Principal, ipAddress, userAgent string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		Principal:  principal,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ExpiresAt:  now.Add(s.lifetime),
		CreatedAt:  now,
		LastSeenAt: now,
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Current returns the principal for a session ID, or ErrSessionNotFound /
// ErrSessionExpired. Expired and idle sessions are destroyed on sight.
func (s *Service) Current(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() || sess.IsIdle(s.idleTimeout) {
		_ = s.repo.Delete(ctx, sessionID)
		return nil, ErrSessionExpired
	}

	return sess, nil
}

// Touch refreshes the session's idle clock.
func (s *Service) Touch(ctx context.Context, sessionID string) error {
	return s.repo.Touch(ctx, sessionID, time.Now())
}

// Logout destroys a session. Idempotent: logging out an already-destroyed
// or never-created session succeeds silently.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	err := s.repo.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// LogoutAll destroys every session belonging to a principal, e.g. after the
// employee record is deactivated.
func (s *Service) LogoutAll(ctx context.Context, principalID string) error {
	return s.repo.DeleteByPrincipalID(ctx, principalID)
}

// CleanupExpired removes sessions past their absolute lifetime.
func (s *Service) CleanupExpired(ctx context.Context) error {
	return s.repo.DeleteExpired(ctx)
}
