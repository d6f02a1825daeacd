package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"authgate/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

// SessionStore is the external keyed store holding session state. Only the
// user id is stored; the full identity is rehydrated per request.
type SessionStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// ResolveUserID returns ErrSessionNotFound for missing or expired tokens.
	ResolveUserID(ctx context.Context, token string) (string, error)
	// Delete is idempotent.
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// Service binds authenticated identities to session tokens and resolves them
// back on each request.
type Service struct {
	strategy Strategy
	sessions SessionStore
	users    user.Repository
	ttl      time.Duration
}

func NewService(strategy Strategy, sessions SessionStore, users user.Repository, ttl time.Duration) *Service {
	return &Service{
		strategy: strategy,
		sessions: sessions,
		users:    users,
		ttl:      ttl,
	}
}

// Login authenticates the credential pair and, only on a concrete identity,
// establishes a session for it.
func (s *Service) Login(ctx context.Context, identifier, secret string) (string, *user.User, error) {
	u, err := s.strategy.Authenticate(ctx, identifier, secret)
	if err != nil {
		return "", nil, err
	}

	token, err := s.Establish(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Establish mints a fresh random token for userID and stores it with the
// configured TTL. Any prior tokens for the user are revoked first, so a login
// never reuses an attacker-supplied session id.
func (s *Service) Establish(ctx context.Context, userID string) (string, error) {
	if err := s.sessions.DeleteByUserID(ctx, userID); err != nil {
		return "", fmt.Errorf("revoke prior sessions: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	if err := s.sessions.Save(ctx, token, userID, s.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Resolve maps a session token back to its current identity. A missing or
// expired token, and a session whose user no longer exists, both come back as
// (nil, nil): unauthenticated, not an error. The identity is re-fetched from
// the credential store on every call; session contents are never trusted for
// mutable attributes.
func (s *Service) Resolve(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, nil
	}

	userID, err := s.sessions.ResolveUserID(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		// The user was deleted behind the session. Fail closed and drop it.
		s.sessions.Delete(ctx, token)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return u, nil
}

// Destroy removes the session; harmless if it is already gone.
func (s *Service) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// TTL reports the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
