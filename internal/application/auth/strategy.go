package auth

import (
	"context"
	"errors"
	"fmt"

	"authgate/internal/domain/user"
)

// Strategy verifies a submitted credential pair and yields an identity.
// Additional variants (token-based, federated) can plug in here without the
// session manager changing.
type Strategy interface {
	Authenticate(ctx context.Context, identifier, secret string) (*user.User, error)
}

// LocalStrategy checks an (email, password) pair against the credential store.
type LocalStrategy struct {
	users user.Repository
}

func NewLocalStrategy(users user.Repository) *LocalStrategy {
	return &LocalStrategy{users: users}
}

// Authenticate returns ErrInvalidCredentials for any non-matching pair without
// revealing whether the email exists. Store failures propagate as-is so
// callers never mint a session off an infrastructure error.
func (s *LocalStrategy) Authenticate(ctx context.Context, identifier, secret string) (*user.User, error) {
	if identifier == "" || secret == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.VerifyCredentials(ctx, identifier, secret)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	return u, nil
}
