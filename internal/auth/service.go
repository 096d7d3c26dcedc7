package auth

import (
	"context"
	"errors"

	"github.com/affipay/payout-api/internal/config"
	"github.com/affipay/payout-api/internal/identity"
)

// Service resolves Authorization header values into authenticated admin users.
type Service struct {
	codec *Codec
	users identity.Repository
}

// NewService builds an authorization service from the runtime config and a
// user repository.
func NewService(cfg config.Config, users identity.Repository) *Service {
	return &Service{codec: NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm), users: users}
}

// Codec exposes the token codec, used by tooling that issues tokens.
func (s *Service) Codec() *Codec {
	return s.codec
}

// Subject extracts and validates the subject claim from a raw Authorization
// header value. An absent or empty sub claim yields ErrMissingSubject.
func (s *Service) Subject(authorization string) (string, error) {
	claims, err := s.codec.VerifyToken(ExtractBearer(authorization))
	if err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrMissingSubject
	}
	return sub, nil
}

// RequireAdmin authenticates the header value and authorizes the resolved
// user against the admin capability. The returned record carries no
// credential hash.
func (s *Service) RequireAdmin(ctx context.Context, authorization string) (identity.User, error) {
	email, err := s.Subject(authorization)
	if err != nil {
		return identity.User{}, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.User{}, ErrUserNotFound
		}
		return identity.User{}, err
	}

	if user.UserType != identity.UserTypeAdmin {
		return identity.User{}, ErrNotAdmin
	}

	user.PasswordHash = nil
	return user, nil
}
