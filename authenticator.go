package userapi

import (
	"context"
	"reflect"

	"github.com/golang-jwt/jwt/v5"
)

type Auther struct {
	provider     IdentityProvider
	roleProvider RoleSetProvider
	logger       Logger
	tokenService TokenService
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, roleProvider RoleSetProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		jwt.ClaimStrings(opts.GetAudience()),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		roleProvider: roleProvider,
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and mints a token carrying the user's
// current role set. The roles embedded here stay fixed for the lifetime of
// the token; role changes apply on the next login.
func (s *Auther) Login(ctx context.Context, username, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrInvalidCredentials
	}

	roles, err := s.roleProvider.FindRoles(ctx, identity)
	if err != nil {
		s.logger.Error("Login failed to fetch role set", "error", err)
		return "", err
	}

	token, err := s.tokenService.Generate(identity, roles)
	if err != nil {
		s.logger.Error("Login failed to sign token", "error", err)
		return "", err
	}

	return token, nil
}

// PrincipalFromToken validates a raw token and recovers the request principal
func (s *Auther) PrincipalFromToken(raw string) (*Principal, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("PrincipalFromToken validation failed", "error", err)
		return nil, err
	}

	return PrincipalFromClaims(claims)
}

var _ Authenticator = (*Auther)(nil)
