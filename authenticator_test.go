package userapi_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	userapi "github.com/TeuzLins/UsersApi"
)

func newTestAuther(t *testing.T, provider userapi.IdentityProvider, roleProvider userapi.RoleSetProvider) *userapi.Auther {
	t.Helper()

	logger := &MockLogger{}
	logger.On("Error", mock.AnythingOfType("string"), mock.Anything).Maybe()
	logger.On("Warn", mock.AnythingOfType("string"), mock.Anything).Maybe()

	cfg := testConfig{
		signingKey: "test-signing-key",
		expiration: 60,
		issuer:     "test-issuer",
		audience:   []string{"test-audience"},
	}

	return userapi.NewAuthenticator(provider, roleProvider, cfg).WithLogger(logger)
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a token carrying the user's role set", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Username").Return("alice")

		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "alice", "Passw0rd!").Return(identity, nil)

		roleProvider := &MockRoleSetProvider{}
		roleProvider.On("FindRoles", ctx, identity).Return([]string{userapi.RoleAdmin}, nil)

		auther := newTestAuther(t, provider, roleProvider)

		token, err := auther.Login(ctx, "alice", "Passw0rd!")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		principal, err := auther.PrincipalFromToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-123", principal.ID)
		assert.Equal(t, "alice", principal.Username)
		assert.True(t, principal.HasRole(userapi.RoleAdmin))

		provider.AssertExpectations(t)
		roleProvider.AssertExpectations(t)
	})

	t.Run("propagates verification failure", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "alice", "wrong").Return(nil, userapi.ErrInvalidCredentials)

		auther := newTestAuther(t, provider, &MockRoleSetProvider{})

		token, err := auther.Login(ctx, "alice", "wrong")

		assert.Error(t, err)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, userapi.ErrInvalidCredentials)
	})

	t.Run("rejects nil identity from provider", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "alice", "Passw0rd!").Return(nil, nil)

		auther := newTestAuther(t, provider, &MockRoleSetProvider{})

		token, err := auther.Login(ctx, "alice", "Passw0rd!")

		assert.Error(t, err)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, userapi.ErrInvalidCredentials)
	})

	t.Run("propagates role lookup failure", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Username").Return("alice")

		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "alice", "Passw0rd!").Return(identity, nil)

		roleErr := goerrors.New("role lookup failed", goerrors.CategoryInternal)
		roleProvider := &MockRoleSetProvider{}
		roleProvider.On("FindRoles", ctx, identity).Return(nil, roleErr)

		auther := newTestAuther(t, provider, roleProvider)

		token, err := auther.Login(ctx, "alice", "Passw0rd!")

		assert.Error(t, err)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, roleErr)
	})

	t.Run("logins with no roles produce a token without role claims", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Username").Return("alice")

		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "alice", "Passw0rd!").Return(identity, nil)

		roleProvider := &MockRoleSetProvider{}
		roleProvider.On("FindRoles", ctx, identity).Return([]string{}, nil)

		auther := newTestAuther(t, provider, roleProvider)

		token, err := auther.Login(ctx, "alice", "Passw0rd!")
		assert.NoError(t, err)

		principal, err := auther.PrincipalFromToken(token)
		assert.NoError(t, err)
		assert.Empty(t, principal.Roles)
	})
}

func TestAuther_PrincipalFromToken(t *testing.T) {
	auther := newTestAuther(t, &MockIdentityProvider{}, &MockRoleSetProvider{})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		principal, err := auther.PrincipalFromToken("not-a-token")

		assert.Error(t, err)
		assert.Nil(t, principal)
	})

	t.Run("rejects tokens minted with another key", func(t *testing.T) {
		foreign := userapi.NewTokenService([]byte("other-key"), 60, "test-issuer", nil, nil)

		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Username").Return("alice")

		token, err := foreign.Generate(identity, nil)
		assert.NoError(t, err)

		principal, err := auther.PrincipalFromToken(token)

		assert.Error(t, err)
		assert.Nil(t, principal)
		assert.ErrorIs(t, err, userapi.ErrTokenBadSignature)
	})
}
