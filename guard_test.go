package userapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	userapi "github.com/TeuzLins/UsersApi"
)

func TestAuthorize(t *testing.T) {
	t.Run("denies nil principal", func(t *testing.T) {
		decision := userapi.Authorize(nil, userapi.RoleAdmin)

		assert.False(t, decision.Allowed)
		assert.Equal(t, userapi.DenyUnauthenticated, decision.Reason)
	})

	t.Run("denies nil principal even without required roles", func(t *testing.T) {
		decision := userapi.Authorize(nil)

		assert.False(t, decision.Allowed)
		assert.Equal(t, userapi.DenyUnauthenticated, decision.Reason)
	})

	t.Run("allows authenticated principal when no roles are required", func(t *testing.T) {
		principal := &userapi.Principal{ID: "user-123", Username: "alice"}

		decision := userapi.Authorize(principal)

		assert.True(t, decision.Allowed)
	})

	t.Run("allows principal holding the required role", func(t *testing.T) {
		principal := &userapi.Principal{
			ID:       "user-123",
			Username: "alice",
			Roles:    []string{userapi.RoleAdmin},
		}

		decision := userapi.Authorize(principal, userapi.RoleAdmin)

		assert.True(t, decision.Allowed)
	})

	t.Run("allows principal holding any one of the required roles", func(t *testing.T) {
		principal := &userapi.Principal{
			ID:       "user-123",
			Username: "alice",
			Roles:    []string{userapi.RoleUser},
		}

		decision := userapi.Authorize(principal, userapi.RoleAdmin, userapi.RoleUser)

		assert.True(t, decision.Allowed)
	})

	t.Run("denies principal holding none of the required roles", func(t *testing.T) {
		principal := &userapi.Principal{
			ID:       "user-123",
			Username: "alice",
			Roles:    []string{userapi.RoleUser},
		}

		decision := userapi.Authorize(principal, userapi.RoleAdmin)

		assert.False(t, decision.Allowed)
		assert.Equal(t, userapi.DenyInsufficientRole, decision.Reason)
	})

	t.Run("denies principal with empty role set", func(t *testing.T) {
		principal := &userapi.Principal{ID: "user-123", Username: "alice"}

		decision := userapi.Authorize(principal, userapi.RoleAdmin)

		assert.False(t, decision.Allowed)
		assert.Equal(t, userapi.DenyInsufficientRole, decision.Reason)
	})

	t.Run("role comparison is case sensitive", func(t *testing.T) {
		principal := &userapi.Principal{
			ID:       "user-123",
			Username: "alice",
			Roles:    []string{"admin"},
		}

		decision := userapi.Authorize(principal, userapi.RoleAdmin)

		assert.False(t, decision.Allowed)
	})
}

func TestDecision_Err(t *testing.T) {
	t.Run("allowed decision has no error", func(t *testing.T) {
		assert.NoError(t, userapi.Allow.Err())
	})

	t.Run("unauthenticated maps to ErrUnauthenticated", func(t *testing.T) {
		err := userapi.Deny(userapi.DenyUnauthenticated).Err()

		assert.ErrorIs(t, err, userapi.ErrUnauthenticated)
	})

	t.Run("insufficient role maps to ErrInsufficientRole", func(t *testing.T) {
		err := userapi.Deny(userapi.DenyInsufficientRole).Err()

		assert.ErrorIs(t, err, userapi.ErrInsufficientRole)
	})
}
