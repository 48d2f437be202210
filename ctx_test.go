package auth_test

import (
	"context"
	"testing"

	auth "github.com/SemiPerm/backend"
	"github.com/stretchr/testify/assert"
)

func TestWithAuthContext(t *testing.T) {
	ctx := auth.WithAuthContext(context.Background(), "member-123", "account-456")

	principal, ok := auth.PrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "member-123", principal.MemberID)
	assert.Equal(t, "account-456", principal.AccountID)
}

func TestMemberIDFromContext(t *testing.T) {
	t.Run("returns member id when present", func(t *testing.T) {
		ctx := auth.WithAuthContext(context.Background(), "member-123", "account-456")

		memberID, err := auth.MemberIDFromContext(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "member-123", memberID)
	})

	t.Run("fails on empty context", func(t *testing.T) {
		_, err := auth.MemberIDFromContext(context.Background())

		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("fails when principal has no member id", func(t *testing.T) {
		ctx := auth.WithAuthContext(context.Background(), "", "account-456")

		_, err := auth.MemberIDFromContext(ctx)

		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}

func TestAccountIDFromContext(t *testing.T) {
	t.Run("returns account id when present", func(t *testing.T) {
		ctx := auth.WithAuthContext(context.Background(), "member-123", "account-456")

		accountID, err := auth.AccountIDFromContext(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "account-456", accountID)
	})

	t.Run("fails on empty context", func(t *testing.T) {
		_, err := auth.AccountIDFromContext(context.Background())

		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}
