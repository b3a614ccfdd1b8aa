package user_test

import (
	"testing"

	"shipping/internal/core/domain/model/user"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want user.Role
	}{
		{raw: "user", want: user.RoleUser},
		{raw: "delivery", want: user.RoleDelivery},
		{raw: "admin", want: user.RoleAdmin},
		{raw: " ADMIN ", want: user.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			role, err := user.ParseRole(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}

	t.Run("should reject roles outside the enumeration", func(t *testing.T) {
		for _, raw := range []string{"", "superadmin", "courier", "unknown"} {
			role, err := user.ParseRole(raw)

			require.Error(t, err, raw)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Equal(t, user.UnknownRole, role)
		}
	})
}

func TestRole_Validate(t *testing.T) {
	require.NoError(t, user.RoleUser.Validate())
	require.NoError(t, user.RoleDelivery.Validate())
	require.NoError(t, user.RoleAdmin.Validate())

	assert.ErrorIs(t, user.UnknownRole.Validate(), errs.ErrValueIsInvalid)
	assert.ErrorIs(t, user.Role(42).Validate(), errs.ErrValueIsInvalid)
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "user", user.RoleUser.String())
	assert.Equal(t, "delivery", user.RoleDelivery.String())
	assert.Equal(t, "admin", user.RoleAdmin.String())
	assert.Equal(t, "unknown", user.Role(42).String())

	for _, role := range []user.Role{user.RoleUser, user.RoleDelivery, user.RoleAdmin} {
		parsed, err := user.ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}
}
