package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolesValueAndScan(t *testing.T) {
	v, err := Roles{RoleAdmin, RoleTesorero}.Value()
	require.NoError(t, err)
	assert.Equal(t, "admin,tesorero", v)

	var roles Roles
	require.NoError(t, roles.Scan([]byte("pastor_red, usuario,")))
	assert.Equal(t, Roles{RolePastorRed, RoleUsuario}, roles)

	require.NoError(t, roles.Scan(nil))
	assert.Empty(t, roles)

	assert.Error(t, roles.Scan(42))
}

func TestUserFilter(t *testing.T) {
	u := &User{Status: UserActive, Roles: Roles{RoleTesorero}}

	assert.True(t, UserFilter{}.Matches(u))
	assert.True(t, UserFilter{Role: RoleTesorero}.Matches(u))
	assert.False(t, UserFilter{Role: RoleAdmin}.Matches(u))
	assert.False(t, UserFilter{Status: UserSuspended}.Matches(u))
}

func TestPermissionsFor(t *testing.T) {
	codes := PermissionsFor(Roles{RoleUsuario, RoleTesorero})

	assert.Contains(t, codes, "solicitudes.write")
	assert.Contains(t, codes, "solicitudes.approve")
	assert.NotContains(t, codes, "users.write")
	assert.IsIncreasing(t, codes)
	assert.Empty(t, PermissionsFor(nil))
}
