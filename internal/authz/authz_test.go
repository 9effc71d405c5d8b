package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePermissions_All(t *testing.T) {
	for _, cell := range []string{"all", " ALL ", "All"} {
		perms := ResolvePermissions(cell)
		for _, f := range KnownFlags() {
			assert.True(t, perms[f], "%q -> %s", cell, f)
		}
	}
}

func TestResolvePermissions_List(t *testing.T) {
	perms := ResolvePermissions("dashboard, newEnquiry")

	assert.Equal(t, map[string]bool{Dashboard: true, NewEnquiry: true}, perms)
	assert.False(t, perms[UpdateQuotation])
}

func TestResolvePermissions_IgnoresUnknownAndBlank(t *testing.T) {
	perms := ResolvePermissions(" ,orders, Dashboard ,onCallFollowup,,")

	assert.Equal(t, map[string]bool{OnCallFollowup: true}, perms)
	assert.Empty(t, ResolvePermissions(""))
}

func TestGatekeeper_Can(t *testing.T) {
	g := NewGatekeeper()

	priya := Access{Role: "user", Permissions: ResolvePermissions("dashboard,onCallFollowup")}
	assert.True(t, g.Can(priya, Dashboard))
	assert.True(t, g.Can(priya, OnCallFollowup))
	assert.False(t, g.Can(priya, UpdateQuotation))
	assert.Equal(t, []string{Dashboard, OnCallFollowup}, g.Visible(priya))

	assert.True(t, g.Can(AdminAccess(), UserManagement))
	assert.True(t, g.Can(Access{Role: RoleAdmin}, Settings))

	denied := Denied()
	assert.False(t, g.Can(denied, Dashboard))
	// флаги без роли не помогают
	assert.False(t, g.Can(Access{Permissions: map[string]bool{Dashboard: true}}, Dashboard))
	assert.Empty(t, g.Visible(denied))
}
