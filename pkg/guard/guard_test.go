package guard

import (
	"testing"

	"github.com/cuemby/brigada/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	authenticated bool
	role          types.Role
}

func (f fakeSession) Authenticated() bool { return f.authenticated }
func (f fakeSession) Role() types.Role    { return f.role }

var (
	staff     = []types.Role{types.RoleCoordinator, types.RoleAdmin}
	adminOnly = []types.Role{types.RoleAdmin}
	everyone  = []types.Role{types.RoleVolunteer, types.RoleCoordinator, types.RoleAdmin}
)

func TestHomeRouteForRole(t *testing.T) {
	assert.Equal(t, RouteVolunteerActivities, HomeRouteForRole(types.RoleVolunteer))
	assert.Equal(t, RouteDashboard, HomeRouteForRole(types.RoleCoordinator))
	assert.Equal(t, RouteDashboard, HomeRouteForRole(types.RoleAdmin))
	assert.Equal(t, RouteDashboard, HomeRouteForRole(""))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		req        Requirements
		session    SessionState
		wantReason Reason
		wantRoute  string
	}{
		{
			name:       "public route",
			req:        Requirements{},
			session:    fakeSession{},
			wantReason: ReasonAllowed,
		},
		{
			name:       "auth required without session",
			req:        Requirements{RequiresAuth: true},
			session:    fakeSession{},
			wantReason: ReasonUnauthenticated,
			wantRoute:  RouteLogin,
		},
		{
			name:       "auth check precedes role check",
			req:        Requirements{RequiresAuth: true, Roles: adminOnly},
			session:    fakeSession{role: types.RoleCoordinator},
			wantReason: ReasonUnauthenticated,
			wantRoute:  RouteLogin,
		},
		{
			name:       "nil session",
			req:        Requirements{RequiresAuth: true},
			session:    nil,
			wantReason: ReasonUnauthenticated,
			wantRoute:  RouteLogin,
		},
		{
			name:       "guest only while logged in as volunteer",
			req:        Requirements{GuestOnly: true},
			session:    fakeSession{authenticated: true, role: types.RoleVolunteer},
			wantReason: ReasonGuestOnly,
			wantRoute:  RouteVolunteerActivities,
		},
		{
			name:       "guest only while logged out",
			req:        Requirements{GuestOnly: true},
			session:    fakeSession{},
			wantReason: ReasonAllowed,
		},
		{
			name:       "coordinator on admin route goes to dashboard",
			req:        Requirements{RequiresAuth: true, Roles: adminOnly},
			session:    fakeSession{authenticated: true, role: types.RoleCoordinator},
			wantReason: ReasonRole,
			wantRoute:  RouteDashboard,
		},
		{
			name:       "volunteer on staff route",
			req:        Requirements{RequiresAuth: true, Roles: staff},
			session:    fakeSession{authenticated: true, role: types.RoleVolunteer},
			wantReason: ReasonRole,
			wantRoute:  RouteVolunteerActivities,
		},
		{
			name:       "identity pending on role-gated route",
			req:        Requirements{RequiresAuth: true, Roles: everyone},
			session:    fakeSession{authenticated: true},
			wantReason: ReasonRole,
			wantRoute:  RouteDashboard,
		},
		{
			name:       "admin allowed",
			req:        Requirements{RequiresAuth: true, Roles: adminOnly},
			session:    fakeSession{authenticated: true, role: types.RoleAdmin},
			wantReason: ReasonAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.req, tt.session, "/admin/usuarios")
			assert.Equal(t, tt.wantReason, d.Reason)
			if tt.wantRoute == "" {
				assert.True(t, d.Allowed())
				return
			}
			require.False(t, d.Allowed())
			assert.Equal(t, tt.wantRoute, d.Redirect.Name)
		})
	}
}

func TestEvaluateLoginCarriesReturnTarget(t *testing.T) {
	d := Evaluate(Requirements{RequiresAuth: true}, fakeSession{}, "/actividades/5?tab=mapa")
	require.NotNil(t, d.Redirect)
	assert.Equal(t, "/actividades/5?tab=mapa", d.Redirect.Query.Get(RedirectParam))
}
