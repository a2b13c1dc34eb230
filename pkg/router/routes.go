package router

import (
	"github.com/cuemby/brigada/pkg/guard"
	"github.com/cuemby/brigada/pkg/types"
)

// Route names besides those the guard knows
const (
	RouteActivityDetail       = "activity-detail"
	RouteVolunteerMap         = "volunteer-map"
	RouteActivitiesManagement = "activities-management"
	RouteCreateActivity       = "create-activity"
	RouteEditActivity         = "edit-activity"
	RouteMapManagement        = "map-management"
	RouteUsersManagement      = "users-management"
	RouteInvitations          = "invitations"
)

// Route is one entry of the route table. Path segments starting with ':'
// are parameters. A route with Redirect never becomes the current
// location; navigating to it goes to the route Redirect names.
type Route struct {
	Name         string
	Path         string
	Requirements guard.Requirements
	Redirect     func(s guard.SessionState) string
}

var (
	anyRole   = []types.Role{types.RoleVolunteer, types.RoleCoordinator, types.RoleAdmin}
	staffRole = []types.Role{types.RoleCoordinator, types.RoleAdmin}
	adminRole = []types.Role{types.RoleAdmin}
)

func roleHome(s guard.SessionState) string {
	var role types.Role
	if s != nil {
		role = s.Role()
	}
	return guard.HomeRouteForRole(role)
}

// DefaultRoutes returns the application's route table
func DefaultRoutes() []Route {
	guest := guard.Requirements{GuestOnly: true}
	member := guard.Requirements{RequiresAuth: true, Roles: anyRole}
	staff := guard.Requirements{RequiresAuth: true, Roles: staffRole}
	admin := guard.Requirements{RequiresAuth: true, Roles: adminRole}

	return []Route{
		{Name: guard.RouteLogin, Path: "/login", Requirements: guest},
		{Name: guard.RouteRegister, Path: "/register/:token", Requirements: guest},
		{Name: guard.RouteHome, Path: "/", Requirements: guard.Requirements{RequiresAuth: true}, Redirect: roleHome},

		{Name: guard.RouteVolunteerActivities, Path: "/actividades", Requirements: member},
		{Name: RouteActivityDetail, Path: "/actividades/:id", Requirements: member},
		{Name: RouteVolunteerMap, Path: "/mapa", Requirements: member},

		{Name: guard.RouteDashboard, Path: "/admin", Requirements: staff},
		{Name: RouteActivitiesManagement, Path: "/admin/actividades", Requirements: staff},
		{Name: RouteCreateActivity, Path: "/admin/actividades/crear", Requirements: staff},
		{Name: RouteEditActivity, Path: "/admin/actividades/:id/editar", Requirements: staff},
		{Name: RouteMapManagement, Path: "/admin/mapa", Requirements: staff},
		{Name: RouteUsersManagement, Path: "/admin/usuarios", Requirements: admin},
		{Name: RouteInvitations, Path: "/admin/invitaciones", Requirements: admin},
	}
}
