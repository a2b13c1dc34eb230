package guard

import (
	"net/url"
	"slices"

	"github.com/cuemby/brigada/pkg/types"
)

// Route names the guard and session redirect to
const (
	RouteLogin               = "login"
	RouteRegister            = "register"
	RouteHome                = "home"
	RouteDashboard           = "dashboard"
	RouteVolunteerActivities = "volunteer-activities"
)

// RedirectParam is the query parameter that carries the originally
// requested path on a redirect to login
const RedirectParam = "redirect"

// SessionState is the part of the session the guard needs
type SessionState interface {
	Authenticated() bool
	Role() types.Role
}

// Requirements are the access rules attached to a route. A nil or empty
// Roles list admits every role.
type Requirements struct {
	RequiresAuth bool
	GuestOnly    bool
	Roles        []types.Role
}

// Reason explains a decision
type Reason string

const (
	ReasonAllowed         Reason = "allowed"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonGuestOnly       Reason = "guest_only"
	ReasonRole            Reason = "role"
)

// Target is a named route with optional query parameters
type Target struct {
	Name  string
	Query url.Values
}

// Decision is the outcome of evaluating a navigation. Redirect is nil
// when navigation is allowed.
type Decision struct {
	Reason   Reason
	Redirect *Target
}

// Allowed reports whether navigation may proceed
func (d Decision) Allowed() bool {
	return d.Redirect == nil
}

// HomeRouteForRole returns the landing route for a role
func HomeRouteForRole(role types.Role) string {
	if role == types.RoleVolunteer {
		return RouteVolunteerActivities
	}
	return RouteDashboard
}

// Evaluate decides whether a session may navigate to target (the full
// requested path) under req. Checks run in order: authentication, guest
// only, roles. The first failing check decides. A nil session is
// unauthenticated.
func Evaluate(req Requirements, s SessionState, target string) Decision {
	authenticated := s != nil && s.Authenticated()
	var role types.Role
	if s != nil {
		role = s.Role()
	}

	if req.RequiresAuth && !authenticated {
		return Decision{
			Reason: ReasonUnauthenticated,
			Redirect: &Target{
				Name:  RouteLogin,
				Query: url.Values{RedirectParam: {target}},
			},
		}
	}

	if req.GuestOnly && authenticated {
		return Decision{Reason: ReasonGuestOnly, Redirect: &Target{Name: HomeRouteForRole(role)}}
	}

	if len(req.Roles) > 0 && !slices.Contains(req.Roles, role) {
		return Decision{Reason: ReasonRole, Redirect: &Target{Name: HomeRouteForRole(role)}}
	}

	return Decision{Reason: ReasonAllowed}
}
