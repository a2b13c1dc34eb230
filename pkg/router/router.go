package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/cuemby/brigada/pkg/events"
	"github.com/cuemby/brigada/pkg/guard"
	"github.com/cuemby/brigada/pkg/log"
	"github.com/cuemby/brigada/pkg/metrics"
	"github.com/rs/zerolog"
)

// MaxRedirects bounds how many redirects one navigation may follow
const MaxRedirects = 10

// CatchAllPath is where unknown paths are sent
const CatchAllPath = "/"

var (
	ErrUnknownRoute     = errors.New("unknown route")
	ErrMissingParam     = errors.New("missing route parameter")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrRedirectLoop     = errors.New("route redirects to itself")
)

// Reasons for redirects the router makes on its own
const (
	ReasonNotFound      guard.Reason = "not_found"
	ReasonRouteRedirect guard.Reason = "route_redirect"
)

// Location is a resolved navigation target
type Location struct {
	Name   string
	Path   string
	Params map[string]string
	Query  url.Values
}

// FullPath returns the path with its query string
func (l Location) FullPath() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Hop is one redirect followed while resolving a navigation
type Hop struct {
	From   string
	To     string
	Reason guard.Reason
}

// Router resolves paths against a route table, applies the navigation
// guard and keeps the current location
type Router struct {
	routes  []Route
	byName  map[string]*Route
	session guard.SessionState
	broker  *events.Broker
	logger  zerolog.Logger

	mu      sync.RWMutex
	current *Location
	history []Location
}

// New creates a router over routes. session is consulted on every
// navigation; broker may be nil.
func New(routes []Route, session guard.SessionState, broker *events.Broker) *Router {
	r := &Router{
		routes:  routes,
		byName:  make(map[string]*Route, len(routes)),
		session: session,
		broker:  broker,
		logger:  log.WithComponent("router"),
	}
	for i := range r.routes {
		r.byName[r.routes[i].Name] = &r.routes[i]
	}
	return r
}

// Push navigates to rawPath, following guard and route redirects, and
// returns the location that was reached
func (r *Router) Push(rawPath string) (Location, error) {
	loc, hops, err := r.Resolve(rawPath)
	for _, h := range hops {
		r.publish(events.EventNavigationRedirected, h.From, h.To, h.Reason)
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("path", rawPath).Msg("Navigation failed")
		return Location{}, err
	}

	r.mu.Lock()
	r.current = &loc
	r.history = append(r.history, loc)
	r.mu.Unlock()

	metrics.NavigationDecisionsTotal.WithLabelValues(string(guard.ReasonAllowed)).Inc()
	r.publish(events.EventNavigationAllowed, rawPath, loc.FullPath(), guard.ReasonAllowed)
	r.logger.Debug().Str("path", loc.FullPath()).Str("route", loc.Name).Msg("Navigated")
	return loc, nil
}

// PushNamed navigates to a route by name
func (r *Router) PushNamed(name string, params map[string]string, query url.Values) (Location, error) {
	loc, err := r.Location(name, params, query)
	if err != nil {
		return Location{}, err
	}
	return r.Push(loc.FullPath())
}

// Navigate implements session.Navigator
func (r *Router) Navigate(name string) error {
	_, err := r.PushNamed(name, nil, nil)
	return err
}

// Resolve works out where navigating to rawPath would end up without
// moving there. It returns the redirects followed on the way.
func (r *Router) Resolve(rawPath string) (Location, []Hop, error) {
	loc, err := r.match(rawPath)
	if err != nil {
		return Location{}, nil, err
	}

	var hops []Hop
	for range MaxRedirects + 1 {
		if loc.Name == "" {
			next, err := r.match(CatchAllPath)
			if err != nil {
				return Location{}, hops, err
			}
			hops = append(hops, Hop{From: loc.FullPath(), To: next.FullPath(), Reason: ReasonNotFound})
			loc = next
			continue
		}

		route := r.byName[loc.Name]
		if route.Redirect != nil {
			next, err := r.Location(route.Redirect(r.session), nil, nil)
			if err != nil {
				return Location{}, hops, err
			}
			hops = append(hops, Hop{From: loc.FullPath(), To: next.FullPath(), Reason: ReasonRouteRedirect})
			loc = next
			continue
		}

		d := guard.Evaluate(route.Requirements, r.session, loc.FullPath())
		if d.Allowed() {
			return loc, hops, nil
		}
		metrics.NavigationDecisionsTotal.WithLabelValues(string(d.Reason)).Inc()
		if d.Redirect.Name == loc.Name {
			return Location{}, hops, fmt.Errorf("%w: %s", ErrRedirectLoop, loc.Name)
		}
		next, err := r.Location(d.Redirect.Name, nil, d.Redirect.Query)
		if err != nil {
			return Location{}, hops, err
		}
		hops = append(hops, Hop{From: loc.FullPath(), To: next.FullPath(), Reason: d.Reason})
		loc = next
	}
	return Location{}, hops, fmt.Errorf("%w: %s", ErrTooManyRedirects, rawPath)
}

// Location builds the location of a named route
func (r *Router) Location(name string, params map[string]string, query url.Values) (Location, error) {
	route, ok := r.byName[name]
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}

	segments := splitPath(route.Path)
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		v, ok := params[seg[1:]]
		if !ok || v == "" {
			return Location{}, fmt.Errorf("%w %q for route %s", ErrMissingParam, seg[1:], name)
		}
		segments[i] = url.PathEscape(v)
	}

	return Location{
		Name:   name,
		Path:   "/" + strings.Join(segments, "/"),
		Params: params,
		Query:  query,
	}, nil
}

// match finds the route for rawPath. An unmatched path yields a Location
// with an empty Name.
func (r *Router) match(rawPath string) (Location, error) {
	u, err := url.Parse(rawPath)
	if err != nil {
		return Location{}, fmt.Errorf("failed to parse path %q: %w", rawPath, err)
	}
	path := "/" + strings.Trim(u.Path, "/")
	var query url.Values
	if u.RawQuery != "" {
		query = u.Query()
	}

	segments := splitPath(path)
	for _, route := range r.routes {
		if params, ok := matchSegments(splitPath(route.Path), segments); ok {
			return Location{Name: route.Name, Path: path, Params: params, Query: query}, nil
		}
	}
	return Location{Path: path, Query: query}, nil
}

func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segments[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			v, err := url.PathUnescape(segments[i])
			if err != nil {
				v = segments[i]
			}
			params[p[1:]] = v
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

// Current returns the current location, or false before the first
// successful navigation
func (r *Router) Current() (Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return Location{}, false
	}
	return *r.current, true
}

// History returns every location reached, oldest first
func (r *Router) History() []Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Location, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Router) publish(t events.EventType, from, to string, reason guard.Reason) {
	r.broker.Publish(&events.Event{
		Type:    t,
		Message: to,
		Metadata: map[string]string{
			"from":   from,
			"to":     to,
			"reason": string(reason),
		},
	})
}
