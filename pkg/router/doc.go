// Package router maps paths to named routes and applies the navigation
// guard to every move. Redirects (guard decisions, the role home route
// and the catch-all for unknown paths) are followed up to MaxRedirects.
// A Router satisfies session.Navigator.
package router
