// Package guard is the pure navigation decision over route requirements
// and session state. It has no side effects; the router applies its
// decisions.
package guard
