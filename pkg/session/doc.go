/*
Package session manages authentication state for the brigada client.

The Manager holds the bearer credential and the profile of the user it
belongs to. A session counts as authenticated whenever a credential is
present; the profile follows shortly after login.

# Lifecycle

	Unauthenticated --Login/Register--> Authenticated (profile pending)
	                                    |
	                                    +--RefreshProfile--> Authenticated
	any 401/403 on refresh ---------------------------------> Unauthenticated

Transient failures (no response, 5xx) never end a session: a flaky
network must not sign anyone out. Login and Register report failure as
false and leave the message in LastError; every other operation returns
its error.

# Wiring

	mgr := session.NewManager(api, kv, broker)
	api.SetTokenSource(mgr)
	mgr.SetNavigator(r)
	mgr.Initialize(ctx)
*/
package session
