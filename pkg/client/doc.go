/*
Package client provides the HTTP client for the brigada REST API.

The client is the transport collaborator of the session manager and the
entity stores. It attaches the bearer credential, encodes JSON or
form bodies, decodes JSON responses and turns every failure into an
*APIError carrying the HTTP status and the server's `detail` message.

# Usage

	c, err := client.NewClient(client.Config{
		BaseURL: "http://localhost:8000/api/v1",
		Timeout: 15 * time.Second,
	})
	if err != nil {
		return err
	}
	defer c.Close()
	c.SetTokenSource(sessionManager)

	var users []types.User
	err = c.Do(ctx, client.Get("/users").WithQuery(q), &users)

Consumers depend on the Doer interface so tests can substitute
clienttest.Fake.

# Error Classification

KindOf maps a failure onto the taxonomy used by the session manager:

  - KindTransient: no response (network, timeout, cancelled context)
  - KindUnauthenticated: 401
  - KindForbidden: 403
  - KindNotFound: 404
  - KindValidation: any other 4xx
  - KindServer: 5xx

IsDenial is true for the first two HTTP classes; only denials may end a
session. Message returns the server detail or a caller-supplied
fallback and never exposes transport error text.

Each request is a single attempt. Retries and backoff are not performed;
the only timeout is Config.Timeout.
*/
package client
