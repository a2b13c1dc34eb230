// Package clienttest provides an in-memory client.Doer for tests.
package clienttest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/cuemby/brigada/pkg/client"
)

// Handler produces the response body for a request, or an error
type Handler func(ctx context.Context, req *client.Request) (any, error)

// Fake routes requests to handlers keyed by method and path. Responses go
// through encoding/json so decoding behaves like the real client.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []client.Request
}

// New creates an empty Fake
func New() *Fake {
	return &Fake{handlers: make(map[string]Handler)}
}

func key(method, path string) string {
	return method + " " + path
}

// On registers h for method and path, replacing any previous handler
func (f *Fake) On(method, path string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[key(method, path)] = h
}

// Respond makes method and path succeed with body
func (f *Fake) Respond(method, path string, body any) {
	f.On(method, path, func(context.Context, *client.Request) (any, error) {
		return body, nil
	})
}

// Fail makes method and path fail with status and detail
func (f *Fake) Fail(method, path string, status int, detail string) {
	f.On(method, path, func(_ context.Context, req *client.Request) (any, error) {
		return nil, &client.APIError{Status: status, Detail: detail, Method: req.Method, Path: req.Path}
	})
}

// FailNetwork makes method and path fail without a response
func (f *Fake) FailNetwork(method, path string) {
	f.On(method, path, func(_ context.Context, req *client.Request) (any, error) {
		return nil, NetworkError(req)
	})
}

// NetworkError is what the real client returns when nothing answered
func NetworkError(req *client.Request) error {
	return &client.APIError{Method: req.Method, Path: req.Path, Err: errors.New("connection refused")}
}

// Do implements client.Doer
func (f *Fake) Do(ctx context.Context, req *client.Request, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, *req)
	h, ok := f.handlers[key(req.Method, req.Path)]
	f.mu.Unlock()

	if !ok {
		return &client.APIError{Status: http.StatusNotFound, Detail: "Not Found", Method: req.Method, Path: req.Path}
	}

	body, err := h(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || body == nil {
		return nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode fake response: %w", err)
	}
	return json.Unmarshal(data, out)
}

// Calls returns the requests seen so far
func (f *Fake) Calls() []client.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]client.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times method and path were requested
func (f *Fake) CallCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}
