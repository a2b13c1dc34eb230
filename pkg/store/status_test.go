package store

import (
	"context"
	"errors"
	"testing"

	"github.com/cuemby/brigada/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOp = Op{Store: "test", Name: "fetch", Fallback: "Error al cargar"}

func TestRunSuccess(t *testing.T) {
	var s Status
	s.SetError("previous failure")

	got, err := Run(context.Background(), &s, testOp, func(context.Context) (int, error) {
		assert.True(t, s.Loading())
		assert.Empty(t, s.LastError())
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.False(t, s.Loading())
	assert.Empty(t, s.LastError())
}

func TestRunFailureMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "server detail", err: &client.APIError{Status: 400, Detail: "Título requerido"}, expected: "Título requerido"},
		{name: "status without detail", err: &client.APIError{Status: 500}, expected: "Error al cargar"},
		{name: "network", err: &client.APIError{Err: errors.New("connection refused")}, expected: "Error al cargar"},
		{name: "plain error", err: errors.New("decode"), expected: "Error al cargar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Status
			_, err := Run(context.Background(), &s, testOp, func(context.Context) (struct{}, error) {
				return struct{}{}, tt.err
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.expected, s.LastError())
			assert.False(t, s.Loading())
		})
	}
}

func TestRunClearsLoadingOnPanic(t *testing.T) {
	var s Status
	assert.Panics(t, func() {
		_, _ = Run(context.Background(), &s, testOp, func(context.Context) (int, error) {
			panic("boom")
		})
	})
	assert.False(t, s.Loading())
}

func TestLoadingWhileAnyOperationInFlight(t *testing.T) {
	var s Status
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = Run(context.Background(), &s, testOp, func(context.Context) (int, error) {
			close(started)
			<-release
			return 0, nil
		})
	}()

	<-started
	_, _ = Run(context.Background(), &s, testOp, func(context.Context) (int, error) { return 1, nil })
	assert.True(t, s.Loading(), "first operation still in flight")

	close(release)
	<-done
	assert.False(t, s.Loading())
}
