package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/cuemby/brigada/pkg/client"
	"github.com/cuemby/brigada/pkg/log"
	"github.com/cuemby/brigada/pkg/metrics"
)

// Status carries the loading flag and the last user-facing error of a
// store. Loading stays true while any operation is in flight.
type Status struct {
	mu        sync.RWMutex
	inflight  int
	lastError string
}

// Loading reports whether an operation is in flight
func (s *Status) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// LastError returns the message of the most recent failure, or "" after
// a new operation started
func (s *Status) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// SetError records msg as the last error
func (s *Status) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

func (s *Status) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.lastError = ""
}

func (s *Status) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight > 0 {
		s.inflight--
	}
}

// Op names one store operation and its fallback error message
type Op struct {
	Store    string
	Name     string
	Fallback string
}

// Run executes fn as one store operation. Loading is raised and the last
// error cleared before fn runs; loading is lowered when Run returns, on
// every path. A failure records the server's detail (or op.Fallback) as
// the last error and is returned to the caller.
func Run[T any](ctx context.Context, s *Status, op Op, fn func(context.Context) (T, error)) (T, error) {
	s.begin()
	defer s.end()

	logger := log.WithStore(op.Store)
	logger.Debug().Str("operation", op.Name).Msg("Store operation started")

	timer := metrics.NewTimer()
	result, err := fn(ctx)
	timer.ObserveDurationVec(metrics.StoreRequestDuration, op.Store, op.Name)

	if err != nil {
		s.SetError(client.Message(err, op.Fallback))
		metrics.StoreRequestsTotal.WithLabelValues(op.Store, op.Name, metrics.OutcomeFailure).Inc()
		logger.Warn().Err(err).
			Str("operation", op.Name).
			Str("kind", client.KindOf(err).String()).
			Msg("Store operation failed")
		var zero T
		return zero, fmt.Errorf("%s %s: %w", op.Store, op.Name, err)
	}

	metrics.StoreRequestsTotal.WithLabelValues(op.Store, op.Name, metrics.OutcomeSuccess).Inc()
	return result, nil
}

// Observe records a reconciliation outcome. Stale outcomes are counted
// and logged; the others are only logged at debug.
func Observe(op Op, id int64, outcome Outcome) {
	logger := log.WithStore(op.Store)
	if outcome == Stale {
		metrics.StaleResponsesTotal.WithLabelValues(op.Store).Inc()
		logger.Info().Str("operation", op.Name).Int64("id", id).Msg("Discarded out-of-order response")
		return
	}
	logger.Debug().Str("operation", op.Name).Int64("id", id).Str("outcome", outcome.String()).Msg("Reconciled")
}
