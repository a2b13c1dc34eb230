package activities

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/cuemby/brigada/pkg/client"
	"github.com/cuemby/brigada/pkg/events"
	"github.com/cuemby/brigada/pkg/store"
	"github.com/cuemby/brigada/pkg/types"
)

const storeName = "activities"

var (
	opFetch  = store.Op{Store: storeName, Name: "fetch", Fallback: "Error al cargar actividades"}
	opGet    = store.Op{Store: storeName, Name: "get", Fallback: "Error al cargar actividad"}
	opCreate = store.Op{Store: storeName, Name: "create", Fallback: "Error al crear actividad"}
	opUpdate = store.Op{Store: storeName, Name: "update", Fallback: "Error al actualizar actividad"}
	opCancel = store.Op{Store: storeName, Name: "cancel", Fallback: "Error al cancelar actividad"}
	opFinish = store.Op{Store: storeName, Name: "finish", Fallback: "Error al finalizar actividad"}
)

// Store caches the activity list, the activity currently being viewed and
// the list filters
type Store struct {
	store.Status

	api    client.Doer
	broker *events.Broker
	seq    store.Sequencer
	list   *store.Collection[types.Activity]

	mu            sync.RWMutex
	current       *types.Activity
	currentTicket store.Ticket
	filters       Filters
}

// NewStore creates an empty activities store. broker may be nil.
func NewStore(api client.Doer, broker *events.Broker) *Store {
	return &Store{
		api:    api,
		broker: broker,
		list:   store.NewCollection(func(a types.Activity) int64 { return a.ID }),
	}
}

func activityPath(id int64) string {
	return fmt.Sprintf("/activities/%d", id)
}

// Fetch replaces the cached list with the server's
func (s *Store) Fetch(ctx context.Context) ([]types.Activity, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, opFetch, func(ctx context.Context) ([]types.Activity, error) {
		var out []types.Activity
		if err := s.api.Do(ctx, client.Get("/activities"), &out); err != nil {
			return nil, err
		}
		store.Observe(opFetch, 0, s.list.Replace(t, out))
		s.publish(events.EventActivitiesFetched, 0, fmt.Sprintf("%d activities", len(out)))
		return out, nil
	})
}

// Get loads one activity and makes it the current one
func (s *Store) Get(ctx context.Context, id int64) (*types.Activity, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, opGet, func(ctx context.Context) (*types.Activity, error) {
		var out types.Activity
		if err := s.api.Do(ctx, client.Get(activityPath(id)), &out); err != nil {
			return nil, err
		}
		s.mu.Lock()
		if t >= s.currentTicket {
			s.current = &out
			s.currentTicket = t
		}
		s.mu.Unlock()
		return &out, nil
	})
}

// Create creates an activity and puts it first in the list
func (s *Store) Create(ctx context.Context, in types.ActivityInput) (*types.Activity, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, opCreate, func(ctx context.Context) (*types.Activity, error) {
		var out types.Activity
		if err := s.api.Do(ctx, client.Post("/activities", in), &out); err != nil {
			return nil, err
		}
		store.Observe(opCreate, out.ID, s.list.Prepend(t, out))
		s.publish(events.EventActivityCreated, out.ID, out.Title)
		return &out, nil
	})
}

// Update edits an activity
func (s *Store) Update(ctx context.Context, id int64, in types.ActivityInput) (*types.Activity, error) {
	return s.mutate(ctx, opUpdate, client.Put(activityPath(id), in), events.EventActivityUpdated)
}

// Cancel marks an activity as cancelled
func (s *Store) Cancel(ctx context.Context, id int64) (*types.Activity, error) {
	return s.mutate(ctx, opCancel, client.Post(activityPath(id)+"/cancel", nil), events.EventActivityCancelled)
}

// Finish marks an activity as finished
func (s *Store) Finish(ctx context.Context, id int64) (*types.Activity, error) {
	return s.mutate(ctx, opFinish, client.Post(activityPath(id)+"/finish", nil), events.EventActivityFinished)
}

// mutate sends a request that returns the changed activity and reconciles
// it into the list (only if cached) and into the current activity (only
// if it is the same one)
func (s *Store) mutate(ctx context.Context, op store.Op, req *client.Request, ev events.EventType) (*types.Activity, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, op, func(ctx context.Context) (*types.Activity, error) {
		var out types.Activity
		if err := s.api.Do(ctx, req, &out); err != nil {
			return nil, err
		}
		store.Observe(op, out.ID, s.list.Update(t, out))

		s.mu.Lock()
		if s.current != nil && s.current.ID == out.ID && t >= s.currentTicket {
			updated := out
			s.current = &updated
			s.currentTicket = t
		}
		s.mu.Unlock()

		s.publish(ev, out.ID, string(out.Status))
		return &out, nil
	})
}

// Activities returns the cached list in order
func (s *Store) Activities() []types.Activity {
	return s.list.Items()
}

// Loaded reports whether the list was fetched at least once
func (s *Store) Loaded() bool {
	return s.list.Loaded()
}

// Current returns a copy of the activity being viewed, or nil
func (s *Store) Current() *types.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	a := *s.current
	return &a
}

func (s *Store) publish(t events.EventType, id int64, msg string) {
	s.broker.Publish(&events.Event{
		Type:     t,
		Message:  msg,
		Metadata: map[string]string{"store": storeName, "id": strconv.FormatInt(id, 10)},
	})
}
