package users

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/cuemby/brigada/pkg/client"
	"github.com/cuemby/brigada/pkg/events"
	"github.com/cuemby/brigada/pkg/store"
	"github.com/cuemby/brigada/pkg/types"
)

const usersStore = "users"

var (
	opFetchUsers = store.Op{Store: usersStore, Name: "fetch", Fallback: "Error al cargar usuarios"}
	opUpdateUser = store.Op{Store: usersStore, Name: "update", Fallback: "Error al actualizar usuario"}
	opDeleteUser = store.Op{Store: usersStore, Name: "delete", Fallback: "Error al eliminar usuario"}
)

// UserStore caches the administrative user listing
type UserStore struct {
	store.Status

	api    client.Doer
	broker *events.Broker
	seq    store.Sequencer
	list   *store.Collection[types.User]
}

// NewUserStore creates an empty user store. broker may be nil.
func NewUserStore(api client.Doer, broker *events.Broker) *UserStore {
	return &UserStore{
		api:    api,
		broker: broker,
		list:   store.NewCollection(func(u types.User) int64 { return u.ID }),
	}
}

func userPath(id int64) string {
	return fmt.Sprintf("/users/%d", id)
}

func pageQuery(p types.Page) url.Values {
	if p.Limit <= 0 {
		p = types.DefaultPage
	}
	return url.Values{
		"skip":  {strconv.Itoa(p.Skip)},
		"limit": {strconv.Itoa(p.Limit)},
	}
}

// Fetch replaces the cached list with one page of users
func (s *UserStore) Fetch(ctx context.Context, page types.Page) ([]types.User, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, opFetchUsers, func(ctx context.Context) ([]types.User, error) {
		var out []types.User
		if err := s.api.Do(ctx, client.Get("/users").WithQuery(pageQuery(page)), &out); err != nil {
			return nil, err
		}
		store.Observe(opFetchUsers, 0, s.list.Replace(t, out))
		s.publish(events.EventUsersFetched, 0, fmt.Sprintf("%d users", len(out)))
		return out, nil
	})
}

// Update edits a user; the server's copy replaces the cached one if present
func (s *UserStore) Update(ctx context.Context, id int64, in types.UserUpdate) (*types.User, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, opUpdateUser, func(ctx context.Context) (*types.User, error) {
		var out types.User
		if err := s.api.Do(ctx, client.Put(userPath(id), in), &out); err != nil {
			return nil, err
		}
		store.Observe(opUpdateUser, out.ID, s.list.Update(t, out))
		s.publish(events.EventUserUpdated, out.ID, out.Email)
		return &out, nil
	})
}

// Delete removes a user
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	t := s.seq.Next()
	_, err := store.Run(ctx, &s.Status, opDeleteUser, func(ctx context.Context) (struct{}, error) {
		if err := s.api.Do(ctx, client.Delete(userPath(id)), nil); err != nil {
			return struct{}{}, err
		}
		store.Observe(opDeleteUser, id, s.list.Remove(t, id))
		s.publish(events.EventUserDeleted, id, "")
		return struct{}{}, nil
	})
	return err
}

// Users returns the cached list in order
func (s *UserStore) Users() []types.User {
	return s.list.Items()
}

// Loaded reports whether the list was fetched at least once
func (s *UserStore) Loaded() bool {
	return s.list.Loaded()
}

// Roles returns the selectable roles in display order
func (s *UserStore) Roles() types.OptionSet {
	return types.Roles
}

// RoleLabel returns the display label of a role
func (s *UserStore) RoleLabel(r types.Role) string {
	return types.Roles.Label(string(r))
}

// RoleColor returns the display color of a role
func (s *UserStore) RoleColor(r types.Role) string {
	return types.Roles.Color(string(r))
}

func (s *UserStore) publish(t events.EventType, id int64, msg string) {
	publish(s.broker, usersStore, t, id, msg)
}

func publish(b *events.Broker, storeName string, t events.EventType, id int64, msg string) {
	b.Publish(&events.Event{
		Type:     t,
		Message:  msg,
		Metadata: map[string]string{"store": storeName, "id": strconv.FormatInt(id, 10)},
	})
}
