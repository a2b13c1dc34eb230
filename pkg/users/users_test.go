package users

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/cuemby/brigada/pkg/client"
	"github.com/cuemby/brigada/pkg/client/clienttest"
	"github.com/cuemby/brigada/pkg/events"
	"github.com/cuemby/brigada/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUsers() []types.User {
	return []types.User{
		{ID: 1, Email: "ana@example.org", Role: types.RoleAdmin, IsActive: true},
		{ID: 2, Email: "luis@example.org", Role: types.RoleVolunteer, IsActive: true},
	}
}

func TestFetchUsersDefaultPage(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodGet, "/users", sampleUsers())
	s := NewUserStore(api, nil)

	got, err := s.Fetch(context.Background(), types.Page{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, s.Loaded())

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "0", calls[0].Query.Get("skip"))
	assert.Equal(t, "100", calls[0].Query.Get("limit"))
}

func TestFetchUsersExplicitPage(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodGet, "/users", []types.User{})
	s := NewUserStore(api, nil)

	_, err := s.Fetch(context.Background(), types.Page{Skip: 20, Limit: 10})
	require.NoError(t, err)
	q := api.Calls()[0].Query
	assert.Equal(t, "20", q.Get("skip"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Empty(t, s.Users())
}

func TestUpdateUserInPlace(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodGet, "/users", sampleUsers())
	api.Respond(http.MethodPut, "/users/2", types.User{ID: 2, Email: "luis@example.org", Role: types.RoleCoordinator, IsActive: true})
	s := NewUserStore(api, nil)

	_, err := s.Fetch(context.Background(), types.DefaultPage)
	require.NoError(t, err)

	role := types.RoleCoordinator
	got, err := s.Update(context.Background(), 2, types.UserUpdate{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, types.RoleCoordinator, got.Role)

	list := s.Users()
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[1].ID)
	assert.Equal(t, types.RoleCoordinator, list[1].Role)
}

func TestUpdateUnknownUserNotAdded(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodPut, "/users/7", types.User{ID: 7, Email: "x@example.org"})
	s := NewUserStore(api, nil)

	got, err := s.Update(context.Background(), 7, types.UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Empty(t, s.Users())
}

func TestDeleteUser(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodGet, "/users", sampleUsers())
	api.Respond(http.MethodDelete, "/users/1", nil)
	s := NewUserStore(api, nil)

	_, err := s.Fetch(context.Background(), types.DefaultPage)
	require.NoError(t, err)
	require.NoError(t, s.Delete(context.Background(), 1))

	list := s.Users()
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)
}

func TestDeleteUserFailure(t *testing.T) {
	tests := []struct {
		name    string
		detail  string
		wantMsg string
	}{
		{name: "server detail", detail: "No puedes eliminarte a ti mismo", wantMsg: "No puedes eliminarte a ti mismo"},
		{name: "fallback", detail: "", wantMsg: "Error al eliminar usuario"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := clienttest.New()
			api.Respond(http.MethodGet, "/users", sampleUsers())
			api.Fail(http.MethodDelete, "/users/1", http.StatusBadRequest, tt.detail)
			s := NewUserStore(api, nil)

			_, err := s.Fetch(context.Background(), types.DefaultPage)
			require.NoError(t, err)

			err = s.Delete(context.Background(), 1)
			require.Error(t, err)
			assert.Equal(t, client.KindValidation, client.KindOf(err))
			assert.Equal(t, tt.wantMsg, s.LastError())
			assert.False(t, s.Loading())
			assert.Len(t, s.Users(), 2)
		})
	}
}

func TestFetchUsersOutOfOrderResponses(t *testing.T) {
	api := clienttest.New()
	release := make(chan struct{})
	entered := make(chan struct{})
	var n int
	var mu sync.Mutex
	api.On(http.MethodGet, "/users", func(ctx context.Context, req *client.Request) (any, error) {
		mu.Lock()
		n++
		first := n == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
			return []types.User{{ID: 1, Email: "old@example.org"}}, nil
		}
		return []types.User{{ID: 1, Email: "new@example.org"}}, nil
	})
	s := NewUserStore(api, nil)

	done := make(chan error)
	go func() {
		_, err := s.Fetch(context.Background(), types.DefaultPage)
		done <- err
	}()
	<-entered
	assert.True(t, s.Loading())

	_, err := s.Fetch(context.Background(), types.DefaultPage)
	require.NoError(t, err)
	assert.True(t, s.Loading(), "first fetch is still in flight")

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Loading())

	list := s.Users()
	require.Len(t, list, 1)
	assert.Equal(t, "new@example.org", list[0].Email)
}

func TestRolePresentation(t *testing.T) {
	s := NewUserStore(nil, nil)
	assert.Equal(t, "Coordinador", s.RoleLabel(types.RoleCoordinator))
	assert.Equal(t, "error", s.RoleColor(types.RoleAdmin))
	assert.Equal(t, types.FallbackColor, s.RoleColor("invitado"))
	assert.Equal(t, "invitado", s.RoleLabel("invitado"))
	assert.Len(t, s.Roles(), 3)
}

func TestUserEventsPublished(t *testing.T) {
	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()
	sub := broker.Subscribe()

	api := clienttest.New()
	api.Respond(http.MethodDelete, "/users/4", nil)
	s := NewUserStore(api, broker)

	require.NoError(t, s.Delete(context.Background(), 4))
	ev := <-sub
	assert.Equal(t, events.EventUserDeleted, ev.Type)
	assert.Equal(t, "4", ev.Metadata["id"])
}
