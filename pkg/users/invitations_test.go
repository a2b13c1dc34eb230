package users

import (
	"context"
	"net/http"
	"testing"

	"github.com/cuemby/brigada/pkg/client/clienttest"
	"github.com/cuemby/brigada/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvitationPrepends(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodGet, "/users/invitations", []types.Invitation{
		{ID: 1, Email: "a@example.org", RoleAssigned: types.RoleVolunteer},
	})
	api.Respond(http.MethodPost, "/users/invite", types.Invitation{
		ID: 2, Email: "b@example.org", RoleAssigned: types.RoleCoordinator, Token: "abc",
	})
	s := NewInvitationStore(api, nil)

	_, err := s.Fetch(context.Background(), types.DefaultPage)
	require.NoError(t, err)

	inv, err := s.Create(context.Background(), "b@example.org", types.RoleCoordinator)
	require.NoError(t, err)
	assert.Equal(t, "abc", inv.Token)

	list := s.Invitations()
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(1), list[1].ID)

	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, inviteRequest{Email: "b@example.org", RoleAssigned: types.RoleCoordinator}, calls[1].Body)
}

func TestCreateInvitationBeforeFetch(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodPost, "/users/invite", types.Invitation{ID: 9, Email: "c@example.org"})
	s := NewInvitationStore(api, nil)

	_, err := s.Create(context.Background(), "c@example.org", types.RoleVolunteer)
	require.NoError(t, err)
	assert.Len(t, s.Invitations(), 1)
	assert.False(t, s.Loaded())
}

func TestInvitationFailures(t *testing.T) {
	api := clienttest.New()
	api.Fail(http.MethodGet, "/users/invitations", http.StatusForbidden, "")
	api.Fail(http.MethodPost, "/users/invite", http.StatusBadRequest, "El email ya está registrado")
	s := NewInvitationStore(api, nil)

	_, err := s.Fetch(context.Background(), types.DefaultPage)
	require.Error(t, err)
	assert.Equal(t, "Error al cargar invitaciones", s.LastError())

	_, err = s.Create(context.Background(), "a@example.org", types.RoleVolunteer)
	require.Error(t, err)
	assert.Equal(t, "El email ya está registrado", s.LastError())
	assert.Empty(t, s.Invitations())
	assert.False(t, s.Loading())
}
