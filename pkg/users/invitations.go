package users

import (
	"context"
	"fmt"

	"github.com/cuemby/brigada/pkg/client"
	"github.com/cuemby/brigada/pkg/events"
	"github.com/cuemby/brigada/pkg/store"
	"github.com/cuemby/brigada/pkg/types"
)

const invitationsStore = "invitations"

var (
	opFetchInvitations = store.Op{Store: invitationsStore, Name: "fetch", Fallback: "Error al cargar invitaciones"}
	opCreateInvitation = store.Op{Store: invitationsStore, Name: "create", Fallback: "Error al crear invitación"}
)

// InvitationStore caches issued invitations
type InvitationStore struct {
	store.Status

	api    client.Doer
	broker *events.Broker
	seq    store.Sequencer
	list   *store.Collection[types.Invitation]
}

// NewInvitationStore creates an empty invitation store. broker may be nil.
func NewInvitationStore(api client.Doer, broker *events.Broker) *InvitationStore {
	return &InvitationStore{
		api:    api,
		broker: broker,
		list:   store.NewCollection(func(i types.Invitation) int64 { return i.ID }),
	}
}

// Fetch replaces the cached list with one page of invitations
func (s *InvitationStore) Fetch(ctx context.Context, page types.Page) ([]types.Invitation, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, opFetchInvitations, func(ctx context.Context) ([]types.Invitation, error) {
		var out []types.Invitation
		req := client.Get("/users/invitations").WithQuery(pageQuery(page))
		if err := s.api.Do(ctx, req, &out); err != nil {
			return nil, err
		}
		store.Observe(opFetchInvitations, 0, s.list.Replace(t, out))
		publish(s.broker, invitationsStore, events.EventInvitationsFetched, 0, fmt.Sprintf("%d invitations", len(out)))
		return out, nil
	})
}

type inviteRequest struct {
	Email        string     `json:"email"`
	RoleAssigned types.Role `json:"role_assigned"`
}

// Create issues an invitation and puts it first in the list
func (s *InvitationStore) Create(ctx context.Context, email string, role types.Role) (*types.Invitation, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, opCreateInvitation, func(ctx context.Context) (*types.Invitation, error) {
		var out types.Invitation
		body := inviteRequest{Email: email, RoleAssigned: role}
		if err := s.api.Do(ctx, client.Post("/users/invite", body), &out); err != nil {
			return nil, err
		}
		store.Observe(opCreateInvitation, out.ID, s.list.Prepend(t, out))
		publish(s.broker, invitationsStore, events.EventInvitationCreated, out.ID, out.Email)
		return &out, nil
	})
}

// Invitations returns the cached list in order
func (s *InvitationStore) Invitations() []types.Invitation {
	return s.list.Items()
}

// Loaded reports whether the list was fetched at least once
func (s *InvitationStore) Loaded() bool {
	return s.list.Loaded()
}
