package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	"github.com/cuemby/brigada/pkg/client"
	"github.com/cuemby/brigada/pkg/events"
	"github.com/cuemby/brigada/pkg/guard"
	"github.com/cuemby/brigada/pkg/log"
	"github.com/cuemby/brigada/pkg/metrics"
	"github.com/cuemby/brigada/pkg/storage"
	"github.com/cuemby/brigada/pkg/store"
	"github.com/cuemby/brigada/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const storeName = "session"

var (
	opLogin    = store.Op{Store: storeName, Name: "login", Fallback: "Error al iniciar sesión"}
	opRegister = store.Op{Store: storeName, Name: "register", Fallback: "Error al registrarse"}
)

// Transition labels for metrics.SessionTransitionsTotal
const (
	TransitionLogin     = "login"
	TransitionRegister  = "register"
	TransitionRestored  = "restored"
	TransitionRefreshed = "profile_refreshed"
	TransitionLogout    = "logout"
)

// ErrNoAccessToken is returned when a login or registration response
// carries no credential
var ErrNoAccessToken = errors.New("response carried no access token")

// ErrSessionChanged is returned by RefreshProfile when the session it
// started for ended or was replaced before the profile arrived
var ErrSessionChanged = errors.New("session changed during profile refresh")

// Navigator moves the application to a named route
type Navigator interface {
	Navigate(name string) error
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Manager owns the authentication state: the bearer credential and the
// profile of the user it belongs to. Both are persisted in a storage.KV
// and restored at construction.
type Manager struct {
	store.Status

	api    client.Doer
	kv     storage.KV
	broker *events.Broker
	logger zerolog.Logger

	mu         sync.RWMutex
	credential string
	identity   *types.User
	nav        Navigator

	init singleflight.Group
}

// NewManager creates a session manager and restores any persisted
// session from kv. A persisted profile that can't be decoded is dropped.
func NewManager(api client.Doer, kv storage.KV, broker *events.Broker) *Manager {
	m := &Manager{
		api:    api,
		kv:     kv,
		broker: broker,
		logger: log.WithComponent("session"),
	}
	m.restore()
	return m
}

func (m *Manager) restore() {
	token, ok, err := m.kv.Get(storage.KeyToken)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to read persisted credential")
	} else if ok {
		m.credential = token
	}

	raw, ok, err := m.kv.Get(storage.KeyUser)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to read persisted profile")
		return
	}
	if !ok || raw == "" || raw == "null" {
		return
	}
	var u types.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		m.logger.Warn().Err(err).Msg("Discarding unreadable persisted profile")
		return
	}
	m.identity = &u

	if m.credential != "" {
		metrics.SessionTransitionsTotal.WithLabelValues(TransitionRestored).Inc()
	}
}

// SetNavigator installs where Login, Register and Logout send the user.
// Without one, navigation is skipped.
func (m *Manager) SetNavigator(nav Navigator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nav = nav
}

// Login exchanges a username and password for a credential, loads the
// profile and navigates to the role's home route. Failures are recorded
// in LastError and reported as false.
func (m *Manager) Login(ctx context.Context, username, password string) bool {
	form := url.Values{"username": {username}, "password": {password}}
	return m.authenticate(ctx, opLogin, client.PostForm("/auth/login", form), TransitionLogin)
}

// Register creates an account from an invitation and signs in with it.
// Same contract as Login.
func (m *Manager) Register(ctx context.Context, payload types.Registration) bool {
	return m.authenticate(ctx, opRegister, client.Post("/auth/register", payload), TransitionRegister)
}

func (m *Manager) authenticate(ctx context.Context, op store.Op, req *client.Request, transition string) bool {
	_, err := store.Run(ctx, &m.Status, op, func(ctx context.Context) (struct{}, error) {
		var out tokenResponse
		if err := m.api.Do(ctx, req, &out); err != nil {
			return struct{}{}, err
		}
		if out.AccessToken == "" {
			return struct{}{}, ErrNoAccessToken
		}
		m.setCredential(out.AccessToken)
		m.transition(transition, events.EventSessionLogin)

		return struct{}{}, m.RefreshProfile(ctx)
	})
	if err != nil {
		return false
	}

	m.navigate(guard.HomeRouteForRole(m.Role()))
	return true
}

// RefreshProfile reloads the signed-in user's profile. It does nothing
// without a credential. A denial ends the session; any other failure
// keeps the cached profile. The error is returned in both cases.
//
// The profile is applied only if the credential it was fetched with is
// still the current one, so a response arriving after Logout (or after a
// new login) is dropped.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	credential := m.Token()
	if credential == "" {
		return nil
	}

	var u types.User
	if err := m.api.Do(ctx, client.Get("/users/me"), &u); err != nil {
		if client.IsDenial(err) && m.Token() == credential {
			m.logger.Info().Int("status", client.StatusOf(err)).Msg("Credential rejected, ending session")
			m.Logout()
		} else {
			m.logger.Warn().Err(err).Msg("Failed to refresh profile")
		}
		return err
	}

	data, err := json.Marshal(u)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to encode profile")
	}

	m.mu.Lock()
	if m.credential != credential {
		m.mu.Unlock()
		m.logger.Info().Msg("Discarding profile fetched for an ended session")
		return ErrSessionChanged
	}
	m.identity = &u
	if data != nil {
		if err := m.kv.Set(storage.KeyUser, string(data)); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to persist profile")
		}
	}
	m.mu.Unlock()

	m.transition(TransitionRefreshed, events.EventSessionRefreshed)
	return nil
}

// VerifySession reports whether the stored credential is still accepted.
// Any failure ends the session.
func (m *Manager) VerifySession(ctx context.Context) bool {
	if !m.Authenticated() {
		return false
	}
	if err := m.RefreshProfile(ctx); err != nil {
		// a denial already ended the session inside RefreshProfile
		if !client.IsDenial(err) && !errors.Is(err, ErrSessionChanged) {
			m.Logout()
		}
		return false
	}
	return true
}

// Initialize reconciles the restored session at startup and reports
// whether it is authenticated. With a cached profile the refresh is best
// effort and never ends the session; with only a credential the session
// is verified. Concurrent calls share one run.
func (m *Manager) Initialize(ctx context.Context) bool {
	v, _, _ := m.init.Do("initialize", func() (any, error) {
		m.mu.RLock()
		hasCredential := m.credential != ""
		hasIdentity := m.identity != nil
		m.mu.RUnlock()

		switch {
		case hasCredential && hasIdentity:
			if err := m.RefreshProfile(ctx); err != nil && !client.IsDenial(err) {
				m.logger.Warn().Err(err).Msg("Keeping cached profile after failed refresh")
			}
			return m.Authenticated(), nil
		case hasCredential:
			return m.VerifySession(ctx), nil
		default:
			return false, nil
		}
	})
	return v.(bool)
}

// Logout clears the session and its persisted copy, then navigates to
// login. Calling it again has the same result.
func (m *Manager) Logout() {
	m.mu.Lock()
	wasAuthenticated := m.credential != "" || m.identity != nil
	m.credential = ""
	m.identity = nil
	m.mu.Unlock()

	for _, key := range []string{storage.KeyToken, storage.KeyUser} {
		if err := m.kv.Remove(key); err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("Failed to remove persisted session entry")
		}
	}

	if wasAuthenticated {
		m.transition(TransitionLogout, events.EventSessionLogout)
	}
	m.navigate(guard.RouteLogin)
}

// ValidateInvitationToken looks up an invitation by its token. Any
// failure is returned as an *InvitationError.
func (m *Manager) ValidateInvitationToken(ctx context.Context, token string) (*types.Invitation, error) {
	var inv types.Invitation
	path := "/auth/invitation/" + url.PathEscape(token)
	if err := m.api.Do(ctx, client.Get(path), &inv); err != nil {
		return nil, &InvitationError{Message: client.Message(err, invalidInvitation), Err: err}
	}
	return &inv, nil
}

func (m *Manager) setCredential(token string) {
	m.mu.Lock()
	m.credential = token
	m.mu.Unlock()

	if err := m.kv.Set(storage.KeyToken, token); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist credential")
	}
}

func (m *Manager) navigate(name string) {
	m.mu.RLock()
	nav := m.nav
	m.mu.RUnlock()
	if nav == nil {
		return
	}
	if err := nav.Navigate(name); err != nil {
		m.logger.Warn().Err(err).Str("route", name).Msg("Navigation failed")
	}
}

func (m *Manager) transition(name string, ev events.EventType) {
	metrics.SessionTransitionsTotal.WithLabelValues(name).Inc()
	m.logger.Debug().Str("transition", name).Msg("Session transition")

	meta := map[string]string{"transition": name}
	if role := m.Role(); role != "" {
		meta["role"] = string(role)
	}
	m.broker.Publish(&events.Event{Type: ev, Message: name, Metadata: meta})
}
