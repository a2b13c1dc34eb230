package session

import (
	"time"

	"github.com/cuemby/brigada/pkg/types"
	"github.com/golang-jwt/jwt/v5"
)

// Authenticated reports whether a credential is present. The profile may
// still be loading.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential != ""
}

// Identity returns a copy of the signed-in user's profile, or nil
func (m *Manager) Identity() *types.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	u := *m.identity
	return &u
}

// Role returns the signed-in user's role, or "" while unknown
func (m *Manager) Role() types.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return ""
	}
	return m.identity.Role
}

func (m *Manager) IsAdmin() bool       { return m.Role() == types.RoleAdmin }
func (m *Manager) IsCoordinator() bool { return m.Role() == types.RoleCoordinator }
func (m *Manager) IsVolunteer() bool   { return m.Role() == types.RoleVolunteer }

// CanManage reports whether the user may manage activities
func (m *Manager) CanManage() bool {
	r := m.Role()
	return r == types.RoleAdmin || r == types.RoleCoordinator
}

// Token returns the bearer credential, or "". It makes the manager a
// client.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential
}

// Snapshot returns a copy of the session state
func (m *Manager) Snapshot() types.Session {
	return types.Session{Credential: m.Token(), Identity: m.Identity()}
}

// CredentialExpiry reads the exp claim of the credential without
// verifying its signature. It is informational; the server stays the
// only judge of validity.
func (m *Manager) CredentialExpiry() (time.Time, bool) {
	token := m.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
