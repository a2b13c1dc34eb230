package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionSetLabel(t *testing.T) {
	tests := []struct {
		name     string
		set      OptionSet
		value    string
		expected string
	}{
		{name: "known role", set: Roles, value: "coordinador", expected: "Coordinador"},
		{name: "known activity type", set: ActivityTypes, value: "volanteo", expected: "Volanteo"},
		{name: "known attendance", set: AttendanceStatuses, value: "quizas_asistira", expected: "Quizás asista"},
		{name: "cancelled has no entry", set: ActivityStatuses, value: "cancelada", expected: "cancelada"},
		{name: "unknown value", set: Roles, value: "superuser", expected: "superuser"},
		{name: "empty value", set: Roles, value: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.set.Label(tt.value))
		})
	}
}

func TestOptionSetColorAndIcon(t *testing.T) {
	assert.Equal(t, "error", Roles.Color("administrador"))
	assert.Equal(t, FallbackColor, Roles.Color("superuser"))
	assert.Equal(t, "✓", AttendanceStatuses.Icon("asistira"))
	assert.Equal(t, "", AttendanceStatuses.Icon("nope"))
}

func TestSessionAuthenticated(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.False(t, Session{Identity: &User{ID: 1}}.Authenticated())
	assert.True(t, Session{Credential: "tok"}.Authenticated())
}
