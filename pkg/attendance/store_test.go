package attendance

import (
	"context"
	"net/http"
	"testing"

	"github.com/cuemby/brigada/pkg/client/clienttest"
	"github.com/cuemby/brigada/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUnloadedActivity(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodPost, "/activities/5/attendance",
		types.Attendance{ID: 40, ActivityID: 5, UserID: 9, Status: types.AttendanceWillAttend})
	s := NewStore(api, nil)

	got, err := s.Register(context.Background(), types.AttendanceRequest{ActivityID: 5, Status: types.AttendanceWillAttend})
	require.NoError(t, err)
	assert.Equal(t, int64(40), got.ID)

	own := s.UserAttendance(5)
	require.NotNil(t, own)
	assert.Equal(t, types.AttendanceWillAttend, own.Status)

	assert.False(t, s.Loaded(5))
	assert.Empty(t, s.ByActivity(5))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]types.AttendanceStatus{"status": types.AttendanceWillAttend}, calls[0].Body)
}

func TestRegisterReplacesActingUsersEntry(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodGet, "/activities/5/attendance", []types.Attendance{
		{ID: 40, ActivityID: 5, UserID: 9, Status: types.AttendanceWontAttend},
	})
	// the server may issue a new record id; matching is by user
	api.Respond(http.MethodPost, "/activities/5/attendance",
		types.Attendance{ID: 41, ActivityID: 5, UserID: 9, Status: types.AttendanceWillAttend})
	s := NewStore(api, nil)

	_, err := s.Fetch(context.Background(), 5)
	require.NoError(t, err)
	_, err = s.Register(context.Background(), types.AttendanceRequest{ActivityID: 5, Status: types.AttendanceWillAttend})
	require.NoError(t, err)

	list := s.ByActivity(5)
	require.Len(t, list, 1)
	assert.Equal(t, types.AttendanceWillAttend, list[0].Status)
	assert.Equal(t, int64(9), list[0].UserID)
}

func TestRegisterAppendsNewRespondent(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodGet, "/activities/5/attendance", []types.Attendance{
		{ID: 40, ActivityID: 5, UserID: 9, Status: types.AttendanceWontAttend},
	})
	api.Respond(http.MethodPost, "/activities/5/attendance",
		types.Attendance{ID: 50, ActivityID: 5, UserID: 12, Status: types.AttendanceMightAttend})
	s := NewStore(api, nil)

	_, err := s.Fetch(context.Background(), 5)
	require.NoError(t, err)
	_, err = s.Register(context.Background(), types.AttendanceRequest{ActivityID: 5, Status: types.AttendanceMightAttend})
	require.NoError(t, err)

	list := s.ByActivity(5)
	require.Len(t, list, 2)
	assert.Equal(t, int64(12), list[1].UserID)
	assert.Equal(t, 1, s.Count(5, types.AttendanceMightAttend))
	assert.Equal(t, 1, s.Count(5, types.AttendanceWontAttend))
	assert.Equal(t, 0, s.Count(5, types.AttendanceWillAttend))
	assert.Equal(t, 2, s.Count(5, ""))
}

func TestFetchFailureKeepsActivityUnloaded(t *testing.T) {
	api := clienttest.New()
	api.Fail(http.MethodGet, "/activities/3/attendance", http.StatusForbidden, "")
	s := NewStore(api, nil)

	_, err := s.Fetch(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, "Error al cargar asistencias", s.LastError())
	assert.False(t, s.Loading())
	assert.False(t, s.Loaded(3))
	assert.Equal(t, 0, s.Count(3, ""))
}

func TestRegisterFailure(t *testing.T) {
	api := clienttest.New()
	api.Fail(http.MethodPost, "/activities/5/attendance", http.StatusBadRequest, "La actividad ya finalizó")
	s := NewStore(api, nil)

	_, err := s.Register(context.Background(), types.AttendanceRequest{ActivityID: 5, Status: types.AttendanceWillAttend})
	require.Error(t, err)
	assert.Equal(t, "La actividad ya finalizó", s.LastError())
	assert.Nil(t, s.UserAttendance(5))
}

func TestListsAreIndependentPerActivity(t *testing.T) {
	api := clienttest.New()
	api.Respond(http.MethodGet, "/activities/1/attendance", []types.Attendance{{ID: 1, ActivityID: 1, UserID: 9}})
	api.Respond(http.MethodGet, "/activities/2/attendance", []types.Attendance{})
	s := NewStore(api, nil)

	_, err := s.Fetch(context.Background(), 1)
	require.NoError(t, err)
	_, err = s.Fetch(context.Background(), 2)
	require.NoError(t, err)

	assert.Len(t, s.ByActivity(1), 1)
	assert.Empty(t, s.ByActivity(2))
	assert.True(t, s.Loaded(2))
}

func TestStatusPresentation(t *testing.T) {
	s := NewStore(nil, nil)
	assert.Equal(t, "Asistiré", s.StatusLabel(types.AttendanceWillAttend))
	assert.Equal(t, "error", s.StatusColor(types.AttendanceWontAttend))
	assert.Equal(t, "?", s.StatusIcon(types.AttendanceMightAttend))
	assert.Equal(t, "otro", s.StatusLabel("otro"))
}
