package attendance

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

const storeName = "attendance"

var (
	opFetch    = store.Op{Store: storeName, Name: "fetch", Fallback: "Error al cargar asistencias"}
	opRegister = store.Op{Store: storeName, Name: "register", Fallback: "Error al registrar asistencia"}
)

type ownAnswer struct {
	attendance types.Attendance
	ticket     store.Ticket
}

// Store caches attendance lists per activity and the acting user's own
// answer per activity
type Store struct {
	store.Status

	api    client.Doer
	broker *events.Broker
	seq    store.Sequencer

	mu         sync.RWMutex
	byActivity map[int64]*store.Collection[types.Attendance]
	own        map[int64]ownAnswer
}

// NewStore creates an empty attendance store. broker may be nil.
func NewStore(api client.Doer, broker *events.Broker) *Store {
	return &Store{
		api:        api,
		broker:     broker,
		byActivity: make(map[int64]*store.Collection[types.Attendance]),
		own:        make(map[int64]ownAnswer),
	}
}

func attendancePath(activityID int64) string {
	return fmt.Sprintf("/activities/%d/attendance", activityID)
}

// byUser keys attendance lists by respondent, so a user's new answer
// replaces their previous one
func byUser(a types.Attendance) int64 {
	return a.UserID
}

// Fetch loads every answer for an activity
func (s *Store) Fetch(ctx context.Context, activityID int64) ([]types.Attendance, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, opFetch, func(ctx context.Context) ([]types.Attendance, error) {
		var out []types.Attendance
		if err := s.api.Do(ctx, client.Get(attendancePath(activityID)), &out); err != nil {
			return nil, err
		}

		s.mu.Lock()
		list, ok := s.byActivity[activityID]
		if !ok {
			list = store.NewCollection(byUser)
			s.byActivity[activityID] = list
		}
		s.mu.Unlock()

		store.Observe(opFetch, activityID, list.Replace(t, out))
		s.publish(events.EventAttendanceFetched, activityID, fmt.Sprintf("%d answers", len(out)))
		return out, nil
	})
}

// Register records the acting user's answer for an activity. The answer
// is merged into the activity's list only when that list was fetched.
func (s *Store) Register(ctx context.Context, req types.AttendanceRequest) (*types.Attendance, error) {
	t := s.seq.Next()
	return store.Run(ctx, &s.Status, opRegister, func(ctx context.Context) (*types.Attendance, error) {
		body := map[string]types.AttendanceStatus{"status": req.Status}
		var out types.Attendance
		if err := s.api.Do(ctx, client.Post(attendancePath(req.ActivityID), body), &out); err != nil {
			return nil, err
		}

		s.mu.Lock()
		if prev, ok := s.own[req.ActivityID]; !ok || t >= prev.ticket {
			s.own[req.ActivityID] = ownAnswer{attendance: out, ticket: t}
		}
		list := s.byActivity[req.ActivityID]
		s.mu.Unlock()

		if list != nil {
			store.Observe(opRegister, req.ActivityID, list.Upsert(t, out))
		}
		s.publish(events.EventAttendanceRegistered, req.ActivityID, string(out.Status))
		return &out, nil
	})
}

// Loaded reports whether an activity's attendance list was fetched
func (s *Store) Loaded(activityID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byActivity[activityID]
	return ok
}

// ByActivity returns the cached answers for an activity, or an empty list
func (s *Store) ByActivity(activityID int64) []types.Attendance {
	s.mu.RLock()
	list := s.byActivity[activityID]
	s.mu.RUnlock()
	if list == nil {
		return []types.Attendance{}
	}
	return list.Items()
}

// UserAttendance returns the acting user's answer for an activity, or nil
func (s *Store) UserAttendance(activityID int64) *types.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	own, ok := s.own[activityID]
	if !ok {
		return nil
	}
	a := own.attendance
	return &a
}

// Count returns how many cached answers an activity has, optionally only
// those with the given status ("" counts all)
func (s *Store) Count(activityID int64, status types.AttendanceStatus) int {
	list := s.ByActivity(activityID)
	if status == "" {
		return len(list)
	}
	n := 0
	for _, a := range list {
		if a.Status == status {
			n++
		}
	}
	return n
}

// StatusLabel returns the display label of an attendance status
func (s *Store) StatusLabel(st types.AttendanceStatus) string {
	return types.AttendanceStatuses.Label(string(st))
}

// StatusColor returns the display color of an attendance status
func (s *Store) StatusColor(st types.AttendanceStatus) string {
	return types.AttendanceStatuses.Color(string(st))
}

// StatusIcon returns the icon of an attendance status
func (s *Store) StatusIcon(st types.AttendanceStatus) string {
	return types.AttendanceStatuses.Icon(string(st))
}

func (s *Store) publish(t events.EventType, activityID int64, msg string) {
	s.broker.Publish(&events.Event{
		Type:     t,
		Message:  msg,
		Metadata: map[string]string{"store": storeName, "activity_id": strconv.FormatInt(activityID, 10)},
	})
}
