package activities

import (
	"strings"

	"github.com/cuemby/brigada/pkg/types"
	"golang.org/x/text/cases"
)

// FilterKey names one field of Filters
type FilterKey string

const (
	FilterStatus FilterKey = "status"
	FilterType   FilterKey = "type"
	FilterSearch FilterKey = "search"
)

// Filters narrows the Filtered view. Zero values mean "no filter". They
// are local UI state and are never sent to the server.
type Filters struct {
	Status types.ActivityStatus
	Type   types.ActivityType
	Search string
}

// Filters returns the current filters
func (s *Store) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilter sets one filter field. Unknown keys are ignored.
func (s *Store) SetFilter(key FilterKey, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch key {
	case FilterStatus:
		s.filters.Status = types.ActivityStatus(value)
	case FilterType:
		s.filters.Type = types.ActivityType(value)
	case FilterSearch:
		s.filters.Search = value
	}
}

// ClearFilters resets every filter
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = Filters{}
}

// Filtered returns the cached activities matching the filters. Cancelled
// activities are never included, whatever the filters say.
func (s *Store) Filtered() []types.Activity {
	return Filter(s.list.Items(), s.Filters())
}

// Filter applies f to activities in a fixed order: drop cancelled, then
// status, then type, then a case-insensitive search over title and
// description.
func Filter(activities []types.Activity, f Filters) []types.Activity {
	var needle string
	folder := cases.Fold()
	if f.Search != "" {
		needle = folder.String(f.Search)
	}

	out := make([]types.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Status == types.ActivityStatusCancelled {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if needle != "" &&
			!strings.Contains(folder.String(a.Title), needle) &&
			!strings.Contains(folder.String(a.Description), needle) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Programmed returns every scheduled activity, ignoring the filters
func (s *Store) Programmed() []types.Activity {
	return byStatus(s.list.Items(), types.ActivityStatusScheduled)
}

// Finished returns every finished activity, ignoring the filters
func (s *Store) Finished() []types.Activity {
	return byStatus(s.list.Items(), types.ActivityStatusFinished)
}

// Cancelled returns every cancelled activity, ignoring the filters
func (s *Store) Cancelled() []types.Activity {
	return byStatus(s.list.Items(), types.ActivityStatusCancelled)
}

func byStatus(activities []types.Activity, status types.ActivityStatus) []types.Activity {
	out := []types.Activity{}
	for _, a := range activities {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// TypeLabel returns the display label of an activity type
func (s *Store) TypeLabel(t types.ActivityType) string {
	return types.ActivityTypes.Label(string(t))
}

// TypeColor returns the display color of an activity type
func (s *Store) TypeColor(t types.ActivityType) string {
	return types.ActivityTypes.Color(string(t))
}

// StatusLabel returns the display label of an activity status
func (s *Store) StatusLabel(st types.ActivityStatus) string {
	return types.ActivityStatuses.Label(string(st))
}

// StatusColor returns the display color of an activity status
func (s *Store) StatusColor(st types.ActivityStatus) string {
	return types.ActivityStatuses.Color(string(st))
}
