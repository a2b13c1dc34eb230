package activities

import (
	"testing"

	"github.com/cuemby/brigada/pkg/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var sample = []types.Activity{
	{ID: 1, Title: "Recorrido Centro", Description: "Casa por casa en el centro", Type: types.ActivityTypeDoorToDoor, Status: types.ActivityStatusScheduled},
	{ID: 2, Title: "Volanteo Mercado", Description: "Entrega de volantes", Type: types.ActivityTypeLeafleting, Status: types.ActivityStatusFinished},
	{ID: 3, Title: "Jornada Norte", Type: types.ActivityTypeDoorToDoor, Status: types.ActivityStatusCancelled},
	{ID: 4, Title: "Caminata", Description: "Reunión en la PLAZA", Type: types.ActivityTypeLeafleting, Status: types.ActivityStatusScheduled},
}

func ids(list []types.Activity) []int64 {
	out := []int64{}
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		filters  Filters
		expected []int64
	}{
		{name: "no filters drops cancelled", filters: Filters{}, expected: []int64{1, 2, 4}},
		{name: "cancelled status filter still empty", filters: Filters{Status: types.ActivityStatusCancelled}, expected: []int64{}},
		{name: "status", filters: Filters{Status: types.ActivityStatusScheduled}, expected: []int64{1, 4}},
		{name: "type", filters: Filters{Type: types.ActivityTypeDoorToDoor}, expected: []int64{1}},
		{name: "search title case-insensitive", filters: Filters{Search: "MERCADO"}, expected: []int64{2}},
		{name: "search description", filters: Filters{Search: "plaza"}, expected: []int64{4}},
		{name: "search matches cancelled title but stays hidden", filters: Filters{Search: "norte"}, expected: []int64{}},
		{name: "combined", filters: Filters{Status: types.ActivityStatusScheduled, Type: types.ActivityTypeLeafleting, Search: "reunión"}, expected: []int64{4}},
		{name: "search accented capitals", filters: Filters{Search: "REUNIÓN"}, expected: []int64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(sample, tt.filters))
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterNeverReturnsCancelled(t *testing.T) {
	all := []Filters{
		{},
		{Status: types.ActivityStatusCancelled},
		{Type: types.ActivityTypeDoorToDoor},
		{Search: "a"},
		{Status: types.ActivityStatusCancelled, Type: types.ActivityTypeDoorToDoor, Search: "jornada"},
	}
	for _, f := range all {
		for _, a := range Filter(sample, f) {
			assert.NotEqual(t, types.ActivityStatusCancelled, a.Status)
		}
	}
}

func TestFilterStateOnStore(t *testing.T) {
	s := NewStore(nil, nil)

	s.SetFilter(FilterStatus, "finalizada")
	s.SetFilter(FilterType, "volanteo")
	s.SetFilter(FilterSearch, "mercado")
	s.SetFilter("unknown", "ignored")
	assert.Equal(t, Filters{Status: types.ActivityStatusFinished, Type: types.ActivityTypeLeafleting, Search: "mercado"}, s.Filters())

	s.ClearFilters()
	assert.Equal(t, Filters{}, s.Filters())
}

func TestPartitionsIgnoreFilters(t *testing.T) {
	s, _ := newTestStore(t, sample)
	s.SetFilter(FilterStatus, "finalizada")

	assert.Equal(t, []int64{1, 4}, ids(s.Programmed()))
	assert.Equal(t, []int64{2}, ids(s.Finished()))
	assert.Equal(t, []int64{3}, ids(s.Cancelled()))
	assert.Equal(t, []int64{2}, ids(s.Filtered()))
}

func TestLabels(t *testing.T) {
	s := NewStore(nil, nil)
	assert.Equal(t, "Casa a Casa", s.TypeLabel(types.ActivityTypeDoorToDoor))
	assert.Equal(t, "primary", s.TypeColor(types.ActivityTypeDoorToDoor))
	assert.Equal(t, "Programada", s.StatusLabel(types.ActivityStatusScheduled))
	assert.Equal(t, "cancelada", s.StatusLabel(types.ActivityStatusCancelled))
	assert.Equal(t, types.FallbackColor, s.StatusColor("otro"))
	assert.Equal(t, "otro", s.TypeLabel("otro"))
}
