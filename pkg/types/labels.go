package types

// Option describes how an enum value is presented to people
type Option struct {
	Value string
	Label string
	Color string
	Icon  string
}

// FallbackColor is returned for values missing from a color table
const FallbackColor = "neutral"

// OptionSet is an ordered lookup table of presentation metadata
type OptionSet []Option

var (
	ActivityTypes = OptionSet{
		{Value: string(ActivityTypeDoorToDoor), Label: "Casa a Casa", Color: "primary"},
		{Value: string(ActivityTypeLeafleting), Label: "Volanteo", Color: "secondary"},
	}

	ActivityStatuses = OptionSet{
		{Value: string(ActivityStatusScheduled), Label: "Programada", Color: "info"},
		{Value: string(ActivityStatusFinished), Label: "Finalizada", Color: "success"},
	}

	AttendanceStatuses = OptionSet{
		{Value: string(AttendanceWillAttend), Label: "Asistiré", Color: "success", Icon: "✓"},
		{Value: string(AttendanceWontAttend), Label: "No asistiré", Color: "error", Icon: "✗"},
		{Value: string(AttendanceMightAttend), Label: "Quizás asista", Color: "warning", Icon: "?"},
	}

	Roles = OptionSet{
		{Value: string(RoleVolunteer), Label: "Voluntario", Color: "info"},
		{Value: string(RoleCoordinator), Label: "Coordinador", Color: "warning"},
		{Value: string(RoleAdmin), Label: "Administrador", Color: "error"},
	}
)

func (s OptionSet) find(value string) (Option, bool) {
	for _, o := range s {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Label returns the display label for value, or value itself when unknown
func (s OptionSet) Label(value string) string {
	if o, ok := s.find(value); ok && o.Label != "" {
		return o.Label
	}
	return value
}

// Color returns the display color for value, or FallbackColor when unknown
func (s OptionSet) Color(value string) string {
	if o, ok := s.find(value); ok && o.Color != "" {
		return o.Color
	}
	return FallbackColor
}

// Icon returns the icon for value, or "" when unknown
func (s OptionSet) Icon(value string) string {
	o, _ := s.find(value)
	return o.Icon
}
