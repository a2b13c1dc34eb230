package types

import (
	"time"
)

// Role identifies what a user is allowed to do in the application
type Role string

const (
	RoleVolunteer   Role = "voluntario"
	RoleCoordinator Role = "coordinador"
	RoleAdmin       Role = "administrador"
)

// ActivityType is the kind of field work an activity represents
type ActivityType string

const (
	ActivityTypeDoorToDoor ActivityType = "casa_a_casa"
	ActivityTypeLeafleting ActivityType = "volanteo"
)

// ActivityStatus is the lifecycle state of an activity
type ActivityStatus string

const (
	ActivityStatusScheduled ActivityStatus = "programada"
	ActivityStatusFinished  ActivityStatus = "finalizada"
	ActivityStatusCancelled ActivityStatus = "cancelada"
)

// AttendanceStatus is a volunteer's answer for an activity
type AttendanceStatus string

const (
	AttendanceWillAttend  AttendanceStatus = "asistira"
	AttendanceWontAttend  AttendanceStatus = "no_asistira"
	AttendanceMightAttend AttendanceStatus = "quizas_asistira"
)

// Activity is a scheduled piece of field work
type Activity struct {
	ID          int64          `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Type        ActivityType   `json:"type" yaml:"type"`
	Status      ActivityStatus `json:"status" yaml:"status"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty" yaml:"scheduled_at,omitempty"`
	Location    string         `json:"location,omitempty" yaml:"location,omitempty"`
	Latitude    *float64       `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	CreatedBy   int64          `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	CreatedAt   *time.Time     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// ActivityInput is the payload for creating or editing an activity.
// Status is server-controlled and changes only through cancel/finish.
type ActivityInput struct {
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Type        ActivityType `json:"type" yaml:"type"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty" yaml:"scheduled_at,omitempty"`
	Location    string       `json:"location,omitempty" yaml:"location,omitempty"`
	Latitude    *float64     `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude   *float64     `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// Attendance is one user's response to one activity
type Attendance struct {
	ID         int64            `json:"id" yaml:"id"`
	ActivityID int64            `json:"activity_id" yaml:"activity_id"`
	UserID     int64            `json:"user_id" yaml:"user_id"`
	Status     AttendanceStatus `json:"status" yaml:"status"`
	CreatedAt  *time.Time       `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// AttendanceRequest registers the acting user's answer for an activity
type AttendanceRequest struct {
	ActivityID int64            `json:"activity_id" yaml:"activity_id"`
	Status     AttendanceStatus `json:"status" yaml:"status"`
}

// User is an account profile as returned by the API
type User struct {
	ID        int64      `json:"id" yaml:"id"`
	Email     string     `json:"email" yaml:"email"`
	FullName  string     `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Role      Role       `json:"role" yaml:"role"`
	IsActive  bool       `json:"is_active" yaml:"is_active"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// UserUpdate carries the editable fields of a user. Nil fields are left out
// of the request body.
type UserUpdate struct {
	FullName *string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Role     *Role   `json:"role,omitempty" yaml:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty" yaml:"is_active,omitempty"`
}

// Invitation grants a role to whoever registers with its token
type Invitation struct {
	ID           int64      `json:"id" yaml:"id"`
	Email        string     `json:"email" yaml:"email"`
	RoleAssigned Role       `json:"role_assigned" yaml:"role_assigned"`
	Token        string     `json:"token,omitempty" yaml:"token,omitempty"`
	IsUsed       bool       `json:"is_used" yaml:"is_used"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Registration is the payload accepted by the registration endpoint
type Registration struct {
	Token    string `json:"token" yaml:"token"`
	Email    string `json:"email" yaml:"email"`
	FullName string `json:"full_name" yaml:"full_name"`
	Password string `json:"password" yaml:"-"`
}

// Page selects a window of a server-side listing
type Page struct {
	Skip  int
	Limit int
}

// DefaultPage is the window used when callers don't pick one
var DefaultPage = Page{Skip: 0, Limit: 100}

// Session is the authentication state owned by the session manager.
// Credential and Identity are independently optional; a session is
// authenticated whenever Credential is non-empty.
type Session struct {
	Credential string `json:"-"`
	Identity   *User  `json:"identity,omitempty"`
}

// Authenticated reports whether a credential is present
func (s Session) Authenticated() bool {
	return s.Credential != ""
}
