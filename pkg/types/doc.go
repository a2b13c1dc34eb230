/*
Package types defines the data structures shared by every brigada package.

It holds the entities mirrored from the API (activities, attendance
records, users, invitations), their closed enumerations, the session
snapshot owned by the session manager, and the presentation tables
(labels, colors, icons) that user interfaces read.

# Core Types

  - Activity, ActivityInput: field work and the payload to create/edit it
  - Attendance, AttendanceRequest: a user's answer for an activity
  - User, UserUpdate: account profiles and their editable fields
  - Invitation, Registration: invitation-based onboarding
  - Session: credential plus optional identity

JSON tags follow the API's snake_case wire format. YAML tags are used by
the CLI for -o yaml output and -f input files.

# Presentation Tables

OptionSet lookups are total functions: an unknown value returns the raw
value as its label and FallbackColor as its color. They are never used
for control flow.

	types.Roles.Label("coordinador")   // "Coordinador"
	types.Roles.Color("superuser")     // "neutral"
	types.ActivityStatuses.Label("x")  // "x"
*/
package types
