/*
Package log provides structured logging for brigada using zerolog.

A single package-level Logger is configured once by Init (the CLI does it
from configuration) and shared by every component. Until Init runs the
logger discards everything, so library users and tests stay quiet.

# Usage

	log.Init(log.Config{Level: log.DebugLevel, Output: os.Stderr})

	sessionLog := log.WithComponent("session")
	sessionLog.Info().Int64("user_id", 9).Msg("Profile refreshed")

	storeLog := log.WithStore("activities")
	storeLog.Warn().Err(err).Str("operation", "cancel").Msg("Request failed")

Console output is the default; set JSONOutput for machine-readable logs.

# Security

Never log credentials. The session manager logs user ids and roles, not
tokens, and the HTTP client logs method, path and status only.
*/
package log
