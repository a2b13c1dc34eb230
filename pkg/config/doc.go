// Package config resolves client settings from flags, BRIGADA_*
// environment variables, an optional brigada.yaml and defaults, in that
// order of precedence.
package config
