// Package attendance caches who answered what for each activity.
//
// Lists are keyed by activity id and exist only once Fetch loaded them.
// Register always records the acting user's own answer, and merges it
// into the activity's list (replacing that user's previous answer) only
// if the list is already loaded.
package attendance
