// Package activities caches the activity list mirrored from the API and
// derives the filtered and partitioned views user interfaces render.
//
// Fetch replaces the list, Create prepends, and Update/Cancel/Finish
// replace the affected activity in place (and the current activity when
// it is the same one). A change to an activity that isn't cached is
// returned to the caller but not inserted.
//
// Filtered always hides cancelled activities, before any filter is
// applied. Programmed, Finished and Cancelled ignore the filters.
package activities
