// Package session drives a linkage.ViewModel for one account. It loads
// snapshots from a DataSource, submits link and unlink requests to a
// LinkService, applies the authoritative result, and reports outcomes to a
// notify.Notifier.
//
// A Session allows at most one mutation in flight. A failed load clears the
// view; a failed mutation leaves the previous view untouched.
package session
