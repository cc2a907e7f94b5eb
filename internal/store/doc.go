// Package store persists account datasets and implements the data source and
// link service used by a session. Two backends are available: a directory of
// YAML files (one per account) and an embedded BadgerDB database.
//
// Link and unlink requests are validated before any data is read. A request
// that names an unknown product or link is answered with an ERROR outcome
// and leaves the stored links unchanged.
package store
