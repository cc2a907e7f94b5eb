// Package linkage reconciles an account's product catalog with its mandatory
// product links into the rows shown to an operator. It selects the initial
// view mode, filters already-linked products out of the catalog view, and
// computes the identifiers to submit when linking or unlinking a selection.
//
// Everything in this package is a pure function over in-memory snapshots.
// ViewModel values are immutable: every transition returns a new value and
// never mutates the product or link collections it was built from.
package linkage
