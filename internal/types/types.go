// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage backends and response helpers can all import types
// without depending on each other.
package types

// Friend is the only record this service stores.
//
// Struct tags serve two purposes:
//
//  1. json:"..."     — the field name on the wire (camelCase, as clients
//     send it).
//  2. validate:"..." — rules checked by go-playground/validator before
//     any write reaches a store.
//
// ID is opaque: each storage backend decides its format.
type Friend struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Age       int    `json:"age"       validate:"min=1,max=120"`
}

// Age bounds, inclusive.
const (
	MinAge = 1
	MaxAge = 120
)
