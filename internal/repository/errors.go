// Package repository implements MySQL data access. Each repository wraps
// *sql.DB and exposes Tx variants for the operations that take part in
// the booking transaction. Not-found sentinels live next to the
// repository that returns them; this file holds the errors shared by
// several repositories.
package repository

import "errors"

// ErrCounterBound is returned by capacity/uses adjustments whose SQL
// guard rejected the change because it would push a counter outside
// its 0..max range. Seeing it means a caller mutated a counter
// without re-validating under the row lock first.
var ErrCounterBound = errors.New("counter out of bounds")
