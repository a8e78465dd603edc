package core

import (
	"fmt"
)

// DataAccessError is a warehouse execution failure. It carries the failing
// query for diagnostics and surfaces to the user as a formatted message.
type DataAccessError struct {
	Query string
	Err   error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access error: %v", e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }
