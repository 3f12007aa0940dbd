package search

import (
	"errors"
	"fmt"
)

// ErrLookupFailed matches every failed lookup, whatever the cause.
var ErrLookupFailed = errors.New("lookup failed")

// LookupError is a failed lookup for Query. Err is the transport, status or
// timeout error returned by the service.
type LookupError struct {
	Query string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %q failed: %v", e.Query, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool { return target == ErrLookupFailed }
