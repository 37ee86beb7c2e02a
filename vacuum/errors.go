package vacuum

import (
	"errors"
	"fmt"
)

// ErrMapNotFound is returned by Transport implementations when the device
// has no stored map for the requested id.
var ErrMapNotFound = errors.New("map not found")

// errRejected marks a command whose precondition failed. Rejections are
// logged and dropped, never sent.
var errRejected = errors.New("command rejected")

// MalformedValueError reports a status field whose value is present but
// cannot be parsed into its expected type. Unlike an absent field, this is
// surfaced to the caller since it indicates protocol drift.
type MalformedValueError struct {
	Key   string
	Value any
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed status field %s: %v", e.Key, e.Value)
}
