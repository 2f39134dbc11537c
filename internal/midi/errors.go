package midi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStatus marks an inbound message whose status byte is not
	// used by the surface. It is logged and dropped.
	ErrUnknownStatus = errors.New("unknown status byte")

	// ErrShortMessage marks an inbound message with fewer than 3 bytes
	ErrShortMessage = errors.New("short message")

	// ErrUnmappedKey marks a key byte that decodes outside the surface
	ErrUnmappedKey = errors.New("key outside surface")

	ErrNoDevice     = errors.New("no matching device port")
	ErrNotConnected = errors.New("not connected")
)

// ConnectionError reports a failure to find or open a device port
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("connection failed: %v", e.Err)
	}
	return fmt.Sprintf("connection to %q failed: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ValidationError reports caller input that would produce a garbled message
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func invalidPosition(p Position) error {
	return &ValidationError{Field: "position", Value: p, Reason: "outside the 9x9 surface"}
}
