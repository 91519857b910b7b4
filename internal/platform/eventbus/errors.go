package eventbus

import (
	"errors"
	"fmt"
)

// ErrNilHandler is the panic value for registering a nil Handler.
var ErrNilHandler = errors.New("eventbus: handler cannot be nil")

// ListenerError wraps the failure of a single listener invocation.
type ListenerError struct {
	ListenerID string
	Topic      Topic
	Kind       Kind
	Err        error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("%s listener %s on %q: %v", e.Kind, e.ListenerID, e.Topic, e.Err)
}

func (e *ListenerError) Unwrap() error { return e.Err }

// PanicError is produced when a handler panics.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// DispatchError describes a fault of the dispatch engine outside any listener.
type DispatchError struct {
	Topic Topic
	Value any
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch of %q failed: %v", e.Topic, e.Value)
}
