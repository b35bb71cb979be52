// Package generation defines the contract of the text-generation backend used
// to write the free-text part of an interpretation, and ships the backends
// egralens can talk to. Any backend satisfying Gateway is substitutable.
package generation

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors of the gateway contract. Match them with errors.Is.
var (
	// ErrUnavailable means the backend is not loaded or not reachable.
	// Callers should initialise the backend rather than retry immediately.
	ErrUnavailable = errors.New("generation unavailable")
	// ErrFailed means the backend was invoked but errored mid-call.
	ErrFailed = errors.New("generation failed")
	// ErrLoadInProgress is returned by Load while another load is running.
	ErrLoadInProgress = errors.New("model is already loading")
)

// Gateway is the asynchronous text-generation collaborator.
type Gateway interface {
	// Generate submits a prompt and returns the generated narrative.
	Generate(ctx context.Context, prompt string) (string, error)
	// Status reports whether the backend can currently serve requests.
	Status() Status
}

// State is the readiness of a backend.
type State string

// State constants.
const (
	StateReady       State = "ready"
	StateLoading     State = "loading"
	StateUnavailable State = "unavailable"
)

// Status is a tagged variant: Ready, Loading, or Unavailable with a reason.
type Status struct {
	State  State  `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// Ready reports whether the backend can serve requests now.
func (s Status) Ready() bool { return s.State == StateReady }

// Loading reports whether the backend is initialising.
func (s Status) Loading() bool { return s.State == StateLoading }

// LastError returns the reason of the last failure, or nil. A ready
// backend may still carry the error of its last failed call.
func (s Status) LastError() error {
	if s.Reason == "" {
		return nil
	}
	return errors.New(s.Reason)
}

func (s Status) String() string {
	if s.Reason != "" {
		return fmt.Sprintf("%s (%s)", s.State, s.Reason)
	}
	return string(s.State)
}

// ReadyStatus, LoadingStatus and UnavailableStatus build the three variants.
func ReadyStatus() Status   { return Status{State: StateReady} }
func LoadingStatus() Status { return Status{State: StateLoading} }
func UnavailableStatus(reason string) Status {
	return Status{State: StateUnavailable, Reason: reason}
}

// ErrorKind classifies a gateway failure.
type ErrorKind string

// ErrorKind constants.
const (
	KindUnavailable ErrorKind = "unavailable"
	KindFailed      ErrorKind = "failed"
)

// Error is returned by backends. It matches ErrUnavailable or ErrFailed
// through errors.Is according to Kind, and unwraps to the cause.
type Error struct {
	Backend string
	Kind    ErrorKind
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s backend: generation %s", e.Backend, e.Kind)
	}
	return fmt.Sprintf("%s backend: generation %s: %v", e.Backend, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrFailed:
		return e.Kind == KindFailed
	}
	return false
}

func unavailable(backend string, err error) error {
	return &Error{Backend: backend, Kind: KindUnavailable, Err: err}
}

func failed(backend string, err error) error {
	return &Error{Backend: backend, Kind: KindFailed, Err: err}
}

// KindOf returns the kind of a gateway error. Errors that are neither
// unavailable nor failed are reported as failed.
func KindOf(err error) ErrorKind {
	if errors.Is(err, ErrUnavailable) {
		return KindUnavailable
	}
	return KindFailed
}
