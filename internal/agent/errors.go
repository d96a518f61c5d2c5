package agent

import (
	"errors"
	"fmt"
)

// Kind classifies why a backend call failed
type Kind int

const (
	// KindTransport means the call never completed (dial, timeout, cancel, read)
	KindTransport Kind = iota + 1
	// KindRequestFailed means the backend answered with a non-2xx status
	KindRequestFailed
	// KindInvalidResponse means a 2xx body could not be decoded
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRequestFailed:
		return "request failed"
	case KindInvalidResponse:
		return "invalid response"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against *Error
var (
	ErrTransport       = errors.New("agent: transport error")
	ErrRequestFailed   = errors.New("agent: request failed")
	ErrInvalidResponse = errors.New("agent: invalid response")
)

// Error is the single error type returned by Client operations.
type Error struct {
	Op         string // "send", "profile", "ping"
	Kind       Kind
	StatusCode int    // set for KindRequestFailed
	Detail     string // backend-provided detail, if any
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRequestFailed:
		if e.Detail != "" {
			return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, e.Detail)
		}
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
	case KindTransport:
		return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransport) and friends match by kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrRequestFailed:
		return e.Kind == KindRequestFailed
	case ErrInvalidResponse:
		return e.Kind == KindInvalidResponse
	}
	return false
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// StatusCode extracts the HTTP status from a RequestFailed error
func StatusCode(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRequestFailed {
		return e.StatusCode, true
	}
	return 0, false
}

// KindOf returns the failure kind of err, or 0 when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
