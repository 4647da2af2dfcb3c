package provider

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed provider call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindConfiguration is a missing credential, raised before any network call.
	KindConfiguration
	// KindNetwork is a transport failure, timeout, or unreachable local daemon.
	KindNetwork
	// KindProtocol is a response body that is not valid JSON.
	KindProtocol
	// KindInvalidResponse is valid JSON missing the expected content path.
	KindInvalidResponse
	// KindProvider is an error payload reported by the provider itself.
	KindProvider
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNetwork:
		return "network"
	case KindProtocol:
		return "protocol"
	case KindInvalidResponse:
		return "invalid_response"
	case KindProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// Error is the uniform failure returned by every adapter.
type Error struct {
	Kind     ErrorKind
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so sentinel kinds work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Provider == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinel values for errors.Is checks against a kind.
var (
	ErrConfiguration   = &Error{Kind: KindConfiguration}
	ErrNetwork         = &Error{Kind: KindNetwork}
	ErrProtocol        = &Error{Kind: KindProtocol}
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse}
	ErrProvider        = &Error{Kind: KindProvider}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// MissingKey builds the configuration error for an absent API key.
func MissingKey(name string) *Error {
	return &Error{Kind: KindConfiguration, Provider: name, Message: "API key not provided"}
}

// InvalidResponse builds the error for JSON missing the expected content path.
func InvalidResponse(name, path string, status int) *Error {
	msg := fmt.Sprintf("invalid response: missing %s", path)
	if status != 0 && (status < 200 || status >= 300) {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, status)
	}
	return &Error{Kind: KindInvalidResponse, Provider: name, Message: msg}
}

// ProtocolFailure builds the error for a body that could not be decoded.
func ProtocolFailure(name string, err error) *Error {
	return &Error{Kind: KindProtocol, Provider: name, Message: "failed to parse response", Err: err}
}
