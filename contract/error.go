// Package contract holds the runtime halves of the generated code: the
// export dispatch table (entrypoint wrapper side) and the typed client
// (call-site side), plus the application error model shared by both.
package contract

import (
	"fmt"
)

// UserErrorBase is the first code available to SDK-reserved application
// errors. User contracts report their own codes below this range.
const UserErrorBase uint16 = 56900

// Reserved SDK error codes. Stable: deployed callers match on them.
const (
	CodePanic              = UserErrorBase     // user function panicked
	CodeInvalidContext     = UserErrorBase + 1 // entrypoint not known to this contract
	CodeBadArgument        = UserErrorBase + 2 // argument bag rejected by decode
	CodeUnencodableReturn  = UserErrorBase + 3 // return value failed to encode
	CodeUnclassifiedRevert = UserErrorBase + 4 // user error with no declared code
)

// Error is an application-level rejection with a stable numeric code.
// It crosses the host boundary on the standard application-error
// channel, never as an opaque crash.
type Error struct {
	Code uint16
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("contract error %d", e.Code)
	}
	return fmt.Sprintf("contract error %d: %s", e.Code, e.Msg)
}

// Errf builds an application error with a formatted message. The
// message is diagnostic only; the code is what crosses the host
// boundary.
func Errf(code uint16, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CallErrorKind classifies the outcome of a nested cross-contract call.
type CallErrorKind int

const (
	// Reverted: the callee rejected the call with an application code.
	Reverted CallErrorKind = iota + 1
	// Unreachable: the callee or entrypoint does not exist.
	Unreachable
	// Undecodable: the callee returned bytes that do not decode as the
	// declared return type.
	Undecodable
)

func (k CallErrorKind) String() string {
	switch k {
	case Reverted:
		return "reverted"
	case Unreachable:
		return "unreachable"
	case Undecodable:
		return "undecodable"
	default:
		return "unknown"
	}
}

// CallError is the typed result of a failed cross-contract call. It is
// recoverable: the caller decides whether to retry, abort or
// compensate. Only a host-level trap unwinds the invocation.
type CallError struct {
	Kind       CallErrorKind
	Entrypoint string
	Code       uint16 // set when Kind == Reverted
	Err        error
}

func (e *CallError) Error() string {
	switch e.Kind {
	case Reverted:
		return fmt.Sprintf("call %q reverted with code %d", e.Entrypoint, e.Code)
	case Unreachable:
		return fmt.Sprintf("call %q unreachable: %v", e.Entrypoint, e.Err)
	case Undecodable:
		return fmt.Sprintf("call %q returned undecodable value: %v", e.Entrypoint, e.Err)
	default:
		return fmt.Sprintf("call %q failed: %v", e.Entrypoint, e.Err)
	}
}

func (e *CallError) Unwrap() error { return e.Err }
