package contract

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/govm-net/contract-sdk/abi"
	"github.com/govm-net/contract-sdk/types"
)

// HandlerFunc is the user-side body of one entrypoint. args arrive in
// declared parameter order with the Go types the abi package decodes
// to. The returned value must match the declared return type; a
// returned error becomes an application-level revert.
type HandlerFunc func(args []any) (any, error)

// Exports is the host-facing export table of one contract: the runtime
// form of the entrypoint wrapper. It decodes incoming bags against the
// registry, invokes the user function, and encodes the result or maps
// the error onto the application-error channel.
type Exports struct {
	registry *abi.Registry
	handlers map[string]HandlerFunc
}

// NewExports creates an empty export table bound to a registry.
func NewExports(registry *abi.Registry) *Exports {
	return &Exports{
		registry: registry,
		handlers: make(map[string]HandlerFunc),
	}
}

// Registry returns the signature registry the table was built from.
func (e *Exports) Registry() *abi.Registry { return e.registry }

// Handle binds the user function for one declared entrypoint.
func (e *Exports) Handle(name string, fn HandlerFunc) error {
	if _, ok := e.registry.Get(name); !ok {
		return fmt.Errorf("entrypoint %q not declared in registry", name)
	}
	if _, dup := e.handlers[name]; dup {
		return fmt.Errorf("entrypoint %q already has a handler", name)
	}
	e.handlers[name] = fn
	return nil
}

// Validate checks every declared signature has a handler. Run at
// install time so a missing binding fails deployment, not a live call.
func (e *Exports) Validate() error {
	for _, sig := range e.registry.Signatures() {
		if _, ok := e.handlers[sig.Name]; !ok {
			return fmt.Errorf("entrypoint %q declared but not handled", sig.Name)
		}
	}
	return nil
}

// Invoke implements types.Invoker. Every failure it reports is a
// types.RevertError carrying a stable code; the host forwards it on the
// application-error channel.
func (e *Exports) Invoke(entrypoint string, args types.ArgumentBag) ([]byte, error) {
	sig, ok := e.registry.Get(entrypoint)
	if !ok {
		return nil, types.RevertError{Code: CodeInvalidContext}
	}
	fn, ok := e.handlers[entrypoint]
	if !ok {
		return nil, types.RevertError{Code: CodeInvalidContext}
	}

	decoded, err := abi.DecodeArgs(sig, args)
	if err != nil {
		// Malformed input is an application rejection, not a host fault.
		slog.Debug("rejected call", "entrypoint", entrypoint, "error", err)
		return nil, types.RevertError{Code: CodeBadArgument}
	}

	out, err := e.invokeHandler(entrypoint, fn, decoded)
	if err != nil {
		return nil, toRevert(err)
	}

	encoded, err := abi.EncodeValue(sig.ReturnType(), out)
	if err != nil {
		slog.Error("return value failed to encode", "entrypoint", entrypoint, "error", err)
		return nil, types.RevertError{Code: CodeUnencodableReturn}
	}
	return encoded, nil
}

// invokeHandler runs the user function with a panic guard: a panicking
// handler reverts with CodePanic instead of taking down the host side.
func (e *Exports) invokeHandler(entrypoint string, fn HandlerFunc, args []any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("entrypoint panicked", "entrypoint", entrypoint, "panic", r)
			out = nil
			err = types.RevertError{Code: CodePanic}
		}
	}()
	return fn(args)
}

// toRevert maps a user error onto the host's application-error channel.
func toRevert(err error) error {
	var app *Error
	if errors.As(err, &app) {
		return types.RevertError{Code: app.Code}
	}
	var rev types.RevertError
	if errors.As(err, &rev) {
		return rev
	}
	return types.RevertError{Code: CodeUnclassifiedRevert}
}
