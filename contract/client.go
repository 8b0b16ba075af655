package contract

import (
	"errors"
	"fmt"

	"github.com/govm-net/contract-sdk/abi"
	"github.com/govm-net/contract-sdk/types"
)

// Client is the call-site runtime: it encodes arguments against the
// callee's registry, invokes the host call primitive, and decodes the
// typed return. Generated client code wraps Call in per-entrypoint
// typed methods; both sides of the wire come from the same registry.
type Client struct {
	caller   types.Caller
	contract types.ContractID
	registry *abi.Registry
}

// NewClient binds a caller to a destination contract and its registry.
func NewClient(caller types.Caller, contract types.ContractID, registry *abi.Registry) *Client {
	return &Client{caller: caller, contract: contract, registry: registry}
}

// ContractID returns the destination identity.
func (c *Client) ContractID() types.ContractID { return c.contract }

// Call invokes one entrypoint. args follow the declared parameter
// order. Failures come back as *CallError; the caller decides whether
// to retry, abort or compensate.
func (c *Client) Call(entrypoint string, args ...any) (any, error) {
	sig, ok := c.registry.Get(entrypoint)
	if !ok {
		return nil, fmt.Errorf("entrypoint %q not declared for contract %q", entrypoint, c.registry.Contract())
	}

	bag, err := abi.EncodeArgs(sig, args)
	if err != nil {
		return nil, err
	}

	ret, err := c.caller.CallContract(c.contract, entrypoint, bag)
	if err != nil {
		return nil, classify(entrypoint, err)
	}

	value, err := abi.DecodeValue(sig.ReturnType(), ret)
	if err != nil {
		return nil, &CallError{Kind: Undecodable, Entrypoint: entrypoint, Err: err}
	}
	return value, nil
}

// classify maps a host-reported call failure to the typed taxonomy:
// callee reverted with an application code, callee missing or
// unreachable, anything else passes through wrapped.
func classify(entrypoint string, err error) error {
	var rev types.RevertError
	if errors.As(err, &rev) {
		return &CallError{Kind: Reverted, Entrypoint: entrypoint, Code: rev.Code, Err: err}
	}
	if errors.Is(err, types.ErrContractNotFound) || errors.Is(err, types.ErrEntrypointNotFound) {
		return &CallError{Kind: Unreachable, Entrypoint: entrypoint, Err: err}
	}
	return fmt.Errorf("call %q: %w", entrypoint, err)
}

// CallTyped invokes an entrypoint and asserts the declared return type.
// Generated client methods are thin wrappers over this.
func CallTyped[T any](c *Client, entrypoint string, args ...any) (T, error) {
	var zero T
	out, err := c.Call(entrypoint, args...)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	v, ok := out.(T)
	if !ok {
		return zero, &CallError{
			Kind:       Undecodable,
			Entrypoint: entrypoint,
			Err:        fmt.Errorf("declared return decodes to %T, caller expects %T", out, zero),
		}
	}
	return v, nil
}
