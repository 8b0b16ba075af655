package abi

import (
	"encoding/json"
	"fmt"

	"github.com/govm-net/contract-sdk/types"
)

// DecodeErrorKind classifies argument bag decode failures.
type DecodeErrorKind int

const (
	// Missing: a required parameter is absent from the bag. Decode never
	// substitutes a default value.
	Missing DecodeErrorKind = iota + 1
	// TypeMismatch: the parameter is present but its bytes do not decode
	// as the declared type.
	TypeMismatch
)

func (k DecodeErrorKind) String() string {
	switch k {
	case Missing:
		return "missing"
	case TypeMismatch:
		return "type mismatch"
	default:
		return "unknown"
	}
}

// DecodeError reports a malformed incoming argument bag. It is an
// application-level rejection, never a host fault.
type DecodeError struct {
	Name string
	Kind DecodeErrorKind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("argument %q: %s: %v", e.Name, e.Kind, e.Err)
	}
	return fmt.Sprintf("argument %q: %s", e.Name, e.Kind)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeValue encodes one typed value for the wire. The Go dynamic type
// must match the declared wire type exactly; call-sites are generated
// from the signature so a mismatch is a programming error surfaced
// before anything reaches the host.
func EncodeValue(t Type, value any) ([]byte, error) {
	switch t {
	case TypeUnit, "":
		if value != nil {
			return nil, fmt.Errorf("unit value must be nil, got %T", value)
		}
		return json.Marshal(nil)
	case TypeBool:
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", value)
		}
		return json.Marshal(v)
	case TypeU64:
		v, ok := value.(uint64)
		if !ok {
			return nil, fmt.Errorf("expected uint64, got %T", value)
		}
		return json.Marshal(v)
	case TypeI64:
		v, ok := value.(int64)
		if !ok {
			return nil, fmt.Errorf("expected int64, got %T", value)
		}
		return json.Marshal(v)
	case TypeString:
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return json.Marshal(v)
	case TypeBytes:
		v, ok := value.([]byte)
		if !ok {
			return nil, fmt.Errorf("expected []byte, got %T", value)
		}
		return json.Marshal(v)
	case TypeAddress:
		v, ok := value.(types.Address)
		if !ok {
			return nil, fmt.Errorf("expected types.Address, got %T", value)
		}
		return json.Marshal(v)
	case TypeContract:
		v, ok := value.(types.ContractID)
		if !ok {
			return nil, fmt.Errorf("expected types.ContractID, got %T", value)
		}
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("unknown wire type %q", t)
	}
}

// DecodeValue decodes one wire value into the Go representation of the
// declared type: uint64 for u64, []byte for bytes, and so on.
func DecodeValue(t Type, data []byte) (any, error) {
	switch t {
	case TypeUnit, "":
		return nil, nil
	case TypeBool:
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeU64:
		var v uint64
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeI64:
		var v int64
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeString:
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeBytes:
		var v []byte
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeAddress:
		var v types.Address
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeContract:
		var v types.ContractID
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown wire type %q", t)
	}
}

// EncodeArgs builds the argument bag for one call against a signature.
// values follow the declared parameter order.
func EncodeArgs(sig Signature, values []any) (types.ArgumentBag, error) {
	if len(values) != len(sig.Params) {
		return nil, fmt.Errorf("entrypoint %q takes %d arguments, got %d", sig.Name, len(sig.Params), len(values))
	}
	bag := make(types.ArgumentBag, len(sig.Params))
	for i, p := range sig.Params {
		data, err := EncodeValue(p.Type, values[i])
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", p.Name, err)
		}
		bag[p.Name] = data
	}
	return bag, nil
}

// DecodeArgs decodes an incoming bag against a signature, returning the
// values in declared parameter order.
//
// Decode is strict where it matters and lenient where it must be:
// a missing required parameter or a wrong shape fails, while extra
// entries are ignored so newer callers can send fields this signature
// does not know about.
func DecodeArgs(sig Signature, bag types.ArgumentBag) ([]any, error) {
	values := make([]any, len(sig.Params))
	for i, p := range sig.Params {
		data, ok := bag[p.Name]
		if !ok {
			return nil, &DecodeError{Name: p.Name, Kind: Missing}
		}
		v, err := DecodeValue(p.Type, data)
		if err != nil {
			return nil, &DecodeError{Name: p.Name, Kind: TypeMismatch, Err: err}
		}
		values[i] = v
	}
	return values, nil
}
