package storage

import (
	"fmt"

	"github.com/govm-net/contract-sdk/keycodec"
	"github.com/govm-net/contract-sdk/types"
)

// AccessErrorKind classifies failures of a typed reference.
type AccessErrorKind int

const (
	// Unreadable: the reference's access tag does not permit reads.
	Unreadable AccessErrorKind = iota + 1
	// Unwritable: the reference's access tag does not permit writes.
	Unwritable
	// TypeMismatch: the stored bytes do not decode as the declared type.
	TypeMismatch
)

func (k AccessErrorKind) String() string {
	switch k {
	case Unreadable:
		return "unreadable"
	case Unwritable:
		return "unwritable"
	case TypeMismatch:
		return "type mismatch"
	default:
		return "unknown"
	}
}

// AccessError reports a failed read or write through a typed reference.
type AccessError struct {
	Kind AccessErrorKind
	Slot string
	Err  error
}

func (e *AccessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage %s: slot %q: %v", e.Kind, e.Slot, e.Err)
	}
	return fmt.Sprintf("storage %s: slot %q", e.Kind, e.Slot)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Ref is a typed reference to one storage slot: a dictionary entry
// annotated with a compile-time value type and an intended access mode.
//
// A Ref holds no cached state. Each Read and Write resolves the
// dictionary reference anew: a contract invocation may be the only call
// in its execution context, and nothing cached here could be
// invalidated by a later invocation that does not share state.
type Ref[T any] struct {
	store types.Storage
	dict  string
	key   types.FixedKey
	mode  types.AccessMode
}

// NewRef declares a typed slot named within a dictionary. The slot name
// is routed through the key codec, so slots and collection elements in
// the same dictionary can never collide.
func NewRef[T any](store types.Storage, dict, slot string, mode types.AccessMode) (Ref[T], error) {
	key, err := keycodec.Encode(dict, keycodec.Str(slot))
	if err != nil {
		return Ref[T]{}, err
	}
	return RefAt[T](store, dict, key, mode), nil
}

// RefAt builds a typed reference over an already-encoded dictionary key.
// The collections package uses this for element slots.
func RefAt[T any](store types.Storage, dict string, key types.FixedKey, mode types.AccessMode) Ref[T] {
	return Ref[T]{store: store, dict: dict, key: key, mode: mode}
}

// Read returns the value stored in the slot. The second return is false
// when the slot was never written or holds a tombstone.
func (r Ref[T]) Read() (T, bool, error) {
	var zero T
	if !r.mode.CanRead() {
		return zero, false, &AccessError{Kind: Unreadable, Slot: r.dict}
	}

	ref, ok, err := r.store.GetDictionary(r.dict)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		// Collections are created lazily on first write; nothing written
		// yet means every slot is absent.
		return zero, false, nil
	}
	if !ref.Access.CanRead() {
		return zero, false, &AccessError{Kind: Unreadable, Slot: r.dict}
	}

	data, ok, err := r.store.DictionaryGet(ref, r.key)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		return zero, false, nil
	}

	var value T
	present, err := UnmarshalValue(data, &value)
	if err != nil {
		// Defensive: the happy path is statically type-matched, but
		// storage corruption or schema drift must surface, not default.
		return zero, false, &AccessError{Kind: TypeMismatch, Slot: r.dict, Err: err}
	}
	if !present {
		return zero, false, nil
	}
	return value, true, nil
}

// Write stores value in the slot, creating the dictionary on first use.
func (r Ref[T]) Write(value T) error {
	data, err := MarshalValue(value)
	if err != nil {
		return err
	}
	return r.put(data)
}

// Clear tombstones the slot. The host key-space is not reclaimed.
func (r Ref[T]) Clear() error {
	return r.put(Tombstone())
}

func (r Ref[T]) put(data []byte) error {
	if !r.mode.CanWrite() {
		return &AccessError{Kind: Unwritable, Slot: r.dict}
	}

	ref, err := EnsureDictionary(r.store, r.dict)
	if err != nil {
		return err
	}
	if !ref.Access.CanWrite() {
		return &AccessError{Kind: Unwritable, Slot: r.dict}
	}
	return r.store.DictionaryPut(ref, r.key, data)
}

// EnsureDictionary resolves a dictionary by name, creating it if no
// dictionary exists under the name yet.
func EnsureDictionary(store types.Storage, name string) (types.DictRef, error) {
	ref, ok, err := store.GetDictionary(name)
	if err != nil {
		return types.DictRef{}, err
	}
	if ok {
		return ref, nil
	}
	return store.NewDictionary(name)
}
