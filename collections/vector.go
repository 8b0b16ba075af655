package collections

import (
	"errors"
	"fmt"

	"github.com/govm-net/contract-sdk/keycodec"
	"github.com/govm-net/contract-sdk/storage"
	"github.com/govm-net/contract-sdk/types"
)

// vecLengthSlot is the reserved slot holding the length counter. It is
// a string slot while element keys are u64 slots, so the encoded keys
// can never collide.
const vecLengthSlot = "length"

// ErrIndexOutOfRange reports a Vector.Set beyond the current length.
var ErrIndexOutOfRange = errors.New("collections: index out of range")

// Vector stores elements of type V in index order, plus a length
// counter under a reserved key.
//
// The host offers no multi-key atomic write, so a failure between the
// element write and the counter write inside one invocation can leave
// the two out of sync. The length counter is authoritative: an index at
// or above Len is absent even if stale bytes remain in storage from a
// partially-failed earlier write. That bounds the damage to "logically
// invisible but not reclaimed".
type Vector[V any] struct {
	name  string
	store types.Storage
}

// NewVector declares a vector stored under the given name.
func NewVector[V any](store types.Storage, name string) Vector[V] {
	return Vector[V]{name: name, store: store}
}

// Name returns the collection identity.
func (v Vector[V]) Name() string { return v.name }

func (v Vector[V]) lengthRef() (storage.Ref[uint64], error) {
	return storage.NewRef[uint64](v.store, v.name, vecLengthSlot, types.AccessReadWrite)
}

func (v Vector[V]) elemRef(index uint64) (storage.Ref[V], error) {
	fk, err := keycodec.Encode(v.name, keycodec.U64(index))
	if err != nil {
		return storage.Ref[V]{}, err
	}
	return storage.RefAt[V](v.store, v.name, fk, types.AccessReadWrite), nil
}

// Len returns the authoritative element count. A vector that was never
// written has length zero.
func (v Vector[V]) Len() (uint64, error) {
	ref, err := v.lengthRef()
	if err != nil {
		return 0, err
	}
	length, ok, err := ref.Read()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return length, nil
}

// IsEmpty reports whether the vector has no elements.
func (v Vector[V]) IsEmpty() (bool, error) {
	length, err := v.Len()
	return length == 0, err
}

// Get returns the element at index. Indexes at or above Len are absent
// regardless of what the underlying dictionary holds.
func (v Vector[V]) Get(index uint64) (V, bool, error) {
	var zero V
	length, err := v.Len()
	if err != nil {
		return zero, false, err
	}
	if index >= length {
		return zero, false, nil
	}

	ref, err := v.elemRef(index)
	if err != nil {
		return zero, false, err
	}
	return ref.Read()
}

// Set overwrites the element at an existing index.
func (v Vector[V]) Set(index uint64, value V) error {
	length, err := v.Len()
	if err != nil {
		return err
	}
	if index >= length {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, length)
	}

	ref, err := v.elemRef(index)
	if err != nil {
		return err
	}
	return ref.Write(value)
}

// Push appends value: the element is written at the current length,
// then the counter is incremented. If the counter write is lost the
// element stays invisible and the next Push overwrites it.
func (v Vector[V]) Push(value V) error {
	length, err := v.Len()
	if err != nil {
		return err
	}

	ref, err := v.elemRef(length)
	if err != nil {
		return err
	}
	if err := ref.Write(value); err != nil {
		return err
	}

	lref, err := v.lengthRef()
	if err != nil {
		return err
	}
	return lref.Write(length + 1)
}

// Pop removes and returns the last element. The second return is false
// on an empty vector. The vacated index is tombstoned before the
// counter shrinks, so a lost counter write never resurrects the value.
func (v Vector[V]) Pop() (V, bool, error) {
	var zero V
	length, err := v.Len()
	if err != nil {
		return zero, false, err
	}
	if length == 0 {
		return zero, false, nil
	}

	ref, err := v.elemRef(length - 1)
	if err != nil {
		return zero, false, err
	}
	value, ok, err := ref.Read()
	if err != nil {
		return zero, false, err
	}

	if err := ref.Clear(); err != nil {
		return zero, false, err
	}

	lref, err := v.lengthRef()
	if err != nil {
		return zero, false, err
	}
	if err := lref.Write(length - 1); err != nil {
		return zero, false, err
	}
	return value, ok, nil
}
