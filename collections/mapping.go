// Package collections presents container semantics (maps, sets,
// vectors) over the host's flat dictionary store. Each collection is
// identified by a name unique within the contract's storage, owns one
// dictionary, and is created lazily on first write.
package collections

import (
	"github.com/govm-net/contract-sdk/keycodec"
	"github.com/govm-net/contract-sdk/storage"
	"github.com/govm-net/contract-sdk/types"
)

// Mapping associates keys of type K with values of type V. Element keys
// are routed through the key codec, so two collections with different
// names never collide even for identical element keys.
type Mapping[K keycodec.Key, V any] struct {
	name  string
	store types.Storage
	mode  types.AccessMode
}

// NewMapping declares a mapping stored under the given name.
func NewMapping[K keycodec.Key, V any](store types.Storage, name string) Mapping[K, V] {
	return Mapping[K, V]{name: name, store: store, mode: types.AccessReadWrite}
}

// ReadOnly returns a view of the mapping that rejects writes.
func (m Mapping[K, V]) ReadOnly() Mapping[K, V] {
	return Mapping[K, V]{name: m.name, store: m.store, mode: types.AccessReadOnly}
}

// Name returns the collection identity.
func (m Mapping[K, V]) Name() string { return m.name }

func (m Mapping[K, V]) ref(key K) (storage.Ref[V], error) {
	fk, err := keycodec.Encode(m.name, key)
	if err != nil {
		return storage.Ref[V]{}, err
	}
	return storage.RefAt[V](m.store, m.name, fk, m.mode), nil
}

// Get returns the value stored under key. The second return is false
// when the key is absent or tombstoned.
func (m Mapping[K, V]) Get(key K) (V, bool, error) {
	ref, err := m.ref(key)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return ref.Read()
}

// Set stores value under key.
func (m Mapping[K, V]) Set(key K, value V) error {
	ref, err := m.ref(key)
	if err != nil {
		return err
	}
	return ref.Write(value)
}

// Remove tombstones the entry under key. Removing an absent key is a
// no-op that still writes the tombstone.
func (m Mapping[K, V]) Remove(key K) error {
	ref, err := m.ref(key)
	if err != nil {
		return err
	}
	return ref.Clear()
}

// Contains reports whether key holds a live value.
func (m Mapping[K, V]) Contains(key K) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}
