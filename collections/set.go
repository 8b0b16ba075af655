package collections

import (
	"github.com/govm-net/contract-sdk/keycodec"
	"github.com/govm-net/contract-sdk/types"
)

// unit is the stored marker for set membership.
type unit struct{}

// Set stores unique keys of type K. It is a Mapping[K, unit] where the
// presence of a live entry means membership; absent and tombstoned
// entries both mean "not a member".
type Set[K keycodec.Key] struct {
	mapping Mapping[K, unit]
}

// NewSet declares a set stored under the given name.
func NewSet[K keycodec.Key](store types.Storage, name string) Set[K] {
	return Set[K]{mapping: NewMapping[K, unit](store, name)}
}

// Name returns the collection identity.
func (s Set[K]) Name() string { return s.mapping.Name() }

// Insert adds key to the set. Inserting an existing member is a no-op.
func (s Set[K]) Insert(key K) error {
	return s.mapping.Set(key, unit{})
}

// Remove drops key from the set.
func (s Set[K]) Remove(key K) error {
	return s.mapping.Remove(key)
}

// Contains reports membership.
func (s Set[K]) Contains(key K) (bool, error) {
	return s.mapping.Contains(key)
}
