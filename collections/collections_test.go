package collections_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/contract-sdk/collections"
	"github.com/govm-net/contract-sdk/host"
	"github.com/govm-net/contract-sdk/host/memory"
	"github.com/govm-net/contract-sdk/keycodec"
	"github.com/govm-net/contract-sdk/storage"
	"github.com/govm-net/contract-sdk/types"
)

func setupStore() host.Backend {
	return memory.NewHost(nil)
}

func TestMappingSetGet(t *testing.T) {
	store := setupStore()
	balances := collections.NewMapping[keycodec.Str, uint64](store, "balances")

	_, ok, err := balances.Get("alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, balances.Set("alice", 100))

	value, ok, err := balances.Get("alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(100), value)

	// Overwrite
	require.NoError(t, balances.Set("alice", 250))
	value, _, err = balances.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(250), value)
}

func TestMappingRemove(t *testing.T) {
	store := setupStore()
	balances := collections.NewMapping[keycodec.Str, uint64](store, "balances")

	require.NoError(t, balances.Set("bob", 5))
	require.NoError(t, balances.Remove("bob"))

	_, ok, err := balances.Get("bob")
	require.NoError(t, err)
	assert.False(t, ok)

	contains, err := balances.Contains("bob")
	require.NoError(t, err)
	assert.False(t, contains)

	// Removing an absent key is fine.
	require.NoError(t, balances.Remove("nobody"))
}

func TestMappingContainsMatchesGet(t *testing.T) {
	store := setupStore()
	m := collections.NewMapping[keycodec.U64, string](store, "names")

	keys := []keycodec.U64{0, 1, 7, 1 << 40}
	require.NoError(t, m.Set(1, "one"))
	require.NoError(t, m.Set(7, "seven"))
	require.NoError(t, m.Set(1<<40, "big"))
	require.NoError(t, m.Remove(7))

	for _, k := range keys {
		_, ok, err := m.Get(k)
		require.NoError(t, err)
		contains, err := m.Contains(k)
		require.NoError(t, err)
		assert.Equal(t, ok, contains, "key %d", k)
	}
}

func TestMappingsAreDisjoint(t *testing.T) {
	store := setupStore()
	a := collections.NewMapping[keycodec.U64, uint64](store, "alpha")
	b := collections.NewMapping[keycodec.U64, uint64](store, "beta")

	require.NoError(t, a.Set(1, 10))
	require.NoError(t, b.Set(1, 20))

	va, _, err := a.Get(1)
	require.NoError(t, err)
	vb, _, err := b.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), va)
	assert.Equal(t, uint64(20), vb)
}

func TestMappingReadOnly(t *testing.T) {
	store := setupStore()
	m := collections.NewMapping[keycodec.Str, uint64](store, "balances")
	require.NoError(t, m.Set("alice", 1))

	view := m.ReadOnly()
	value, ok, err := view.Get("alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), value)

	err = view.Set("alice", 2)
	var accessErr *storage.AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, storage.Unwritable, accessErr.Kind)
}

func TestMappingTupleKeys(t *testing.T) {
	store := setupStore()
	allowances := collections.NewMapping[keycodec.Tuple, uint64](store, "allowances")

	owner := keycodec.Str("alice")
	spender := keycodec.Str("bob")
	require.NoError(t, allowances.Set(keycodec.Tuple{owner, spender}, 50))

	value, ok, err := allowances.Get(keycodec.Tuple{owner, spender})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(50), value)

	_, ok, err = allowances.Get(keycodec.Tuple{spender, owner})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSet(t *testing.T) {
	store := setupStore()
	admins := collections.NewSet[keycodec.Str](store, "admins")

	contains, err := admins.Contains("alice")
	require.NoError(t, err)
	assert.False(t, contains)

	require.NoError(t, admins.Insert("alice"))
	contains, err = admins.Contains("alice")
	require.NoError(t, err)
	assert.True(t, contains)

	// Re-inserting is a no-op.
	require.NoError(t, admins.Insert("alice"))

	require.NoError(t, admins.Remove("alice"))
	contains, err = admins.Contains("alice")
	require.NoError(t, err)
	assert.False(t, contains)
}

func TestVectorPushPop(t *testing.T) {
	store := setupStore()
	v := collections.NewVector[string](store, "log")

	length, err := v.Len()
	require.NoError(t, err)
	assert.Zero(t, length)

	require.NoError(t, v.Push("first"))
	require.NoError(t, v.Push("second"))

	length, err = v.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), length)

	e0, ok, err := v.Get(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "first", e0)

	e1, ok, err := v.Get(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", e1)

	popped, ok, err := v.Pop()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", popped)

	length, err = v.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), length)

	_, ok, err = v.Get(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVectorPopEmpty(t *testing.T) {
	store := setupStore()
	v := collections.NewVector[uint64](store, "empty")

	_, ok, err := v.Pop()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVectorSet(t *testing.T) {
	store := setupStore()
	v := collections.NewVector[uint64](store, "values")

	require.NoError(t, v.Push(1))
	require.NoError(t, v.Push(2))
	require.NoError(t, v.Set(0, 9))

	e0, _, err := v.Get(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), e0)

	err = v.Set(2, 3)
	assert.ErrorIs(t, err, collections.ErrIndexOutOfRange)
}

// A write that lands after the element write but before the counter
// write leaves a stray element in storage. The length counter stays
// authoritative: the stray is invisible and the next push replaces it.
func TestVectorLengthIsAuthoritative(t *testing.T) {
	store := setupStore()
	v := collections.NewVector[string](store, "log")

	require.NoError(t, v.Push("committed"))

	// Simulate the failed second push: element written, counter not.
	strayKey, err := keycodec.Encode("log", keycodec.U64(1))
	require.NoError(t, err)
	stray := storage.RefAt[string](store, "log", strayKey, types.AccessReadWrite)
	require.NoError(t, stray.Write("stray"))

	length, err := v.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), length)

	_, ok, err := v.Get(1)
	require.NoError(t, err)
	assert.False(t, ok, "index at len() must be absent despite stray bytes")

	_, ok, err = v.Pop()
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = v.Pop()
	require.NoError(t, err)
	assert.False(t, ok, "stray element must not be poppable")

	// A later push claims the stray index cleanly.
	require.NoError(t, v.Push("a"))
	require.NoError(t, v.Push("b"))
	e1, ok, err := v.Get(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", e1)
}
