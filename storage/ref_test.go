package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/contract-sdk/host"
	"github.com/govm-net/contract-sdk/host/memory"
	"github.com/govm-net/contract-sdk/keycodec"
	"github.com/govm-net/contract-sdk/storage"
	"github.com/govm-net/contract-sdk/types"
)

func setupStore() host.Backend {
	return memory.NewHost(nil)
}

func TestRefReadWrite(t *testing.T) {
	store := setupStore()
	ref, err := storage.NewRef[uint64](store, "state", "total_supply", types.AccessReadWrite)
	require.NoError(t, err)

	// Absent before any write; the dictionary does not exist yet.
	_, ok, err := ref.Read()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ref.Write(1000))

	value, ok, err := ref.Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1000), value)
}

func TestRefClearTombstones(t *testing.T) {
	store := setupStore()
	ref, err := storage.NewRef[string](store, "state", "note", types.AccessReadWrite)
	require.NoError(t, err)

	require.NoError(t, ref.Write("hello"))
	require.NoError(t, ref.Clear())

	_, ok, err := ref.Read()
	require.NoError(t, err)
	assert.False(t, ok)

	// The slot is writable again after the tombstone.
	require.NoError(t, ref.Write("again"))
	value, ok, err := ref.Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "again", value)
}

func TestRefAccessModes(t *testing.T) {
	store := setupStore()

	rw, err := storage.NewRef[uint64](store, "state", "counter", types.AccessReadWrite)
	require.NoError(t, err)
	require.NoError(t, rw.Write(1))

	ro, err := storage.NewRef[uint64](store, "state", "counter", types.AccessReadOnly)
	require.NoError(t, err)

	value, ok, err := ro.Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), value)

	err = ro.Write(2)
	var accessErr *storage.AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, storage.Unwritable, accessErr.Kind)

	wo, err := storage.NewRef[uint64](store, "state", "counter", types.AccessWrite)
	require.NoError(t, err)
	_, _, err = wo.Read()
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, storage.Unreadable, accessErr.Kind)
}

func TestRefTypeMismatch(t *testing.T) {
	store := setupStore()
	ref, err := storage.NewRef[uint64](store, "state", "counter", types.AccessReadWrite)
	require.NoError(t, err)
	require.NoError(t, ref.Write(5))

	// Corrupt the stored bytes underneath the typed reference.
	key, err := keycodec.Encode("state", keycodec.Str("counter"))
	require.NoError(t, err)
	dict, ok, err := store.GetDictionary("state")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.DictionaryPut(dict, key, []byte("garbage")))

	_, _, err = ref.Read()
	var accessErr *storage.AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, storage.TypeMismatch, accessErr.Kind)

	// Wrong inner shape is also a mismatch, not a default.
	data, err := storage.MarshalValue("not a number")
	require.NoError(t, err)
	require.NoError(t, store.DictionaryPut(dict, key, data))
	_, _, err = ref.Read()
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, storage.TypeMismatch, accessErr.Kind)
}

func TestEnsureDictionary(t *testing.T) {
	store := setupStore()

	ref1, err := storage.EnsureDictionary(store, "balances")
	require.NoError(t, err)
	ref2, err := storage.EnsureDictionary(store, "balances")
	require.NoError(t, err)
	assert.Equal(t, ref1.ID, ref2.ID)

	other, err := storage.EnsureDictionary(store, "allowances")
	require.NoError(t, err)
	assert.NotEqual(t, ref1.ID, other.ID)
}
