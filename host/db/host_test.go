package db

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/contract-sdk/host"
	"github.com/govm-net/contract-sdk/types"
)

func setupHost(t *testing.T) (host.Backend, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	return NewHost(map[string]any{"db_path": dbPath}), dbPath
}

func TestDictionaryLifecycle(t *testing.T) {
	h, _ := setupHost(t)

	_, ok, err := h.GetDictionary("balances")
	require.NoError(t, err)
	assert.False(t, ok)

	ref, err := h.NewDictionary("balances")
	require.NoError(t, err)
	assert.NotEmpty(t, ref.ID)
	assert.True(t, ref.Access.CanRead())
	assert.True(t, ref.Access.CanWrite())

	got, ok, err := h.GetDictionary("balances")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ref.ID, got.ID)
	assert.Equal(t, ref.Access, got.Access)

	_, err = h.NewDictionary("balances")
	assert.ErrorIs(t, err, types.ErrDictionaryExists)
}

func TestDictionaryGetPut(t *testing.T) {
	h, _ := setupHost(t)
	ref, err := h.NewDictionary("state")
	require.NoError(t, err)

	key := types.FixedKey("fixed-key-1")

	_, ok, err := h.DictionaryGet(ref, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, h.DictionaryPut(ref, key, []byte("v1")))
	data, ok, err := h.DictionaryGet(ref, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), data)

	require.NoError(t, h.DictionaryPut(ref, key, []byte("v2")))
	data, _, err = h.DictionaryGet(ref, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestAccessEnforcement(t *testing.T) {
	h, _ := setupHost(t)
	ref, err := h.NewDictionary("state")
	require.NoError(t, err)

	ro := ref.ReadOnly()
	err = h.DictionaryPut(ro, "key", []byte("x"))
	assert.ErrorIs(t, err, types.ErrAccessDenied)

	require.NoError(t, h.DictionaryPut(ref, "key", []byte("x")))
	data, ok, err := h.DictionaryGet(ro, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), data)
}

// State written through one host instance survives reopening the same
// database file.
func TestPersistenceAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	h1 := NewHost(map[string]any{"db_path": dbPath})
	ref, err := h1.NewDictionary("state")
	require.NoError(t, err)
	require.NoError(t, h1.DictionaryPut(ref, "key", []byte("durable")))

	h2 := NewHost(map[string]any{"db_path": dbPath})
	got, ok, err := h2.GetDictionary("state")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ref.ID, got.ID)

	data, ok, err := h2.DictionaryGet(got, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("durable"), data)
}

func TestStorageForScopesNames(t *testing.T) {
	h, _ := setupHost(t)
	a := h.StorageFor(types.ContractID{1})
	b := h.StorageFor(types.ContractID{2})

	refA, err := a.NewDictionary("state")
	require.NoError(t, err)
	refB, err := b.NewDictionary("state")
	require.NoError(t, err)
	assert.NotEqual(t, refA.ID, refB.ID)
}

type stubInvoker struct {
	fn func(entrypoint string, args types.ArgumentBag) ([]byte, error)
}

func (s stubInvoker) Invoke(entrypoint string, args types.ArgumentBag) ([]byte, error) {
	return s.fn(entrypoint, args)
}

func TestFailedCallRollsBack(t *testing.T) {
	h, _ := setupHost(t)
	id := types.ContractID{4}
	ref, err := h.NewDictionary("state")
	require.NoError(t, err)
	require.NoError(t, h.DictionaryPut(ref, "key", []byte("before")))

	require.NoError(t, h.Deploy(id, stubInvoker{fn: func(string, types.ArgumentBag) ([]byte, error) {
		if err := h.DictionaryPut(ref, "key", []byte("dirty")); err != nil {
			return nil, err
		}
		return nil, types.RevertError{Code: 1}
	}}))

	_, err = h.CallContract(id, "mutate", nil)
	var rev types.RevertError
	require.ErrorAs(t, err, &rev)

	data, _, err := h.DictionaryGet(ref, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("before"), data, "failed call must not leave writes behind")
}

func TestSuccessfulCallKeepsWrites(t *testing.T) {
	h, _ := setupHost(t)
	id := types.ContractID{5}
	ref, err := h.NewDictionary("state")
	require.NoError(t, err)

	require.NoError(t, h.Deploy(id, stubInvoker{fn: func(string, types.ArgumentBag) ([]byte, error) {
		return nil, h.DictionaryPut(ref, "key", []byte("committed"))
	}}))

	_, err = h.CallContract(id, "mutate", nil)
	require.NoError(t, err)

	data, ok, err := h.DictionaryGet(ref, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("committed"), data)
}

// A failed inner call rolls back to its savepoint while the outer
// call's writes commit.
func TestNestedCallPartialRollback(t *testing.T) {
	h, _ := setupHost(t)
	outer := types.ContractID{10}
	inner := types.ContractID{11}
	ref, err := h.NewDictionary("state")
	require.NoError(t, err)

	require.NoError(t, h.Deploy(inner, stubInvoker{fn: func(string, types.ArgumentBag) ([]byte, error) {
		if err := h.DictionaryPut(ref, "inner", []byte("x")); err != nil {
			return nil, err
		}
		return nil, types.RevertError{Code: 2}
	}}))
	require.NoError(t, h.Deploy(outer, stubInvoker{fn: func(string, types.ArgumentBag) ([]byte, error) {
		if err := h.DictionaryPut(ref, "outer", []byte("kept")); err != nil {
			return nil, err
		}
		if _, err := h.CallContract(inner, "fail", nil); err == nil {
			return nil, errors.New("expected inner call to fail")
		}
		return nil, nil // outer absorbs the failure and commits
	}}))

	_, err = h.CallContract(outer, "run", nil)
	require.NoError(t, err)

	data, ok, err := h.DictionaryGet(ref, "outer")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("kept"), data)

	_, ok, err = h.DictionaryGet(ref, "inner")
	require.NoError(t, err)
	assert.False(t, ok, "inner write must be rolled back")
}

func TestDeployAndCall(t *testing.T) {
	h, _ := setupHost(t)
	id := types.ContractID{7}

	require.NoError(t, h.Deploy(id, stubInvoker{fn: func(entrypoint string, _ types.ArgumentBag) ([]byte, error) {
		return []byte(entrypoint), nil
	}}))
	assert.Error(t, h.Deploy(id, stubInvoker{}))

	ret, err := h.CallContract(id, "ping", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), ret)

	_, err = h.CallContract(types.ContractID{9}, "ping", nil)
	assert.ErrorIs(t, err, types.ErrContractNotFound)
}
