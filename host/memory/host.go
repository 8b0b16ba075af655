// Package memory implements the in-memory host backend: a flat
// dictionary store plus an in-process router for cross-contract calls.
// It is the reference host used by tests.
package memory

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/govm-net/contract-sdk/host"
	"github.com/govm-net/contract-sdk/types"
)

// Host implements host.Backend over in-memory maps.
type Host struct {
	mu       sync.RWMutex
	dicts    map[string]types.DictRef            // scoped name -> reference
	entries  map[string]map[types.FixedKey][]byte // reference ID -> items
	invokers map[types.ContractID]types.Invoker
	depth    int
}

func init() {
	host.Register(host.MemoryBackend, NewHost)
}

// NewHost creates a new in-memory host backend.
func NewHost(params map[string]any) host.Backend {
	return &Host{
		dicts:    make(map[string]types.DictRef),
		entries:  make(map[string]map[types.FixedKey][]byte),
		invokers: make(map[types.ContractID]types.Invoker),
	}
}

// GetDictionary implements types.Storage.
func (h *Host) GetDictionary(name string) (types.DictRef, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ref, ok := h.dicts[name]
	return ref, ok, nil
}

// NewDictionary implements types.Storage. The new reference carries
// full read-write rights; holders attenuate with DictRef.ReadOnly.
func (h *Host) NewDictionary(name string) (types.DictRef, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.dicts[name]; exists {
		return types.DictRef{}, fmt.Errorf("%w: %q", types.ErrDictionaryExists, name)
	}

	ref := types.DictRef{
		ID:     uuid.NewString(),
		Access: types.AccessReadWrite,
	}
	h.dicts[name] = ref
	h.entries[ref.ID] = make(map[types.FixedKey][]byte)
	return ref, nil
}

// DictionaryGet implements types.Storage.
func (h *Host) DictionaryGet(ref types.DictRef, key types.FixedKey) ([]byte, bool, error) {
	if !ref.Access.CanRead() {
		return nil, false, fmt.Errorf("%w: reference is %s", types.ErrAccessDenied, ref.Access)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	items, ok := h.entries[ref.ID]
	if !ok {
		return nil, false, fmt.Errorf("unknown dictionary reference %q", ref.ID)
	}
	data, ok := items[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// DictionaryPut implements types.Storage.
func (h *Host) DictionaryPut(ref types.DictRef, key types.FixedKey, value []byte) error {
	if !ref.Access.CanWrite() {
		return fmt.Errorf("%w: reference is %s", types.ErrAccessDenied, ref.Access)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	items, ok := h.entries[ref.ID]
	if !ok {
		return fmt.Errorf("unknown dictionary reference %q", ref.ID)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	items[key] = cp
	return nil
}

// Deploy implements host.Backend.
func (h *Host) Deploy(id types.ContractID, inv types.Invoker) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.invokers[id]; exists {
		return fmt.Errorf("contract %s already deployed", id)
	}
	h.invokers[id] = inv
	return nil
}

// StorageFor implements host.Backend: a view of the store whose
// dictionary names are namespaced by the contract identity.
func (h *Host) StorageFor(contract types.ContractID) types.Storage {
	return &scopedStorage{host: h, prefix: contract.String() + "/"}
}

// CallContract implements types.Caller. The call is a nested
// synchronous sub-invocation; a failed callee leaves no writes behind,
// matching the host's all-or-nothing rollback of faulted invocations.
func (h *Host) CallContract(contract types.ContractID, entrypoint string, args types.ArgumentBag) ([]byte, error) {
	h.mu.RLock()
	inv, ok := h.invokers[contract]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrContractNotFound, contract)
	}

	snapshot := h.snapshot()
	h.mu.Lock()
	h.depth++
	depth := h.depth
	h.mu.Unlock()

	slog.Debug("contract call", "contract", contract, "entrypoint", entrypoint, "depth", depth)

	ret, err := inv.Invoke(entrypoint, args.Clone())

	h.mu.Lock()
	h.depth--
	h.mu.Unlock()

	if err != nil {
		h.restore(snapshot)
		return nil, err
	}
	return ret, nil
}

// snapshot copies the entire entry space. Dictionaries created during a
// rolled-back call keep their references but lose their writes, which
// mirrors how the production host tombstones rather than reclaims.
func (h *Host) snapshot() map[string]map[types.FixedKey][]byte {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snap := make(map[string]map[types.FixedKey][]byte, len(h.entries))
	for id, items := range h.entries {
		cp := make(map[types.FixedKey][]byte, len(items))
		for k, v := range items {
			cp[k] = v
		}
		snap[id] = cp
	}
	return snap
}

func (h *Host) restore(snap map[string]map[types.FixedKey][]byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id := range h.entries {
		if items, ok := snap[id]; ok {
			h.entries[id] = items
		} else {
			h.entries[id] = make(map[types.FixedKey][]byte)
		}
	}
}

// scopedStorage prefixes dictionary names with the owning contract so
// collections in different contracts never collide.
type scopedStorage struct {
	host   *Host
	prefix string
}

func (s *scopedStorage) GetDictionary(name string) (types.DictRef, bool, error) {
	return s.host.GetDictionary(s.prefix + name)
}

func (s *scopedStorage) NewDictionary(name string) (types.DictRef, error) {
	return s.host.NewDictionary(s.prefix + name)
}

func (s *scopedStorage) DictionaryGet(ref types.DictRef, key types.FixedKey) ([]byte, bool, error) {
	return s.host.DictionaryGet(ref, key)
}

func (s *scopedStorage) DictionaryPut(ref types.DictRef, key types.FixedKey, value []byte) error {
	return s.host.DictionaryPut(ref, key, value)
}
