// Package host manages the pluggable host backends contracts run
// against in tests and local tooling. The production host is an
// external system consumed through the interfaces in the types package;
// the backends here implement the same surface in-process.
package host

import (
	"fmt"
	"sort"
	"sync"

	"github.com/govm-net/contract-sdk/types"
)

// BackendType names one backend implementation.
type BackendType string

const (
	// MemoryBackend is the in-memory backend, the default.
	MemoryBackend BackendType = "memory"
	// DBBackend is the SQLite-backed persistent backend.
	DBBackend BackendType = "db"
)

// Backend is a full in-process host: the primitive surface plus the
// deployment hooks tests and tooling need.
type Backend interface {
	types.Host

	// StorageFor returns the dictionary store scoped to one contract.
	// Dictionary names are namespaced per contract so two contracts
	// never share key-space.
	StorageFor(contract types.ContractID) types.Storage

	// Deploy registers a contract's export table under its identity.
	Deploy(id types.ContractID, inv types.Invoker) error
}

// Constructor builds one backend instance from backend-specific
// parameters.
type Constructor func(params map[string]any) Backend

var (
	mu           sync.RWMutex
	constructors = map[BackendType]Constructor{}
	defaultType  = MemoryBackend
)

// Register makes a backend type available. Backend packages call this
// from init; importing the package is what enables the type.
func Register(bt BackendType, constructor Constructor) error {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := constructors[bt]; exists {
		return fmt.Errorf("backend type %s already registered", bt)
	}
	constructors[bt] = constructor
	return nil
}

// SetDefault selects the backend type New uses when asked for "".
func SetDefault(bt BackendType) error {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := constructors[bt]; !exists {
		return fmt.Errorf("backend type %s not registered", bt)
	}
	defaultType = bt
	return nil
}

// DefaultBackendType returns the type New falls back to.
func DefaultBackendType() BackendType {
	mu.RLock()
	defer mu.RUnlock()
	return defaultType
}

// New builds a backend instance of the given type, or of the default
// type when bt is empty. Backends are stateful, so every call returns
// an independent instance; callers that want shared state share the
// returned value.
func New(bt BackendType, params map[string]any) (Backend, error) {
	if bt == "" {
		bt = DefaultBackendType()
	}

	mu.RLock()
	constructor, ok := constructors[bt]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("backend type %s not registered", bt)
	}
	return constructor(params), nil
}

// ListRegistered returns the registered backend types, sorted.
func ListRegistered() []BackendType {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]BackendType, 0, len(constructors))
	for bt := range constructors {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
