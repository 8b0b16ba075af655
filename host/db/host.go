// Package db implements the host backend on SQLite with GORM. It keeps
// the dictionary store on disk so deployments and tooling runs can be
// resumed; cross-contract dispatch works like the memory backend.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/govm-net/contract-sdk/host"
	"github.com/govm-net/contract-sdk/types"
)

const (
	defaultDBPath = "./sqlite.db"
)

// DBDictionary represents one created dictionary
type DBDictionary struct {
	gorm.Model
	Name   string `gorm:"column:name;not null;unique;index;size:255"`
	RefID  string `gorm:"column:ref_id;not null;unique;index;size:36"`
	Access uint8  `gorm:"column:access;not null"`
}

// TableName specifies the table name for DBDictionary
func (DBDictionary) TableName() string {
	return "dictionaries"
}

// DBEntry represents one dictionary item
type DBEntry struct {
	gorm.Model
	RefID   string `gorm:"column:ref_id;not null;uniqueIndex:idx_ref_key;size:36"`
	ItemKey []byte `gorm:"column:item_key;type:blob;not null;uniqueIndex:idx_ref_key"`
	Value   []byte `gorm:"column:item_value;type:blob;not null"`
}

// TableName specifies the table name for DBEntry
func (DBEntry) TableName() string {
	return "entries"
}

// Host implements host.Backend using SQLite with GORM
type Host struct {
	// db is the active connection: the base handle, or the enclosing
	// transaction while a nested call is running. Guarded by mu; all
	// storage operations go through conn().
	db *gorm.DB

	mu       sync.RWMutex
	invokers map[types.ContractID]types.Invoker
}

func init() {
	host.Register(host.DBBackend, NewHost)
}

// NewHost creates a new SQLite-backed host using GORM
func NewHost(params map[string]any) host.Backend {
	if params == nil {
		params = make(map[string]any)
	}
	dbPath := defaultDBPath
	if path, ok := params["db_path"].(string); ok && path != "" {
		dbPath = path
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		panic(fmt.Errorf("failed to create db directory: %v", err))
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		panic(fmt.Errorf("failed to open database: %v", err))
	}

	h := &Host{
		db:       db,
		invokers: make(map[types.ContractID]types.Invoker),
	}
	h.initDB()
	return h
}

func (h *Host) initDB() {
	err := h.db.AutoMigrate(
		&DBDictionary{},
		&DBEntry{},
	)
	if err != nil {
		panic(fmt.Errorf("failed to migrate database: %v", err))
	}
}

func (h *Host) conn() *gorm.DB {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.db
}

// swapConn installs db as the active connection and returns the prior
// one. CallContract uses it to route a nested invocation's writes
// through its transaction.
func (h *Host) swapConn(db *gorm.DB) *gorm.DB {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.db
	h.db = db
	return prev
}

// GetDictionary implements types.Storage.
func (h *Host) GetDictionary(name string) (types.DictRef, bool, error) {
	var dict DBDictionary
	result := h.conn().Where("name = ?", name).First(&dict)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return types.DictRef{}, false, nil
	}
	if result.Error != nil {
		return types.DictRef{}, false, fmt.Errorf("failed to get dictionary: %v", result.Error)
	}
	return types.DictRef{ID: dict.RefID, Access: types.AccessMode(dict.Access)}, true, nil
}

// NewDictionary implements types.Storage.
func (h *Host) NewDictionary(name string) (types.DictRef, error) {
	ref := types.DictRef{
		ID:     uuid.NewString(),
		Access: types.AccessReadWrite,
	}
	dict := &DBDictionary{
		Name:   name,
		RefID:  ref.ID,
		Access: uint8(ref.Access),
	}
	if err := h.conn().Create(dict).Error; err != nil {
		return types.DictRef{}, fmt.Errorf("%w: %q: %v", types.ErrDictionaryExists, name, err)
	}
	return ref, nil
}

// DictionaryGet implements types.Storage.
func (h *Host) DictionaryGet(ref types.DictRef, key types.FixedKey) ([]byte, bool, error) {
	if !ref.Access.CanRead() {
		return nil, false, fmt.Errorf("%w: reference is %s", types.ErrAccessDenied, ref.Access)
	}

	var entry DBEntry
	result := h.conn().Where("ref_id = ? AND item_key = ?", ref.ID, []byte(key)).First(&entry)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to get entry: %v", result.Error)
	}
	return entry.Value, true, nil
}

// DictionaryPut implements types.Storage.
func (h *Host) DictionaryPut(ref types.DictRef, key types.FixedKey, value []byte) error {
	if !ref.Access.CanWrite() {
		return fmt.Errorf("%w: reference is %s", types.ErrAccessDenied, ref.Access)
	}

	// Update or create entry
	result := h.conn().Where("ref_id = ? AND item_key = ?", ref.ID, []byte(key)).
		Assign(DBEntry{Value: value}).
		FirstOrCreate(&DBEntry{
			RefID:   ref.ID,
			ItemKey: []byte(key),
			Value:   value,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update entry: %v", result.Error)
	}
	return nil
}

// Deploy implements host.Backend. Export tables are runtime objects, so
// deployment registration lives in memory even when state is on disk.
func (h *Host) Deploy(id types.ContractID, inv types.Invoker) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.invokers[id]; exists {
		return fmt.Errorf("contract %s already deployed", id)
	}
	h.invokers[id] = inv
	return nil
}

// StorageFor implements host.Backend.
func (h *Host) StorageFor(contract types.ContractID) types.Storage {
	return &scopedStorage{host: h, prefix: contract.String() + "/"}
}

// CallContract implements types.Caller. The callee runs inside a
// transaction: a failed invocation leaves no writes behind, matching
// the memory backend's all-or-nothing rollback. Nested calls nest as
// savepoints.
func (h *Host) CallContract(contract types.ContractID, entrypoint string, args types.ArgumentBag) ([]byte, error) {
	h.mu.RLock()
	inv, ok := h.invokers[contract]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrContractNotFound, contract)
	}

	slog.Debug("contract call", "contract", contract, "entrypoint", entrypoint)

	var ret []byte
	err := h.conn().Transaction(func(tx *gorm.DB) error {
		prev := h.swapConn(tx)
		defer h.swapConn(prev)

		out, err := inv.Invoke(entrypoint, args.Clone())
		if err != nil {
			return err
		}
		ret = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

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
