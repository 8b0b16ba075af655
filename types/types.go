// Package types contains shared type definitions and the host-facing
// interfaces used by both contract code and host backends.
//
// The host exposes only primitive operations: read/write a byte value
// under a fixed-format dictionary key, create access-controlled
// dictionary references, and invoke another contract by identifier with
// a bag of named byte-encoded arguments. Everything above these
// primitives lives in the keycodec, storage, collections, abi and
// contract packages.
package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Address 表示区块链上的地址
type Address [20]byte

// ContractID 表示已部署合约的唯一标识符
type ContractID [32]byte

type Hash [32]byte

var ZeroAddress = Address{}
var ZeroContractID = ContractID{}
var ZeroHash = Hash{}

func (addr Address) String() string {
	return hex.EncodeToString(addr[:])
}

func AddressFromString(str string) Address {
	str = strings.TrimPrefix(str, "0x")
	b, err := hex.DecodeString(str)
	if err != nil || len(b) != 20 {
		return ZeroAddress
	}
	return Address(b)
}

// MarshalJSON encodes the address as a hex string.
func (addr Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addr.String())
}

// UnmarshalJSON decodes the address from a hex string.
func (addr *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != 20 {
		return fmt.Errorf("address: expected 20 bytes, got %d", len(b))
	}
	copy(addr[:], b)
	return nil
}

func (id ContractID) String() string {
	return hex.EncodeToString(id[:])
}

func ContractIDFromString(str string) ContractID {
	str = strings.TrimPrefix(str, "0x")
	b, err := hex.DecodeString(str)
	if err != nil || len(b) != 32 {
		return ZeroContractID
	}
	return ContractID(b)
}

// MarshalJSON encodes the contract ID as a hex string.
func (id ContractID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes the contract ID from a hex string.
func (id *ContractID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != 32 {
		return fmt.Errorf("contract id: expected 32 bytes, got %d", len(b))
	}
	copy(id[:], b)
	return nil
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func HashFromString(str string) Hash {
	str = strings.TrimPrefix(str, "0x")
	b, err := hex.DecodeString(str)
	if err != nil {
		return ZeroHash
	}
	var out Hash
	copy(out[:], b)
	return out
}

// FixedKey is a dictionary item key in the host's fixed-length,
// fixed-alphabet format. The keycodec package is the only producer of
// these values; the host treats them as opaque.
type FixedKey string

// ArgumentBag is the host's untyped name→bytes structure used to pass
// parameters into a cross-contract call.
type ArgumentBag map[string][]byte

// Clone returns a deep copy of the bag.
func (b ArgumentBag) Clone() ArgumentBag {
	out := make(ArgumentBag, len(b))
	for k, v := range b {
		cp := make([]byte, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// AccessMode is a capability tag restricting a storage reference to
// read-only or read-write use.
type AccessMode uint8

const (
	AccessRead  AccessMode = 1 << iota // read permitted
	AccessWrite                        // write permitted

	AccessReadOnly  = AccessRead
	AccessReadWrite = AccessRead | AccessWrite
)

func (m AccessMode) CanRead() bool  { return m&AccessRead != 0 }
func (m AccessMode) CanWrite() bool { return m&AccessWrite != 0 }

func (m AccessMode) String() string {
	switch {
	case m.CanRead() && m.CanWrite():
		return "read-write"
	case m.CanRead():
		return "read-only"
	case m.CanWrite():
		return "write-only"
	default:
		return "none"
	}
}

// DictRef is an access-controlled reference to one dictionary in the
// host's flat key-value store.
type DictRef struct {
	ID     string
	Access AccessMode
}

// ReadOnly returns a copy of the reference with write capability
// stripped. Attenuation only; rights can never be added back.
func (r DictRef) ReadOnly() DictRef {
	return DictRef{ID: r.ID, Access: r.Access & AccessRead}
}

// Storage is the host's dictionary store as seen by one contract.
// Dictionary names are scoped to the contract.
type Storage interface {
	// GetDictionary resolves a dictionary reference by name. The second
	// return is false when no dictionary has been created under the name.
	GetDictionary(name string) (DictRef, bool, error)

	// NewDictionary creates a dictionary under the given name and returns
	// a read-write reference to it. Creating a name twice is an error.
	NewDictionary(name string) (DictRef, error)

	// DictionaryGet reads the bytes stored under key, if any.
	DictionaryGet(ref DictRef, key FixedKey) ([]byte, bool, error)

	// DictionaryPut stores value under key, overwriting any prior value.
	// The host has no delete primitive; logical removal is a tombstone
	// written by the storage layer.
	DictionaryPut(ref DictRef, key FixedKey, value []byte) error
}

// Caller is the host's cross-contract call primitive. The call is a
// nested, fully synchronous sub-invocation: it runs to completion
// before control returns.
type Caller interface {
	CallContract(contract ContractID, entrypoint string, args ArgumentBag) ([]byte, error)
}

// Host is the full primitive surface a contract invocation runs against.
type Host interface {
	Storage
	Caller
}

// Invoker is the host-facing entry surface of one deployed contract:
// the generated export table implements it.
type Invoker interface {
	Invoke(entrypoint string, args ArgumentBag) ([]byte, error)
}

// Errors reported by host backends. Callers classify them through the
// contract package's CallError taxonomy.
var (
	ErrContractNotFound   = errors.New("contract not found")
	ErrEntrypointNotFound = errors.New("entrypoint not found")
	ErrDictionaryExists   = errors.New("dictionary already exists")
	ErrAccessDenied       = errors.New("access denied")
)

// RevertError is the host's standard application-error channel: a
// callee that rejects a call reports a stable numeric code, never an
// opaque crash.
type RevertError struct {
	Code uint16
}

func (e RevertError) Error() string {
	return fmt.Sprintf("reverted with code %d", e.Code)
}
