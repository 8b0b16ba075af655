package keycodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/govm-net/contract-sdk/types"
)

// Key is an element key that knows its canonical byte representation.
// The representation must be stable: two runs over the same value must
// produce the same bytes, and within one key type distinct values must
// produce distinct bytes of the same framing.
type Key interface {
	KeyBytes() ([]byte, error)
}

// U64 keys encode as 8 little-endian bytes.
type U64 uint64

func (k U64) KeyBytes() ([]byte, error) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(k))
	return b, nil
}

// U32 keys encode as 4 little-endian bytes.
type U32 uint32

func (k U32) KeyBytes() ([]byte, error) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(k))
	return b, nil
}

// Str keys encode as their raw bytes.
type Str string

func (k Str) KeyBytes() ([]byte, error) {
	return []byte(k), nil
}

// Bytes keys encode as-is.
type Bytes []byte

func (k Bytes) KeyBytes() ([]byte, error) {
	return k, nil
}

// Addr keys encode as the 20 address bytes.
type Addr types.Address

func (k Addr) KeyBytes() ([]byte, error) {
	return append([]byte(nil), k[:]...), nil
}

// Contract keys encode as the 32 contract hash bytes.
type Contract types.ContractID

func (k Contract) KeyBytes() ([]byte, error) {
	return append([]byte(nil), k[:]...), nil
}

// ErrBigKeyRange reports a big-integer key outside [0, 2^256).
var ErrBigKeyRange = errors.New("keycodec: big key out of range")

// Big wraps an arbitrary-precision unsigned integer key. It encodes as
// exactly 32 little-endian bytes, matching 256-bit numeric key types.
type Big struct {
	V *big.Int
}

func (k Big) KeyBytes() ([]byte, error) {
	if k.V == nil || k.V.Sign() < 0 || k.V.BitLen() > 256 {
		return nil, ErrBigKeyRange
	}
	be := k.V.FillBytes(make([]byte, 32))
	le := make([]byte, 32)
	for i, b := range be {
		le[31-i] = b
	}
	return le, nil
}

// Tuple composes several keys into one. Each part is framed by a
// one-byte length, so distinct part splits never collide:
// ("ab","c") and ("a","bc") encode differently.
type Tuple []Key

func (t Tuple) KeyBytes() ([]byte, error) {
	var out []byte
	for i, part := range t {
		pb, err := part.KeyBytes()
		if err != nil {
			return nil, fmt.Errorf("tuple part %d: %w", i, err)
		}
		if len(pb) > 255 {
			return nil, fmt.Errorf("tuple part %d: %w", i, ErrEncodingOverflow)
		}
		out = append(out, byte(len(pb)))
		out = append(out, pb...)
	}
	return out, nil
}
