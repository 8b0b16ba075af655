package keycodec

import (
	"errors"
	"fmt"

	"github.com/govm-net/contract-sdk/types"
)

// FormatVersion identifies the pinned key layout. Bump only alongside a
// storage migration story; existing contracts depend on the current
// byte-for-byte layout.
const FormatVersion = 1

const (
	// KeyLength is the exact length of every encoded dictionary key.
	// The host accepts item keys up to 128 characters; 96 leaves slack
	// for hosts that reserve part of the budget.
	KeyLength = 96

	// dataDigits is the digit region after the one-digit payload length.
	dataDigits = KeyLength - 1

	// MaxPayloadBytes is the largest framed payload (container frame +
	// element key bytes) that fits the data region: floor(95*7/8).
	MaxPayloadBytes = dataDigits * 7 / 8

	// MaxContainerName bounds the container identity so element keys
	// keep a usable share of the payload budget.
	MaxContainerName = 32
)

// ErrEncodingOverflow reports a composite key too large for the fixed
// key width. Oversized keys fail instead of truncating: truncation
// would silently collide two distinct keys.
var ErrEncodingOverflow = errors.New("keycodec: key exceeds encodable width")

// ErrInvalidContainer reports an unusable container name.
var ErrInvalidContainer = errors.New("keycodec: invalid container name")

// Encode produces the dictionary key for an element key within a named
// container. The result is always exactly KeyLength symbols:
//
//	[payload length digit][zero-digit padding][base-128 payload digits]
//
// where payload = [name length byte][name bytes][element key bytes].
// The framing makes the mapping a bijection on its domain: equal keys
// are equal strings, and two distinct (container, key) pairs can never
// encode to the same string, even across containers.
func Encode(container string, key Key) (types.FixedKey, error) {
	if container == "" || len(container) > MaxContainerName {
		return "", fmt.Errorf("%w: %q", ErrInvalidContainer, container)
	}

	kb, err := key.KeyBytes()
	if err != nil {
		return "", err
	}

	payloadLen := 1 + len(container) + len(kb)
	if payloadLen > MaxPayloadBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrEncodingOverflow, payloadLen, MaxPayloadBytes)
	}

	payload := make([]byte, 0, payloadLen)
	payload = append(payload, byte(len(container)))
	payload = append(payload, container...)
	payload = append(payload, kb...)

	digits := encodeBase128(payload)

	out := make([]byte, KeyLength)
	out[0] = byte(payloadLen) // payloadLen <= MaxPayloadBytes < 128
	copy(out[KeyLength-len(digits):], digits)
	return types.FixedKey(out), nil
}

// Decode recovers the container name and element key bytes from an
// encoded dictionary key. Contract code never needs this at runtime;
// it exists so the bijection can be verified.
func Decode(fk types.FixedKey) (container string, keyBytes []byte, err error) {
	raw := []byte(fk)
	if len(raw) != KeyLength {
		return "", nil, fmt.Errorf("keycodec: key length %d, want %d", len(raw), KeyLength)
	}

	payloadLen := int(raw[0])
	if payloadLen == 0 || payloadLen > MaxPayloadBytes {
		return "", nil, fmt.Errorf("keycodec: bad payload length %d", payloadLen)
	}

	d := digitLen(payloadLen)
	for _, pad := range raw[1 : KeyLength-d] {
		if pad != 0 {
			return "", nil, ErrNonZeroPadding
		}
	}

	payload, err := decodeBase128(raw[KeyLength-d:])
	if err != nil {
		return "", nil, err
	}
	if len(payload) != payloadLen {
		return "", nil, fmt.Errorf("keycodec: payload length mismatch: %d, want %d", len(payload), payloadLen)
	}

	nameLen := int(payload[0])
	if nameLen == 0 || 1+nameLen > payloadLen {
		return "", nil, fmt.Errorf("keycodec: bad container frame")
	}

	return string(payload[1 : 1+nameLen]), payload[1+nameLen:], nil
}
