// Package keycodec deterministically encodes composite keys (container
// name + element key) into the host's fixed-alphabet, fixed-length
// dictionary key format.
//
// The alphabet is the 128 symbols 0x00..0x7F, packed 7 bits per symbol:
// the first symbol carries the highest 7 bits of the input, the next
// symbol the following 7 bits, and so on. When the total bit count is
// not a multiple of 7 the final symbol is padded with zero bits in its
// least significant positions. Compared to base64 this carries more
// payload per symbol, which matters under the host's key-length limit.
//
// The layout produced by Encode is a pinned, versioned format: changing
// it would orphan every key already written by a deployed contract.
package keycodec

import (
	"errors"
	"fmt"
)

// Errors reported by the decode side of the codec.
var (
	ErrEmptyInput     = errors.New("keycodec: empty input")
	ErrNonZeroPadding = errors.New("keycodec: non-zero padding bits")
)

// InvalidDigitError reports a symbol outside the 128-symbol alphabet.
type InvalidDigitError struct {
	Digit byte
}

func (e InvalidDigitError) Error() string {
	return fmt.Sprintf("keycodec: invalid digit 0x%02x", e.Digit)
}

// encodeBase128 packs bytes into base-128 digits, 7 bits per digit.
// The digit count for n input bytes is always ceil(8n/7).
func encodeBase128(bytes []byte) []byte {
	if len(bytes) == 0 {
		return nil
	}

	result := make([]byte, 0, (len(bytes)*8+6)/7)
	var bitBuffer uint32
	bitsInBuffer := 0

	for _, b := range bytes {
		bitBuffer = bitBuffer<<8 | uint32(b)
		bitsInBuffer += 8

		for bitsInBuffer >= 7 {
			bitsInBuffer -= 7
			digit := byte(bitBuffer>>uint(bitsInBuffer)) & 0x7F
			result = append(result, digit)
			if bitsInBuffer == 0 {
				bitBuffer = 0
			} else {
				bitBuffer &= 1<<uint(bitsInBuffer) - 1
			}
		}
	}

	if bitsInBuffer > 0 {
		digit := byte(bitBuffer<<uint(7-bitsInBuffer)) & 0x7F
		result = append(result, digit)
	}

	return result
}

// decodeBase128 reverses encodeBase128. It rejects digits outside the
// alphabet and non-zero bits in the final digit's padding, so every
// byte sequence has exactly one valid digit form.
func decodeBase128(digits []byte) ([]byte, error) {
	if len(digits) == 0 {
		return nil, ErrEmptyInput
	}

	bytes := make([]byte, 0, len(digits)*7/8)
	var bitBuffer uint32
	bitsInBuffer := 0

	for _, digit := range digits {
		if digit > 0x7F {
			return nil, InvalidDigitError{Digit: digit}
		}

		bitBuffer = bitBuffer<<7 | uint32(digit)
		bitsInBuffer += 7

		for bitsInBuffer >= 8 {
			bitsInBuffer -= 8
			b := byte(bitBuffer >> uint(bitsInBuffer))
			bytes = append(bytes, b)
			if bitsInBuffer == 0 {
				bitBuffer = 0
			} else {
				bitBuffer &= 1<<uint(bitsInBuffer) - 1
			}
		}
	}

	if bitsInBuffer > 0 {
		mask := uint32(1)<<uint(bitsInBuffer) - 1
		if bitBuffer&mask != 0 {
			return nil, ErrNonZeroPadding
		}
	}

	return bytes, nil
}

// digitLen returns the digit count produced for n payload bytes.
func digitLen(n int) int {
	return (n*8 + 6) / 7
}
