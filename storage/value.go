// Package storage provides typed, access-checked views over the host's
// flat dictionary store: a tagged value envelope that models logical
// absence (the host has no delete primitive) and a typed reference to
// one storage slot.
package storage

import (
	"encoding/json"
	"fmt"
)

// envelope is the stored form of every dictionary value. Removal writes
// an absent envelope in place of physical deletion.
type envelope struct {
	Present bool            `json:"present"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// MarshalValue wraps v in a present envelope.
func MarshalValue(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	return json.Marshal(envelope{Present: true, Value: raw})
}

// Tombstone returns the stored form of logical absence.
func Tombstone() []byte {
	data, _ := json.Marshal(envelope{Present: false})
	return data
}

// UnmarshalValue decodes a stored envelope into out. The first return
// is false when the envelope is a tombstone; out is untouched then.
func UnmarshalValue(data []byte, out any) (bool, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false, fmt.Errorf("corrupted envelope: %w", err)
	}
	if !env.Present {
		return false, nil
	}
	if err := json.Unmarshal(env.Value, out); err != nil {
		return false, fmt.Errorf("stored shape does not decode: %w", err)
	}
	return true, nil
}
