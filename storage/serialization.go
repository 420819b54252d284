package storage

import (
	"encoding/json"
	"fmt"
)

// Marshal encodes a record for storage.
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// Unmarshal decodes a stored record into v.
func Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return nil
}
