// Package jsonarray decodes a record collection stored as one JSON array.
package jsonarray

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed marks content that is not a JSON array at all. Stores treat it
// as an empty collection.
var ErrMalformed = errors.New("malformed collection")

// Decode parses raw as a JSON array of T. Unparsable JSON and non-array values
// return an error wrapping ErrMalformed. A well-formed array holding a record
// that does not fit T returns a plain decode error, so callers never mistake a
// partially readable collection for an empty one. null decodes as empty.
func Decode[T any](raw []byte) ([]T, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	records := make([]T, 0, len(elems))
	for i, elem := range elems {
		var rec T
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
