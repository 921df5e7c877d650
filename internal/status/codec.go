package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/vytor/econgraph/internal/models"
)

// ErrMalformed is wrapped by Decode for any blob that is not a valid status map.
var ErrMalformed = errors.New("status: malformed record")

// Encode serializes m as a JSON object keyed by decimal card id.
// Unset entries are omitted.
func Encode(m models.StatusMap) ([]byte, error) {
	out := make(map[string]models.Mastery, len(m))
	for id, mastery := range m {
		if mastery == models.Unset {
			continue
		}
		if id <= 0 {
			return nil, fmt.Errorf("status: invalid card id %d", id)
		}
		out[strconv.Itoa(id)] = mastery
	}
	return json.Marshal(out)
}

// Decode parses a blob produced by Encode. Null values decode as Unset and
// are dropped; any other deviation is ErrMalformed.
func Decode(data []byte) (models.StatusMap, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	m := make(models.StatusMap, len(raw))
	for key, value := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid card id %q", ErrMalformed, key)
		}
		var mastery models.Mastery
		if err := json.Unmarshal(value, &mastery); err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", ErrMalformed, id, err)
		}
		m.Put(id, mastery)
	}
	return m, nil
}
