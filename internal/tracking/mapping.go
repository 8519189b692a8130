package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Pair is one key/value entry of a Mapping.
type Pair struct {
	Key   string
	Value string
}

// Mapping is an ordered string → string mapping. The zero value is empty
// and ready to use.
type Mapping struct {
	pairs []Pair
}

// New builds a mapping from pairs, keeping the first value of a repeated key.
func New(pairs ...Pair) Mapping {
	var m Mapping
	for _, p := range pairs {
		m.add(p.Key, p.Value)
	}
	return m
}

func (m *Mapping) add(key, value string) bool {
	if m.index(key) >= 0 {
		return false
	}
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
	return true
}

func (m Mapping) index(key string) int {
	for i, p := range m.pairs {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored for key.
func (m Mapping) Get(key string) (string, bool) {
	if i := m.index(key); i >= 0 {
		return m.pairs[i].Value, true
	}
	return "", false
}

// Len returns the number of entries.
func (m Mapping) Len() int { return len(m.pairs) }

// Keys returns the keys in order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns a copy of the entries in order.
func (m Mapping) Pairs() []Pair {
	return append([]Pair(nil), m.pairs...)
}

// Map returns an unordered copy.
func (m Mapping) Map() map[string]string {
	out := make(map[string]string, len(m.pairs))
	for _, p := range m.pairs {
		out[p.Key] = p.Value
	}
	return out
}

// Equal reports whether both mappings hold the same entries in the same order.
func (m Mapping) Equal(other Mapping) bool {
	if len(m.pairs) != len(other.pairs) {
		return false
	}
	for i := range m.pairs {
		if m.pairs[i] != other.pairs[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the mapping as a JSON object preserving entry order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, preserving the
// order in which keys appear. null decodes to an empty mapping.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	m.pairs = nil
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tracking: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		value, ok := valTok.(string)
		if !ok {
			return fmt.Errorf("tracking: value of %q is not a string", key)
		}
		m.add(key, value)
	}

	_, err = dec.Token()
	return err
}
