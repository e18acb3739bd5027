package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Metadata represents document metadata, stored as JSONB when persisted.
type Metadata map[string]interface{}

// Value implements the driver.Valuer interface for database storage
func (m Metadata) Value() (driver.Value, error) {
	return m.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *Metadata) Scan(value interface{}) error {
	return m.Unmarshal(value)
}

// Marshal converts Metadata to JSON bytes
func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal converts JSON bytes or Metadata to Metadata
func (m *Metadata) Unmarshal(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	if s, ok := value.(Metadata); ok {
		*m = s
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, m)
}

// Matches reports whether every key/value pair in want equals the
// corresponding entry in m. Values are compared by their string form.
func (m Metadata) Matches(want map[string]string) bool {
	for k, v := range want {
		got, ok := m[k]
		if !ok || fmt.Sprint(got) != v {
			return false
		}
	}
	return true
}
