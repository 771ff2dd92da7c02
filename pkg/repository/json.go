package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON binds a Go value to a JSON or JSONB column. It is both a query argument
// (driver.Valuer) and a scan destination (sql.Scanner). Scanning NULL leaves
// the target untouched.
type JSON[T any] struct {
	Target *T
}

// JSONOf wraps target for use as a query argument or scan destination.
func JSONOf[T any](target *T) JSON[T] {
	return JSON[T]{Target: target}
}

// Value marshals the target. A nil target is written as NULL.
func (j JSON[T]) Value() (driver.Value, error) {
	if j.Target == nil {
		return nil, nil
	}
	b, err := json.Marshal(j.Target)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	return string(b), nil
}

// Scan unmarshals a JSON column value into the target.
func (j JSON[T]) Scan(src any) error {
	if j.Target == nil {
		return fmt.Errorf("scan json column: nil target")
	}

	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan json column: unsupported type %T", src)
	}

	if err := json.Unmarshal(data, j.Target); err != nil {
		return fmt.Errorf("scan json column: %w", err)
	}
	return nil
}
