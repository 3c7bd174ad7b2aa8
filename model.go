package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SemanticType is the engine-level column type declared by a model.
// Each target dialect maps it to a concrete SQL type keyword.
type SemanticType string

const (
	TypeBoolean   SemanticType = "boolean"
	TypeTimestamp SemanticType = "timestamp"
	TypeJSON      SemanticType = "json"
	TypeDecimal   SemanticType = "decimal"
	TypeInteger   SemanticType = "integer"
	TypeArray     SemanticType = "array"
	TypeString    SemanticType = "string"
	TypeUUID      SemanticType = "uuid"
)

var semanticTypes = map[SemanticType]bool{
	TypeBoolean:   true,
	TypeTimestamp: true,
	TypeJSON:      true,
	TypeDecimal:   true,
	TypeInteger:   true,
	TypeArray:     true,
	TypeString:    true,
	TypeUUID:      true,
}

// Column describes one desired column. Length is consulted only for
// string columns; DBDefault is appended verbatim after the resolved
// type; RenameFrom marks a column that should be renamed rather than
// dropped and re-created.
type Column struct {
	Name       string
	Type       SemanticType
	Length     int
	PrimaryKey bool
	DBDefault  string
	RenameFrom string

	value any
}

// validate checks the parts of a descriptor that must hold regardless
// of target dialect. An unknown semantic type is a configuration error
// caught here, at construction, never at DDL time.
func (c Column) validate() error {
	if c.Name == "" {
		return fmt.Errorf("column name is required")
	}
	if !semanticTypes[c.Type] {
		return fmt.Errorf("column %s: unknown semantic type %q", c.Name, c.Type)
	}
	if c.RenameFrom != "" && c.RenameFrom == c.Name {
		return fmt.Errorf("column %s: rename_from must differ from the column name", c.Name)
	}
	return nil
}

// Copy returns a descriptor with the given runtime value and everything
// else unchanged. A nil value keeps the current one.
func (c Column) Copy(value any) Column {
	d := c
	if value != nil {
		d.value = value
	}
	return d
}

// Value returns the runtime value coerced to the column's semantic
// type. Reconciliation never consults this; it exists for row-level
// operations layered on top of the schema engine.
func (c Column) Value() (any, error) {
	if c.value == nil {
		return nil, nil
	}

	switch c.Type {
	case TypeBoolean:
		switch v := c.value.(type) {
		case bool:
			return v, nil
		case string:
			return strconv.ParseBool(v)
		}

	case TypeTimestamp:
		switch v := c.value.(type) {
		case time.Time:
			return v, nil
		case string:
			return time.Parse(time.RFC3339, v)
		}

	case TypeUUID:
		switch v := c.value.(type) {
		case uuid.UUID:
			return v.String(), nil
		case string:
			u, err := uuid.Parse(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			return u.String(), nil
		case []byte:
			u, err := uuid.FromBytes(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			return u.String(), nil
		}

	case TypeInteger:
		switch v := c.value.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		case string:
			return strconv.ParseInt(v, 10, 64)
		}

	case TypeDecimal:
		switch v := c.value.(type) {
		case float32:
			return float64(v), nil
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			return strconv.ParseFloat(v, 64)
		}

	case TypeString:
		switch v := c.value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		default:
			return fmt.Sprint(v), nil
		}

	case TypeJSON:
		switch v := c.value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			return string(b), nil
		}

	case TypeArray:
		return c.value, nil
	}

	return nil, fmt.Errorf("column %s: cannot coerce %T to %s", c.Name, c.value, c.Type)
}

// Table is the desired shape of one database table. Columns keeps the
// declared order; that order drives DDL synthesis.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// PrimaryKeyColumns returns the names of all primary-key columns in
// declared order.
func (t Table) PrimaryKeyColumns() []string {
	var keys []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// HasColumn reports whether a desired column with the given name exists.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}
