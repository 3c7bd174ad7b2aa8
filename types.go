package main

import "fmt"

// Per-dialect semantic type mapping tables. string resolves to the
// keyword parameterized with a length; everything else is used as-is.

var postgresTypes = map[SemanticType]string{
	TypeBoolean:   "boolean",
	TypeTimestamp: "timestamp",
	TypeJSON:      "json",
	TypeDecimal:   "decimal",
	TypeInteger:   "numeric",
	TypeArray:     "text[]",
	TypeString:    "varchar",
	TypeUUID:      "uuid",
}

var mysqlTypes = map[SemanticType]string{
	TypeBoolean:   "boolean",
	TypeTimestamp: "datetime",
	TypeJSON:      "json",
	TypeDecimal:   "decimal",
	TypeInteger:   "numeric",
	TypeArray:     "json",
	TypeString:    "varchar",
	TypeUUID:      "char(36)",
}

var sqliteTypes = map[SemanticType]string{
	TypeBoolean:   "integer",
	TypeTimestamp: "text",
	TypeJSON:      "text",
	TypeDecimal:   "real",
	TypeInteger:   "integer",
	TypeArray:     "text",
	TypeString:    "varchar",
	TypeUUID:      "text",
}

// resolveColumnType resolves a column's full DDL type for one dialect:
// the mapped keyword, a length for string columns (falling back to
// defaultVarcharLength when unset or non-positive), and the db_default
// appended verbatim. The caller is responsible for supplying a safe
// default expression; nothing here is escaped.
func resolveColumnType(types map[SemanticType]string, col Column, defaultVarcharLength int) (string, error) {
	keyword, ok := types[col.Type]
	if !ok {
		return "", fmt.Errorf("column %s: no type mapping for %q", col.Name, col.Type)
	}

	if col.Type == TypeString {
		length := col.Length
		if length <= 0 {
			length = defaultVarcharLength
		}
		keyword = fmt.Sprintf("%s(%d)", keyword, length)
	}

	if col.DBDefault != "" {
		keyword = keyword + " " + col.DBDefault
	}
	return keyword, nil
}
