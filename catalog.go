package main

import (
	"database/sql"
	"strconv"
	"strings"
)

// ColumnSnapshot is the live catalog state of one table: column name to
// character length. The length is nil for columns without character
// length metadata (non-string types). A table that does not exist yet
// yields an empty snapshot, never an error.
type ColumnSnapshot map[string]*int

// Length resolves a column's recorded length, returning ok=false when
// the column is not present in the snapshot.
func (s ColumnSnapshot) Length(name string) (*int, bool) {
	length, ok := s[name]
	return length, ok
}

// querySnapshot runs a (name, length) catalog query over database/sql
// and collects the result into a snapshot. Used by the MySQL target;
// the PostgreSQL target has a pgx-native equivalent.
func querySnapshot(db *sql.DB, query string, args ...any) (ColumnSnapshot, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := ColumnSnapshot{}
	for rows.Next() {
		var name string
		var length sql.NullInt64
		if err := rows.Scan(&name, &length); err != nil {
			return nil, err
		}
		if length.Valid {
			n := int(length.Int64)
			snapshot[name] = &n
		} else {
			snapshot[name] = nil
		}
	}
	return snapshot, rows.Err()
}

// parseDeclLength extracts the character length from a declared column
// type such as "VARCHAR(150)" or "character varying(20)". Returns nil
// when the declaration carries no usable length, including numeric
// forms like "decimal(10,2)".
func parseDeclLength(declType string) *int {
	open := strings.IndexByte(declType, '(')
	closing := strings.LastIndexByte(declType, ')')
	if open < 0 || closing <= open {
		return nil
	}
	inner := strings.TrimSpace(declType[open+1 : closing])
	if strings.ContainsRune(inner, ',') {
		return nil
	}
	n, err := strconv.Atoi(inner)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
