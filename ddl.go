package main

import (
	"fmt"
	"strings"
)

// ddlDialect is the subset of TargetDB the synthesizer needs: type
// mapping, identifier quoting, and the dialect's ALTER capabilities.
type ddlDialect interface {
	MapType(col Column, defaultVarcharLength int) (string, error)
	QuoteIdentifier(name string) string
	QualifiedName(schema, table string) string
	SupportsBatchedAlter() bool
	AlterColumnTypeClause(column string, length int) (string, error)
}

// synthesizeDDL turns a change set into an ordered statement list,
// safe to execute in listed order: renames first (later statements may
// reference the new names), then additions, drops, and length changes.
// A table with an empty live snapshot gets a single CREATE TABLE
// instead.
func synthesizeDDL(t Table, live ColumnSnapshot, cs *ChangeSet, d ddlDialect, defaultVarcharLength int) ([]string, error) {
	if len(live) == 0 {
		if len(t.Columns) == 0 {
			return nil, nil
		}
		ddl, err := generateCreateTable(t, d, defaultVarcharLength)
		if err != nil {
			return nil, err
		}
		return []string{ddl}, nil
	}

	qualified := d.QualifiedName(t.Schema, t.Name)
	var stmts []string

	// Renames cannot be batched; each is its own statement.
	for _, r := range cs.Renames {
		stmts = append(stmts, fmt.Sprintf(
			"ALTER TABLE %s RENAME COLUMN %s TO %s",
			qualified, d.QuoteIdentifier(r.From), d.QuoteIdentifier(r.To)))
	}

	var addClauses []string
	for _, col := range cs.Additions {
		ddlType, err := d.MapType(col, defaultVarcharLength)
		if err != nil {
			return nil, err
		}
		addClauses = append(addClauses, fmt.Sprintf("ADD COLUMN %s %s", d.QuoteIdentifier(col.Name), ddlType))
	}
	stmts = append(stmts, alterStatements(qualified, addClauses, d.SupportsBatchedAlter())...)

	var dropClauses []string
	for _, name := range cs.Drops {
		dropClauses = append(dropClauses, fmt.Sprintf("DROP COLUMN %s", d.QuoteIdentifier(name)))
	}
	stmts = append(stmts, alterStatements(qualified, dropClauses, d.SupportsBatchedAlter())...)

	var lengthClauses []string
	for _, lc := range cs.LengthChanges {
		clause, err := d.AlterColumnTypeClause(lc.Column, lc.Length)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		lengthClauses = append(lengthClauses, clause)
	}
	stmts = append(stmts, alterStatements(qualified, lengthClauses, d.SupportsBatchedAlter())...)

	return stmts, nil
}

// alterStatements wraps ALTER clauses into statements: one statement
// with comma-separated clauses when the dialect batches, one statement
// per clause otherwise.
func alterStatements(qualified string, clauses []string, batched bool) []string {
	if len(clauses) == 0 {
		return nil
	}
	if batched {
		return []string{fmt.Sprintf("ALTER TABLE %s %s", qualified, strings.Join(clauses, ", "))}
	}
	stmts := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s %s", qualified, clause))
	}
	return stmts
}

// generateCreateTable produces a CREATE TABLE IF NOT EXISTS statement
// listing every desired column and a PRIMARY KEY constraint. A table
// with columns but no primary key is rejected; this engine has no
// notion of headless tables.
func generateCreateTable(t Table, d ddlDialect, defaultVarcharLength int) (string, error) {
	keys := t.PrimaryKeyColumns()
	if len(keys) == 0 {
		return "", fmt.Errorf("table %s: at least one primary_key column is required to create a table", t.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", d.QualifiedName(t.Schema, t.Name))

	for _, col := range t.Columns {
		ddlType, err := d.MapType(col, defaultVarcharLength)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  %s %s,\n", d.QuoteIdentifier(col.Name), ddlType)
	}

	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = d.QuoteIdentifier(k)
	}
	fmt.Fprintf(&b, "  PRIMARY KEY (%s)\n)", strings.Join(quoted, ", "))

	return b.String(), nil
}
