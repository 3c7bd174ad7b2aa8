package main

import (
	"context"
	"fmt"
)

// TargetDB abstracts the reconciled database engine so tablesync can
// converge schemas on multiple targets (PostgreSQL, MySQL, SQLite).
// The connection handle lives inside the value; callers open it once,
// reuse it across reconciliation calls, and close it explicitly.
type TargetDB interface {
	// Name returns a human-readable name for the target.
	Name() string

	// Connect opens and pings the target connection.
	Connect(ctx context.Context, dsn string) error

	// Close releases the connection.
	Close()

	// Columns reads the live column snapshot for a table. A table that
	// does not exist yet yields an empty snapshot, not an error.
	Columns(ctx context.Context, schema, table string) (ColumnSnapshot, error)

	// ColumnExists re-checks the catalog for a single column. The
	// differ's rename pass uses it instead of the snapshot.
	ColumnExists(ctx context.Context, schema, table, column string) (bool, error)

	// Exec runs one DDL statement, blocking, no implicit transaction.
	Exec(ctx context.Context, stmt string) error

	// ValidateTable checks target-specific constraints on a desired
	// table before reconciliation starts.
	ValidateTable(t Table) error

	ddlDialect
}

// newTargetDB returns a TargetDB implementation for the given target type.
func newTargetDB(targetType string) (TargetDB, error) {
	switch targetType {
	case "postgres":
		return &postgresTargetDB{}, nil
	case "mysql":
		return &mysqlTargetDB{}, nil
	case "sqlite":
		return &sqliteTargetDB{}, nil
	default:
		return nil, fmt.Errorf("unsupported target type %q (must be postgres, mysql or sqlite)", targetType)
	}
}
