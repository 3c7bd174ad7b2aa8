package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

type mysqlTargetDB struct {
	db *sql.DB
}

func (m *mysqlTargetDB) Name() string { return "MySQL" }

func (m *mysqlTargetDB) Connect(ctx context.Context, dsn string) error {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	// DDL is administrative and sequential; one connection is enough.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping mysql: %w", err)
	}
	m.db = db
	return nil
}

func (m *mysqlTargetDB) Close() {
	if m.db != nil {
		m.db.Close()
	}
}

func (m *mysqlTargetDB) Columns(ctx context.Context, schema, table string) (ColumnSnapshot, error) {
	if schema == "" {
		return querySnapshot(m.db,
			`SELECT COLUMN_NAME, CHARACTER_MAXIMUM_LENGTH
			 FROM INFORMATION_SCHEMA.COLUMNS
			 WHERE TABLE_NAME = ? AND TABLE_SCHEMA = DATABASE()`,
			table)
	}
	return querySnapshot(m.db,
		`SELECT COLUMN_NAME, CHARACTER_MAXIMUM_LENGTH
		 FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_NAME = ? AND TABLE_SCHEMA = ?`,
		table, schema)
}

func (m *mysqlTargetDB) ColumnExists(ctx context.Context, schema, table, column string) (bool, error) {
	query := `SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = ? AND COLUMN_NAME = ? AND TABLE_SCHEMA = DATABASE()`
	args := []any{table, column}
	if schema != "" {
		query = `SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS
			WHERE TABLE_NAME = ? AND COLUMN_NAME = ? AND TABLE_SCHEMA = ?`
		args = append(args, schema)
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *mysqlTargetDB) Exec(ctx context.Context, stmt string) error {
	_, err := m.db.ExecContext(ctx, stmt)
	return err
}

func (m *mysqlTargetDB) ValidateTable(Table) error { return nil }

func (m *mysqlTargetDB) MapType(col Column, defaultVarcharLength int) (string, error) {
	return resolveColumnType(mysqlTypes, col, defaultVarcharLength)
}

func (m *mysqlTargetDB) QuoteIdentifier(name string) string {
	return backquoteIdent(name)
}

func (m *mysqlTargetDB) QualifiedName(schema, table string) string {
	if schema == "" {
		return backquoteIdent(table)
	}
	return backquoteIdent(schema) + "." + backquoteIdent(table)
}

func (m *mysqlTargetDB) SupportsBatchedAlter() bool { return true }

func (m *mysqlTargetDB) AlterColumnTypeClause(column string, length int) (string, error) {
	return fmt.Sprintf("MODIFY COLUMN %s varchar(%d)", backquoteIdent(column), length), nil
}
