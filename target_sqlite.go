package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

type sqliteTargetDB struct {
	db *sql.DB
}

func (s *sqliteTargetDB) Name() string { return "SQLite" }

func (s *sqliteTargetDB) Connect(ctx context.Context, dsn string) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping sqlite: %w", err)
	}
	s.db = db
	return nil
}

func (s *sqliteTargetDB) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// Columns reads pragma_table_info. SQLite stores the declared type
// text, so varchar lengths are recovered by parsing declarations like
// "VARCHAR(150)".
func (s *sqliteTargetDB) Columns(ctx context.Context, _, table string) (ColumnSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, type FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := ColumnSnapshot{}
	for rows.Next() {
		var name, declType string
		if err := rows.Scan(&name, &declType); err != nil {
			return nil, err
		}
		snapshot[name] = parseDeclLength(declType)
	}
	return snapshot, rows.Err()
}

func (s *sqliteTargetDB) ColumnExists(ctx context.Context, _, table, column string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *sqliteTargetDB) Exec(ctx context.Context, stmt string) error {
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// ValidateTable rejects schema qualifiers: SQLite has no schemas in the
// information_schema sense, only attached databases.
func (s *sqliteTargetDB) ValidateTable(t Table) error {
	if t.Schema != "" {
		return fmt.Errorf("table %s: schema qualifiers are not supported on sqlite targets", t.Name)
	}
	return nil
}

func (s *sqliteTargetDB) MapType(col Column, defaultVarcharLength int) (string, error) {
	return resolveColumnType(sqliteTypes, col, defaultVarcharLength)
}

func (s *sqliteTargetDB) QuoteIdentifier(name string) string {
	return quoteIdent(name)
}

func (s *sqliteTargetDB) QualifiedName(_, table string) string {
	return quoteIdent(table)
}

func (s *sqliteTargetDB) SupportsBatchedAlter() bool { return false }

func (s *sqliteTargetDB) AlterColumnTypeClause(column string, length int) (string, error) {
	return "", fmt.Errorf("sqlite cannot change column %s to varchar(%d): ALTER COLUMN TYPE is not supported; recreate the table instead", column, length)
}
