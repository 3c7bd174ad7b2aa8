package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresTargetDB struct {
	pool *pgxpool.Pool
}

func (p *postgresTargetDB) Name() string { return "PostgreSQL" }

func (p *postgresTargetDB) Connect(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	p.pool = pool
	return nil
}

func (p *postgresTargetDB) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *postgresTargetDB) Columns(ctx context.Context, schema, table string) (ColumnSnapshot, error) {
	query := `SELECT column_name, character_maximum_length
		FROM information_schema.columns
		WHERE table_name = $1 AND table_schema = current_schema()`
	args := []any{table}
	if schema != "" {
		query = `SELECT column_name, character_maximum_length
			FROM information_schema.columns
			WHERE table_name = $1 AND table_schema = $2`
		args = append(args, schema)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := ColumnSnapshot{}
	for rows.Next() {
		var name string
		var length *int
		if err := rows.Scan(&name, &length); err != nil {
			return nil, err
		}
		snapshot[name] = length
	}
	return snapshot, rows.Err()
}

func (p *postgresTargetDB) ColumnExists(ctx context.Context, schema, table, column string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM information_schema.columns
		WHERE table_name = $1 AND column_name = $2 AND table_schema = current_schema())`
	args := []any{table, column}
	if schema != "" {
		query = `SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = $1 AND column_name = $2 AND table_schema = $3)`
		args = append(args, schema)
	}

	var exists bool
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (p *postgresTargetDB) Exec(ctx context.Context, stmt string) error {
	_, err := p.pool.Exec(ctx, stmt)
	return err
}

func (p *postgresTargetDB) ValidateTable(Table) error { return nil }

func (p *postgresTargetDB) MapType(col Column, defaultVarcharLength int) (string, error) {
	return resolveColumnType(postgresTypes, col, defaultVarcharLength)
}

func (p *postgresTargetDB) QuoteIdentifier(name string) string {
	return quoteIdent(name)
}

func (p *postgresTargetDB) QualifiedName(schema, table string) string {
	if schema == "" {
		return quoteIdent(table)
	}
	return quoteIdent(schema) + "." + quoteIdent(table)
}

func (p *postgresTargetDB) SupportsBatchedAlter() bool { return true }

func (p *postgresTargetDB) AlterColumnTypeClause(column string, length int) (string, error) {
	return fmt.Sprintf("ALTER COLUMN %s TYPE varchar(%d)", quoteIdent(column), length), nil
}
