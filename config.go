package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultVarcharLength = 255

// SyncConfig holds the full TOML-driven sync configuration. The TOML
// file is the declarative model: target connection plus an ordered
// list of tables with ordered columns.
type SyncConfig struct {
	Target               TargetConfig  `toml:"target"`
	DefaultVarcharLength int           `toml:"default_varchar_length"`
	Tables               []TableConfig `toml:"table"`
}

// TargetConfig identifies the target database engine and connection string.
type TargetConfig struct {
	Type   string `toml:"type"` // "postgres", "mysql" or "sqlite"
	DSN    string `toml:"dsn"`
	Schema string `toml:"schema"` // default schema for unqualified tables
}

type TableConfig struct {
	Name    string         `toml:"name"`
	Schema  string         `toml:"schema"` // overrides target.schema when set
	Columns []ColumnConfig `toml:"column"`
}

type ColumnConfig struct {
	Name       string `toml:"name"`
	Type       string `toml:"type"`
	Length     int    `toml:"length"`
	PrimaryKey bool   `toml:"primary_key"`
	DBDefault  string `toml:"db_default"`
	RenameFrom string `toml:"rename_from"`
}

// loadConfig reads a TOML config file and returns a SyncConfig with
// defaults applied and every column descriptor validated.
func loadConfig(path string) (*SyncConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := SyncConfig{
		DefaultVarcharLength: defaultVarcharLength,
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if cfg.Target.Type == "" {
		return nil, fmt.Errorf("target.type is required (must be postgres, mysql or sqlite)")
	}
	if _, err := newTargetDB(cfg.Target.Type); err != nil {
		return nil, err
	}
	if cfg.Target.DSN == "" {
		return nil, fmt.Errorf("target.dsn is required")
	}
	cfg.Target.Schema = strings.TrimSpace(cfg.Target.Schema)

	if cfg.DefaultVarcharLength <= 0 {
		return nil, fmt.Errorf("default_varchar_length must be positive")
	}

	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("at least one [[table]] is required")
	}
	for i := range cfg.Tables {
		if err := validateTableConfig(&cfg.Tables[i]); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

func validateTableConfig(tc *TableConfig) error {
	if tc.Name == "" {
		return fmt.Errorf("table name is required")
	}
	if len(tc.Columns) == 0 {
		return fmt.Errorf("table %s: at least one [[table.column]] is required", tc.Name)
	}

	// Unquoted identifiers case-fold in both Postgres and MySQL, so two
	// declared columns that differ only in case would silently alias.
	seen := map[string]string{}
	renameFrom := map[string]string{}
	for _, cc := range tc.Columns {
		col := cc.descriptor()
		if err := col.validate(); err != nil {
			return fmt.Errorf("table %s: %w", tc.Name, err)
		}
		folded := strings.ToLower(cc.Name)
		if prior, dup := seen[folded]; dup {
			return fmt.Errorf("table %s: columns %s and %s collide (identifiers are case-folded)", tc.Name, prior, cc.Name)
		}
		seen[folded] = cc.Name
		if cc.RenameFrom != "" {
			if prior, dup := renameFrom[cc.RenameFrom]; dup {
				return fmt.Errorf("table %s: columns %s and %s both declare rename_from %s", tc.Name, prior, cc.Name, cc.RenameFrom)
			}
			renameFrom[cc.RenameFrom] = cc.Name
		}
	}
	return nil
}

func (cc ColumnConfig) descriptor() Column {
	return Column{
		Name:       cc.Name,
		Type:       SemanticType(cc.Type),
		Length:     cc.Length,
		PrimaryKey: cc.PrimaryKey,
		DBDefault:  cc.DBDefault,
		RenameFrom: cc.RenameFrom,
	}
}

// DesiredTables converts the declared config into model tables,
// preserving declaration order and applying the target-level schema to
// tables without their own.
func (c *SyncConfig) DesiredTables() []Table {
	tables := make([]Table, 0, len(c.Tables))
	for _, tc := range c.Tables {
		schema := tc.Schema
		if schema == "" {
			schema = c.Target.Schema
		}
		t := Table{Schema: schema, Name: tc.Name}
		for _, cc := range tc.Columns {
			t.Columns = append(t.Columns, cc.descriptor())
		}
		tables = append(tables, t)
	}
	return tables
}
