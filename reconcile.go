package main

import (
	"context"
	"fmt"
	"log"
)

// reconcileTable converges one table's live shape to its declared
// shape: snapshot the catalog, diff, synthesize DDL, execute in order.
// A failed statement aborts the remaining sequence; already-executed
// statements stay applied, since each runs outside a shared
// transaction.
func reconcileTable(ctx context.Context, target TargetDB, t Table, defaultVarcharLength int, dryRun bool) error {
	if err := target.ValidateTable(t); err != nil {
		return err
	}

	live, err := target.Columns(ctx, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("read catalog for %s: %w", t.Name, err)
	}

	liveColumn := func(ctx context.Context, name string) (bool, error) {
		return target.ColumnExists(ctx, t.Schema, t.Name, name)
	}
	changes, err := diffTable(ctx, t, live, liveColumn)
	if err != nil {
		return err
	}

	stmts, err := synthesizeDDL(t, live, changes, target, defaultVarcharLength)
	if err != nil {
		return err
	}

	if len(live) == 0 && len(stmts) > 0 {
		log.Printf("  %s: creating (%d columns)", t.Name, len(t.Columns))
	} else if changes.Empty() {
		log.Printf("  %s: up to date", t.Name)
		return nil
	} else {
		log.Printf("  %s: %d renames, %d additions, %d drops, %d length changes",
			t.Name, len(changes.Renames), len(changes.Additions), len(changes.Drops), len(changes.LengthChanges))
	}

	for _, stmt := range stmts {
		if dryRun {
			log.Printf("  would execute: %s", stmt)
			continue
		}
		if err := target.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("alter %s: %w\nDDL: %s", t.Name, err, stmt)
		}
	}
	return nil
}

// reconcileAll walks every declared table in order.
func reconcileAll(ctx context.Context, target TargetDB, tables []Table, defaultVarcharLength int, dryRun bool) error {
	for _, t := range tables {
		if err := reconcileTable(ctx, target, t, defaultVarcharLength, dryRun); err != nil {
			return err
		}
	}
	return nil
}
