package main

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// fakeTarget reconciles against an in-memory snapshot, using the
// PostgreSQL dialect for statement syntax and recording every executed
// statement.
type fakeTarget struct {
	postgresTargetDB

	live     ColumnSnapshot
	executed []string
	failOn   string // substring; matching statements fail
}

func (f *fakeTarget) Connect(context.Context, string) error { return nil }
func (f *fakeTarget) Close()                                {}

func (f *fakeTarget) Columns(context.Context, string, string) (ColumnSnapshot, error) {
	snapshot := ColumnSnapshot{}
	for name, length := range f.live {
		snapshot[name] = length
	}
	return snapshot, nil
}

func (f *fakeTarget) ColumnExists(_ context.Context, _, _, column string) (bool, error) {
	_, ok := f.live[column]
	return ok, nil
}

func (f *fakeTarget) Exec(_ context.Context, stmt string) error {
	if f.failOn != "" && strings.Contains(stmt, f.failOn) {
		return fmt.Errorf("simulated failure")
	}
	f.executed = append(f.executed, stmt)
	return nil
}

func TestReconcileTable_CreatesMissingTable(t *testing.T) {
	table := Table{
		Name: "users",
		Columns: []Column{
			{Name: "id", Type: TypeUUID, PrimaryKey: true},
			{Name: "email", Type: TypeString, Length: 150},
		},
	}
	target := &fakeTarget{live: ColumnSnapshot{}}

	if err := reconcileTable(context.Background(), target, table, defaultVarcharLength, false); err != nil {
		t.Fatalf("reconcileTable() error: %v", err)
	}
	if len(target.executed) != 1 {
		t.Fatalf("executed = %v, want one CREATE statement", target.executed)
	}
	if !strings.HasPrefix(target.executed[0], "CREATE TABLE IF NOT EXISTS users") {
		t.Errorf("executed[0] = %q", target.executed[0])
	}
}

func TestReconcileTable_UpToDate(t *testing.T) {
	table := Table{
		Name: "users",
		Columns: []Column{
			{Name: "id", Type: TypeUUID, PrimaryKey: true},
			{Name: "email", Type: TypeString, Length: 150},
		},
	}
	target := &fakeTarget{live: ColumnSnapshot{"id": nil, "email": intp(150)}}

	if err := reconcileTable(context.Background(), target, table, defaultVarcharLength, false); err != nil {
		t.Fatalf("reconcileTable() error: %v", err)
	}
	if len(target.executed) != 0 {
		t.Errorf("converged table executed %v, want nothing", target.executed)
	}
}

func TestReconcileTable_AppliesChangesInOrder(t *testing.T) {
	table := Table{
		Name: "users",
		Columns: []Column{
			{Name: "id", Type: TypeUUID, PrimaryKey: true},
			{Name: "email", Type: TypeString, Length: 200, RenameFrom: "email_addr"},
			{Name: "created_at", Type: TypeTimestamp},
		},
	}
	target := &fakeTarget{live: ColumnSnapshot{"id": nil, "email_addr": intp(150), "legacy": nil}}

	if err := reconcileTable(context.Background(), target, table, defaultVarcharLength, false); err != nil {
		t.Fatalf("reconcileTable() error: %v", err)
	}
	if len(target.executed) != 4 {
		t.Fatalf("executed %d statements, want 4: %v", len(target.executed), target.executed)
	}

	order := []string{"RENAME COLUMN", "ADD COLUMN", "DROP COLUMN", "ALTER COLUMN"}
	for i, marker := range order {
		if !strings.Contains(target.executed[i], marker) {
			t.Errorf("executed[%d] = %q, want a %s statement", i, target.executed[i], marker)
		}
	}
}

func TestReconcileTable_RoundTrip(t *testing.T) {
	table := Table{
		Name: "users",
		Columns: []Column{
			{Name: "id", Type: TypeUUID, PrimaryKey: true},
			{Name: "email", Type: TypeString, Length: 200, RenameFrom: "email_addr"},
		},
	}
	target := &fakeTarget{live: ColumnSnapshot{"id": nil, "email_addr": intp(150), "legacy": nil}}

	if err := reconcileTable(context.Background(), target, table, defaultVarcharLength, false); err != nil {
		t.Fatalf("first reconcile error: %v", err)
	}
	if len(target.executed) == 0 {
		t.Fatal("first reconcile should have executed statements")
	}

	// Advance the live snapshot to what the executed statements produce
	// and reconcile again: the second pass must be a no-op.
	target.live = ColumnSnapshot{"id": nil, "email": intp(200)}
	target.executed = nil

	if err := reconcileTable(context.Background(), target, table, defaultVarcharLength, false); err != nil {
		t.Fatalf("second reconcile error: %v", err)
	}
	if len(target.executed) != 0 {
		t.Errorf("second reconcile executed %v, want nothing", target.executed)
	}
}

func TestReconcileTable_DryRun(t *testing.T) {
	table := Table{
		Name:    "users",
		Columns: []Column{{Name: "id", Type: TypeUUID, PrimaryKey: true}},
	}
	target := &fakeTarget{live: ColumnSnapshot{}}

	if err := reconcileTable(context.Background(), target, table, defaultVarcharLength, true); err != nil {
		t.Fatalf("reconcileTable() error: %v", err)
	}
	if len(target.executed) != 0 {
		t.Errorf("dry run executed %v, want nothing", target.executed)
	}
}

func TestReconcileTable_ExecErrorAbortsSequence(t *testing.T) {
	table := Table{
		Name: "users",
		Columns: []Column{
			{Name: "id", Type: TypeUUID, PrimaryKey: true},
			{Name: "a", Type: TypeInteger},
		},
	}
	// addition + drop pending; fail the drop
	target := &fakeTarget{
		live:   ColumnSnapshot{"id": nil, "legacy": nil},
		failOn: "DROP COLUMN",
	}

	err := reconcileTable(context.Background(), target, table, defaultVarcharLength, false)
	if err == nil {
		t.Fatal("expected execution error")
	}
	// The failed statement text must be in the error for diagnosability.
	if !strings.Contains(err.Error(), "DROP COLUMN") {
		t.Errorf("error should carry the statement text, got: %v", err)
	}
	// The addition ran before the failing drop; nothing after it did.
	if len(target.executed) != 1 || !strings.Contains(target.executed[0], "ADD COLUMN") {
		t.Errorf("executed = %v, want only the ADD COLUMN statement", target.executed)
	}
}

func TestReconcileTable_SQLiteRejectsSchema(t *testing.T) {
	table := Table{
		Schema:  "app",
		Name:    "users",
		Columns: []Column{{Name: "id", Type: TypeInteger, PrimaryKey: true}},
	}

	err := reconcileTable(context.Background(), &sqliteTargetDB{}, table, defaultVarcharLength, false)
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("expected schema-qualifier rejection, got: %v", err)
	}
}

func TestReconcileAll_DeclaredOrder(t *testing.T) {
	tables := []Table{
		{Name: "users", Columns: []Column{{Name: "id", Type: TypeUUID, PrimaryKey: true}}},
		{Name: "events", Columns: []Column{{Name: "id", Type: TypeInteger, PrimaryKey: true}}},
	}
	target := &fakeTarget{live: ColumnSnapshot{}}

	if err := reconcileAll(context.Background(), target, tables, defaultVarcharLength, false); err != nil {
		t.Fatalf("reconcileAll() error: %v", err)
	}
	if len(target.executed) != 2 {
		t.Fatalf("executed = %v, want two CREATE statements", target.executed)
	}
	if !strings.Contains(target.executed[0], "users") || !strings.Contains(target.executed[1], "events") {
		t.Errorf("tables should reconcile in declared order, got %v", target.executed)
	}
}
