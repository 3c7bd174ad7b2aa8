package main

import (
	"context"
	"fmt"
	"sort"
)

// Rename is one column rename, old name to new name.
type Rename struct {
	From string
	To   string
}

// LengthChange is a varchar length adjustment keyed to the column's
// current (possibly just-renamed) name.
type LengthChange struct {
	Column string
	Length int
}

// ChangeSet is the differ's decision set. The four lists are disjoint:
// a desired column is either a rename target or an addition, never
// both, and a live column is either a rename source or a drop, never
// both. A renamed column may additionally carry a length change.
type ChangeSet struct {
	Renames       []Rename
	Additions     []Column
	Drops         []string
	LengthChanges []LengthChange
}

// Empty reports whether the schemas already converge.
func (cs *ChangeSet) Empty() bool {
	return len(cs.Renames) == 0 && len(cs.Additions) == 0 &&
		len(cs.Drops) == 0 && len(cs.LengthChanges) == 0
}

// columnChecker answers whether a live column exists right now. The
// rename pass re-checks the catalog through it instead of trusting the
// snapshot, tolerating staleness between the snapshot read and the diff.
type columnChecker func(ctx context.Context, name string) (bool, error)

// diffTable computes the changes needed to converge the live table
// shape to the desired one. Renames are resolved first: a rename
// target must never be double-counted as an addition and its source
// must never be double-counted as a drop.
func diffTable(ctx context.Context, t Table, live ColumnSnapshot, liveColumn columnChecker) (*ChangeSet, error) {
	cs := &ChangeSet{}

	// Rename pass. renamedFrom remembers which live column each rename
	// consumed; renamedTo marks desired columns excluded from the
	// addition pass.
	renamedFrom := map[string]string{}
	renamedTo := map[string]bool{}
	for _, col := range t.Columns {
		if col.RenameFrom == "" {
			continue
		}
		if prior, ok := renamedFrom[col.RenameFrom]; ok {
			return nil, fmt.Errorf(
				"reconciliation conflict on %s: columns %s and %s both declare rename_from %s",
				t.Name, prior, col.Name, col.RenameFrom)
		}

		exists, err := liveColumn(ctx, col.RenameFrom)
		if err != nil {
			return nil, fmt.Errorf("check live column %s.%s: %w", t.Name, col.RenameFrom, err)
		}
		if !exists {
			// Old name already gone: the rename landed earlier or the
			// column is simply new. The addition pass decides.
			continue
		}

		if _, taken := live[col.Name]; taken {
			return nil, fmt.Errorf(
				"reconciliation conflict on %s: rename %s -> %s collides with existing column %s",
				t.Name, col.RenameFrom, col.Name, col.Name)
		}

		cs.Renames = append(cs.Renames, Rename{From: col.RenameFrom, To: col.Name})
		renamedFrom[col.RenameFrom] = col.Name
		renamedTo[col.Name] = true
	}

	// Addition pass, in declared column order.
	for _, col := range t.Columns {
		if renamedTo[col.Name] {
			continue
		}
		if _, ok := live[col.Name]; ok {
			continue
		}
		cs.Additions = append(cs.Additions, col)
	}

	// Drop pass. Snapshot iteration order is random; sort so the
	// synthesized statement is stable.
	var liveNames []string
	for name := range live {
		liveNames = append(liveNames, name)
	}
	sort.Strings(liveNames)
	for _, name := range liveNames {
		if t.HasColumn(name) {
			continue
		}
		if _, consumed := renamedFrom[name]; consumed {
			continue
		}
		cs.Drops = append(cs.Drops, name)
	}

	// Length-change pass. The current recorded length is looked up
	// under the column's name first, then under its original name to
	// cover a rename applied in this same pass.
	for _, col := range t.Columns {
		if col.Type != TypeString || col.Length <= 0 {
			continue
		}
		current, ok := live.Length(col.Name)
		if !ok && col.RenameFrom != "" {
			current, ok = live.Length(col.RenameFrom)
		}
		if !ok {
			// Freshly added column; the addition already carries the length.
			continue
		}
		if current == nil || *current != col.Length {
			cs.LengthChanges = append(cs.LengthChanges, LengthChange{Column: col.Name, Length: col.Length})
		}
	}

	return cs, nil
}
