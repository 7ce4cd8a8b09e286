// Package aligner implements the Snapshot Aligner (spec.md §4.4): the
// per-console state machine that decides whether the current tick's table
// is comparable to the previous one, and if not, rebases the baseline
// instead of attempting a diff.
package aligner

import (
	"github.com/yibit/pgcenter/internal/console"
	"github.com/yibit/pgcenter/internal/resulttable"
	"github.com/yibit/pgcenter/internal/viewcatalog"
)

// Outcome carries what the caller (the Refresh Engine) should do this tick.
type Outcome struct {
	// Render is false on a "skip tick": the baseline was just (re)established
	// and there is nothing yet to diff against.
	Render bool
	// Result is the (already-diffed) table to sort and render. Only valid
	// when Render is true.
	Result *resulttable.Table
}

// Align runs one tick of the state machine described in spec.md §4.4 against
// c using the freshly fetched table current, and leaves c's baseline fields
// (PreviousTable, PreviousRowCount, FirstIter) updated for the next tick.
//
// The three branches, in order:
//
//  1. First iteration after a view/console (re)open: adopt current as the
//     baseline and skip rendering.
//  2. Row count grew since last tick: the object set changed (new tables,
//     new sessions, ...); adopt current as the new baseline and skip
//     rendering rather than mis-pairing rows.
//  3. Otherwise (row count steady, or — per the documented ambiguity this
//     implementation intentionally preserves — shrank): diff against the
//     existing baseline and render.
//
// The shrink case is deliberately NOT rebased, matching the upstream
// source's behavior (see DESIGN.md for the rationale): row identities may
// not survive a drop, so a positional diff on a smaller table can mis-pair
// rows, but the source tolerates this silently rather than losing a tick's
// data on every DROP TABLE.
func Align(c *console.Console, view viewcatalog.View, current *resulttable.Table) Outcome {
	n := current.NRows()

	if c.FirstIter {
		c.PreviousTable = current
		c.PreviousRowCount = n
		c.FirstIter = false
		return Outcome{Render: false}
	}

	if n > c.PreviousRowCount {
		c.PreviousTable = current
		c.PreviousRowCount = n
		return Outcome{Render: false}
	}

	prev := c.PreviousTable
	result := resulttable.Diff(prev, current, view)
	c.PreviousTable = current
	c.PreviousRowCount = n
	return Outcome{Render: true, Result: result}
}
