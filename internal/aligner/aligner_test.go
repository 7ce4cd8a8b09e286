package aligner

import (
	"testing"

	"github.com/yibit/pgcenter/internal/console"
	"github.com/yibit/pgcenter/internal/resulttable"
	"github.com/yibit/pgcenter/internal/viewcatalog"
)

func newOpenConsole() *console.Console {
	c := console.New(0, viewcatalog.Default())
	c.Open(console.ConnParams{Host: "localhost", Port: "5432", DBName: "db", User: "u"})
	return c
}

func TestAlignFirstTickSkipsAndPromotesBaseline(t *testing.T) {
	c := newOpenConsole()
	view := viewcatalog.View{DiffMin: -1, DiffMax: -1}
	curr := resulttable.New([]string{"a"}, [][]string{{"1"}, {"2"}})

	out := Align(c, view, curr)

	if out.Render {
		t.Fatalf("first tick after open must not render")
	}
	if c.FirstIter {
		t.Fatalf("first_iter must clear after the baseline is adopted")
	}
	if c.PreviousTable != curr || c.PreviousRowCount != 2 {
		t.Fatalf("baseline was not promoted to the current table")
	}
}

func TestAlignRowGrowthRebasesWithoutRendering(t *testing.T) {
	c := newOpenConsole()
	view := viewcatalog.View{DiffMin: -1, DiffMax: -1}

	first := resulttable.New([]string{"a"}, [][]string{{"1"}})
	Align(c, view, first) // establish baseline, 1 row

	second := resulttable.New([]string{"a"}, [][]string{{"1"}, {"2"}})
	out := Align(c, view, second)

	if out.Render {
		t.Fatalf("row-count growth must skip rendering")
	}
	if c.PreviousRowCount != 2 || c.PreviousTable != second {
		t.Fatalf("row-count growth must rebase to the larger table")
	}

	third := resulttable.New([]string{"a"}, [][]string{{"5"}, {"6"}})
	out = Align(c, view, third)
	if !out.Render {
		t.Fatalf("third tick at steady row count must render a diff")
	}
}

func TestAlignSteadyRowCountDiffsAgainstBaseline(t *testing.T) {
	c := newOpenConsole()
	view := viewcatalog.View{DiffMin: 0, DiffMax: 0}

	first := resulttable.New([]string{"n"}, [][]string{{"10"}})
	Align(c, view, first)

	second := resulttable.New([]string{"n"}, [][]string{{"15"}})
	out := Align(c, view, second)

	if !out.Render {
		t.Fatalf("steady row count must render")
	}
	if out.Result.Rows[0][0] != "5" {
		t.Fatalf("expected diff 15-10=5, got %q", out.Result.Rows[0][0])
	}
}

func TestAlignShrinkDoesNotRebase(t *testing.T) {
	// Documented, intentionally preserved ambiguity: a row-count shrink is
	// NOT treated as a rebase trigger, matching the upstream source.
	c := newOpenConsole()
	view := viewcatalog.View{DiffMin: -1, DiffMax: -1}

	first := resulttable.New([]string{"a"}, [][]string{{"1"}, {"2"}})
	Align(c, view, first)

	second := resulttable.New([]string{"a"}, [][]string{{"9"}})
	out := Align(c, view, second)

	if !out.Render {
		t.Fatalf("a shrink must still render (it is diffed, not skipped)")
	}
	if c.PreviousRowCount != 1 {
		t.Fatalf("baseline row count should update to the new (smaller) count")
	}
}
