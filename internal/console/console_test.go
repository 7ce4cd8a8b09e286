package console

import (
	"testing"

	"github.com/yibit/pgcenter/internal/viewcatalog"
)

func TestStepSortWrapsAroundAndReturnsToStart(t *testing.T) {
	catalog := viewcatalog.Default()
	c := New(0, catalog)
	view := catalog[viewcatalog.Databases] // SortMin=2, SortMax=6

	span := view.SortMax - view.SortMin + 1
	start := c.Sort().OrderKey

	for i := 0; i < span; i++ {
		c.StepSort(view, +1)
	}
	if c.Sort().OrderKey != start {
		t.Fatalf("after %d presses of -> should be back at start %d, got %d", span, start, c.Sort().OrderKey)
	}

	for i := 0; i < span; i++ {
		c.StepSort(view, -1)
	}
	if c.Sort().OrderKey != start {
		t.Fatalf("after %d presses of <- should be back at start %d, got %d", span, start, c.Sort().OrderKey)
	}
}

func TestStepSortOnUnsortableViewIsNoop(t *testing.T) {
	catalog := viewcatalog.Default()
	c := New(0, catalog)
	c.SetView(viewcatalog.LongActivity)
	view := catalog[viewcatalog.LongActivity]

	before := c.Sort()
	c.StepSort(view, +1)
	if c.Sort() != before {
		t.Fatalf("stepping sort on an unsortable view must be a no-op")
	}
}

func TestStepSortOnServerSideViewForcesFirstIter(t *testing.T) {
	catalog := viewcatalog.Default()
	c := New(0, catalog)
	c.SetView(viewcatalog.UserFunctions)
	c.FirstIter = false
	view := catalog[viewcatalog.UserFunctions]

	c.StepSort(view, +1)
	if !c.FirstIter {
		t.Fatalf("stepping sort on a server-side-sorted view must force a rebase")
	}
}

func TestSetMinAgeAcceptsValidFormats(t *testing.T) {
	c := New(0, viewcatalog.Default())
	for _, valid := range []string{"00:00:00", "23:59:59", "01:02:03.99"} {
		if err := c.SetMinAge(valid); err != nil {
			t.Errorf("expected %q to be accepted, got error: %v", valid, err)
		}
	}
}

func TestSetMinAgeRejectsInvalidFormats(t *testing.T) {
	c := New(0, viewcatalog.Default())
	c.MinAge = "untouched"
	for _, invalid := range []string{"24:00:00", "00:60:00", "abc"} {
		if err := c.SetMinAge(invalid); err == nil {
			t.Errorf("expected %q to be rejected", invalid)
		}
		if c.MinAge != "untouched" {
			t.Errorf("a rejected value must leave MinAge unchanged, got %q", c.MinAge)
		}
	}
}

func TestSetMinAgeEmptyIsNoop(t *testing.T) {
	c := New(0, viewcatalog.Default())
	c.MinAge = "untouched"
	c.FirstIter = false
	if err := c.SetMinAge(""); err != nil {
		t.Fatalf("empty commit must not be an error, got %v", err)
	}
	if c.MinAge != "untouched" {
		t.Errorf("empty commit must leave MinAge unchanged, got %q", c.MinAge)
	}
	if c.FirstIter {
		t.Errorf("empty commit must not force a rebase")
	}
}

func TestConnParamsLabelAndDSN(t *testing.T) {
	p := ConnParams{Host: "db1", Port: "5432", User: "alice", DBName: "orders"}
	if got, want := p.Label(), "db1:5432 alice@orders"; got != want {
		t.Fatalf("Label() = %q, want %q", got, want)
	}
	if got := p.DSN(); got != "host=db1 port=5432 dbname=orders user=alice" {
		t.Fatalf("DSN() = %q", got)
	}
}
