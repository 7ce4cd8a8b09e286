package dispatch

import (
	"testing"

	"github.com/yibit/pgcenter/internal/console"
	"github.com/yibit/pgcenter/internal/viewcatalog"
)

func TestDispatchViewKeysSwitchViewAndForceRebase(t *testing.T) {
	catalog := viewcatalog.Default()
	c := console.New(0, catalog)
	c.FirstIter = false

	result := Dispatch(c, 0, catalog, noSwitch, 'r')

	if c.CurrentView != viewcatalog.Replication {
		t.Fatalf("expected view Replication, got %v", c.CurrentView)
	}
	if !c.FirstIter {
		t.Fatalf("a view switch must force first_iter = true")
	}
	if result.Status != "Show pg_stat_replication" {
		t.Fatalf("unexpected status: %q", result.Status)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	catalog := viewcatalog.Default()
	c := console.New(0, catalog)

	result := Dispatch(c, 0, catalog, noSwitch, 'z')
	if result.Status != "unknown command" {
		t.Fatalf("expected \"unknown command\", got %q", result.Status)
	}
}

func TestDispatchConsoleSwitchDeniedWhenUnconfigured(t *testing.T) {
	catalog := viewcatalog.Default()
	c := console.New(0, catalog)

	result := Dispatch(c, 0, catalog, noSwitch, '2')
	if result.ConsoleSwitch {
		t.Fatalf("switching to an unconfigured console must be denied")
	}
	if result.Status != "Do not switch because no connection associated (stay on console 1)" {
		t.Fatalf("unexpected status: %q", result.Status)
	}
}

func TestDispatchConsoleSwitchSucceeds(t *testing.T) {
	catalog := viewcatalog.Default()
	c := console.New(0, catalog)
	target := console.New(1, catalog)
	target.ConnUsed = true

	switchFn := func(idx int) (*console.Console, bool) {
		if idx == 1 {
			return target, true
		}
		return nil, false
	}

	result := Dispatch(c, 0, catalog, switchFn, '2')
	if !result.ConsoleSwitch || result.NewActive != target {
		t.Fatalf("expected a successful switch to console 2")
	}
}

func TestDispatchArrowKeysStepSort(t *testing.T) {
	catalog := viewcatalog.Default()
	c := console.New(0, catalog)
	start := c.Sort().OrderKey

	Dispatch(c, 0, catalog, noSwitch, RightArrow)
	if c.Sort().OrderKey == start {
		t.Fatalf("right arrow should have advanced the sort column")
	}

	Dispatch(c, 0, catalog, noSwitch, LeftArrow)
	if c.Sort().OrderKey != start {
		t.Fatalf("left arrow should have retreated back to the start")
	}
}

func TestDispatchMOnlyValidOnLongActivity(t *testing.T) {
	catalog := viewcatalog.Default()
	c := console.New(0, catalog) // starts on Databases

	result := Dispatch(c, 0, catalog, noSwitch, 'm')
	if result.EnterMinAgeEdit {
		t.Fatalf("'m' must be rejected outside the long-activity view")
	}

	c.SetView(viewcatalog.LongActivity)
	result = Dispatch(c, 0, catalog, noSwitch, 'm')
	if !result.EnterMinAgeEdit {
		t.Fatalf("'m' on long-activity should enter the min_age editor")
	}
}

func noSwitch(int) (*console.Console, bool) { return nil, false }
