// Package dispatch maps single keystrokes to state transitions on the
// active Console (spec.md §4.8). It owns nothing itself — every mutation
// lands on the Console and ViewCatalog the caller passes in — so it stays a
// pure function easy to table-test against the key table in the spec.
package dispatch

import (
	"fmt"

	"github.com/yibit/pgcenter/internal/console"
	"github.com/yibit/pgcenter/internal/viewcatalog"
)

// SwitchConsole is supplied by the Refresh Engine: given a 0-based console
// index, return that console and whether it has a connection configured.
type SwitchConsole func(id int) (*console.Console, bool)

// Result is what one Dispatch call produces: the status-line text to show,
// and — only when the user pressed 1-8 and it succeeded — the console to
// make active from now on.
type Result struct {
	Status          string
	NewActive       *console.Console
	ConsoleSwitch   bool
	EnterMinAgeEdit bool
}

// viewKeys maps the eight view-select keys to their ViewID, built once from
// viewcatalog so the two can never drift apart.
var viewKeys = func() map[rune]viewcatalog.ViewID {
	m := make(map[rune]viewcatalog.ViewID)
	for _, id := range []viewcatalog.ViewID{
		viewcatalog.Databases, viewcatalog.Replication, viewcatalog.UserTables,
		viewcatalog.UserIndexes, viewcatalog.StatioUserTables, viewcatalog.TableSizes,
		viewcatalog.LongActivity, viewcatalog.UserFunctions,
	} {
		m[id.Key()] = id
	}
	return m
}()

// Dispatch applies one keystroke to the active console c (whose ordinal
// among the consoles is activeOrdinal, 0-based, used only for the "stay on
// console N" status message). catalog supplies the view metadata Dispatch
// needs for sort stepping. switchConsole resolves a "1".."8" keypress.
func Dispatch(c *console.Console, activeOrdinal int, catalog viewcatalog.Catalog, switchConsole SwitchConsole, key rune) Result {
	if id, ok := viewKeys[key]; ok {
		c.SetView(id)
		return Result{Status: fmt.Sprintf("Show %s", id.CatalogName())}
	}

	if key >= '1' && key <= '8' {
		idx := int(key - '1')
		target, ok := switchConsole(idx)
		if !ok {
			return Result{Status: fmt.Sprintf(
				"Do not switch because no connection associated (stay on console %d)", activeOrdinal+1)}
		}
		return Result{Status: fmt.Sprintf("Switch to console %d", idx+1), NewActive: target, ConsoleSwitch: true}
	}

	switch key {
	case RightArrow:
		view := catalog[c.CurrentView]
		c.StepSort(view, +1)
		return Result{Status: "Sort column advanced"}
	case LeftArrow:
		view := catalog[c.CurrentView]
		c.StepSort(view, -1)
		return Result{Status: "Sort column retreated"}
	case 'm':
		if c.CurrentView != viewcatalog.LongActivity {
			return Result{Status: "unknown command"}
		}
		return Result{Status: "Enter new minimum age", EnterMinAgeEdit: true}
	}

	return Result{Status: "unknown command"}
}

// RightArrow and LeftArrow are the rune values this package expects the
// terminal input layer (internal/cli) to have already decoded from the raw
// escape sequences a terminal sends for the arrow keys.
const (
	RightArrow = rune(0xE0 + iota) // sentinel, decoded upstream from ESC [ C
	LeftArrow                      // sentinel, decoded upstream from ESC [ D
)
