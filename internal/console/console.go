// Package console models one of the up to eight independent connections a
// user can maintain (spec.md §3, §4.6). A Console owns its active view, a
// SortState per view, the minimum-age filter used by the long-activity view,
// and the previous-tick snapshot the Snapshot Aligner compares against.
package console

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yibit/pgcenter/internal/resulttable"
	"github.com/yibit/pgcenter/internal/viewcatalog"
)

// MaxConsoles is the hard upper bound on simultaneous connections (spec.md
// Design Notes: "Hardcoded console count... keep it as a named constant so
// it can be lifted without touching logic").
const MaxConsoles = 8

// DefaultMinAge is the minimum-age filter a freshly opened console starts
// with for the long-activity view.
const DefaultMinAge = "00:00:00"

// ConnParams carries what is needed to open a connection to the observed
// server. Building the final DSN is this package's job (DSN), not the
// caller's — pgstat.Connect takes the already-built string.
type ConnParams struct {
	Host     string
	Port     string
	DBName   string
	User     string
	Password string
}

// DSN formats the libpq-style keyword/value connection string once; callers
// should cache it rather than re-deriving it every tick.
func (c ConnParams) DSN() string {
	var b strings.Builder
	fmt.Fprintf(&b, "host=%s port=%s dbname=%s user=%s", c.Host, c.Port, c.DBName, c.User)
	if c.Password != "" {
		fmt.Fprintf(&b, " password=%s", c.Password)
	}
	return b.String()
}

// Label renders "host:port user@dbname" for status and summary lines.
func (c ConnParams) Label() string {
	return fmt.Sprintf("%s:%s %s@%s", c.Host, c.Port, c.User, c.DBName)
}

// SortState is the per-(Console,View) sort configuration. Invariant:
// sort_min <= OrderKey <= sort_max whenever the owning view is sortable.
type SortState struct {
	OrderKey int
	Desc     bool
}

// Console is one connection slot. Zero value is a console with no
// connection configured (ConnUsed == false).
type Console struct {
	ID               int
	ConnUsed         bool
	Conn             ConnParams
	CurrentView      viewcatalog.ViewID
	Sorts            map[viewcatalog.ViewID]SortState
	MinAge           string
	PreviousTable    *resulttable.Table
	PreviousRowCount int
	FirstIter        bool
}

// New builds an unconfigured console seeded with every view's default sort
// state (desc by default, matching the source's "most active first"
// presentation).
func New(id int, catalog viewcatalog.Catalog) *Console {
	sorts := make(map[viewcatalog.ViewID]SortState, len(catalog))
	for id, v := range catalog {
		sorts[id] = SortState{OrderKey: v.DefaultSort(), Desc: true}
	}
	return &Console{
		ID:          id,
		CurrentView: viewcatalog.Databases,
		Sorts:       sorts,
		MinAge:      DefaultMinAge,
		FirstIter:   true,
	}
}

// Open marks the console as connected and resets its baseline: a freshly
// (re)opened console always starts on its first iteration.
func (c *Console) Open(conn ConnParams) {
	c.Conn = conn
	c.ConnUsed = true
	c.FirstIter = true
	c.PreviousTable = nil
	c.PreviousRowCount = 0
}

// SetView switches the active view. Per spec.md §4.6, any view change
// invalidates the baseline.
func (c *Console) SetView(id viewcatalog.ViewID) {
	c.CurrentView = id
	c.FirstIter = true
}

// Sort returns the current console's sort state for its active view.
func (c *Console) Sort() SortState {
	return c.Sorts[c.CurrentView]
}

// StepSort advances the active view's sort column by delta (+1 or -1),
// wrapping within [sort_min, sort_max]. A no-op on unsortable views.
// user-functions is server-side-sorted, so stepping it also forces a
// rebase (FirstIter = true) because the row ordering itself changes.
func (c *Console) StepSort(view viewcatalog.View, delta int) {
	if !view.Sortable() {
		return
	}
	s := c.Sorts[c.CurrentView]
	span := view.SortMax - view.SortMin + 1
	offset := s.OrderKey - view.SortMin + delta
	offset = ((offset % span) + span) % span
	s.OrderKey = view.SortMin + offset
	c.Sorts[c.CurrentView] = s
	if view.ServerSideSort {
		c.FirstIter = true
	}
}

// ToggleSortDesc flips the active view's sort direction.
func (c *Console) ToggleSortDesc() {
	s := c.Sorts[c.CurrentView]
	s.Desc = !s.Desc
	c.Sorts[c.CurrentView] = s
}

// SetMinAge validates and applies a new minimum-age filter. Accepts
// HH:MM:SS or HH:MM:SS.ff with hour < 24 and minute/second < 60; rejects
// anything else, leaving the previous value untouched, and returns an
// error describing why (the Command Dispatcher turns that into a status
// line, per spec.md Testable Property 7). An empty commit is a no-op —
// not an error — matching the original's "Nothing to do. Leave min age
// ..." behavior rather than rejecting it.
func (c *Console) SetMinAge(raw string) error {
	if raw == "" {
		return nil
	}
	hh, mm, ss, err := splitHMS(raw)
	if err != nil {
		return err
	}
	if hh >= 24 {
		return fmt.Errorf("hour out of range: %d", hh)
	}
	if mm >= 60 || ss >= 60 {
		return fmt.Errorf("minute/second out of range")
	}
	c.MinAge = raw
	c.FirstIter = true
	return nil
}

// hmsPattern is the accepted min_age shape: two-digit hour, minute and
// second, optionally followed by a fractional part.
var hmsPattern = regexp.MustCompile(`^[0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?$`)

func splitHMS(raw string) (hh, mm int, ss float64, err error) {
	if !hmsPattern.MatchString(raw) {
		return 0, 0, 0, fmt.Errorf("expected HH:MM:SS[.ff], got %q", raw)
	}
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected HH:MM:SS, got %q", raw)
	}
	hh, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad hour %q: %w", parts[0], err)
	}
	mm, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad minute %q: %w", parts[1], err)
	}
	ss, err = strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad second %q: %w", parts[2], err)
	}
	return hh, mm, ss, nil
}
