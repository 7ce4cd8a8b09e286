package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rodaine/table"

	"github.com/yibit/pgcenter/internal/console"
	"github.com/yibit/pgcenter/internal/hostsampler"
	"github.com/yibit/pgcenter/internal/pgstat"
	"github.com/yibit/pgcenter/internal/resulttable"
	"github.com/yibit/pgcenter/internal/viewcatalog"
)

// Summary is everything the System Summary region needs for one tick: host
// load plus the active console's activity breakdown (spec.md §6 System
// Summary: 5 fixed lines).
type Summary struct {
	Load1, Load5, Load15 float64
	Uptime               float64
	CPU                  hostsampler.CPUPercentages
	Activity             pgstat.ActivityCounts
	ActivityErr          error
	ConnLabel            string
}

// Renderer draws the three stacked regions onto an io.Writer: the five-line
// System Summary, the one-line Command Dispatcher status, and the data
// region built from a resulttable.Table via rodaine/table — the same
// library the teacher uses for its own terminal reports.
type Renderer struct {
	out io.Writer
}

// New builds a Renderer writing to out (os.Stdout in production, a
// strings.Builder in tests that want to assert on rendered text).
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// ClearScreen resets the terminal to the top-left before a full redraw, the
// same ANSI sequence the teacher's ticker-driven dashboards use.
func (r *Renderer) ClearScreen() {
	fmt.Fprint(r.out, "\033[2J\033[H")
}

// Draw renders one complete tick: summary, status line, then the data
// region for view showing tbl sorted by sort. activeOrdinal and total
// describe which of the (up to 8) consoles is on screen, for the summary's
// header line.
func (r *Renderer) Draw(activeOrdinal, total int, view viewcatalog.View, sort console.SortState, tbl *resulttable.Table, summary Summary, status string, statusIsError bool) {
	r.drawSummary(activeOrdinal, total, summary)
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, statusColor(status, statusIsError))
	fmt.Fprintln(r.out)
	r.drawTable(view, sort, tbl)
}

func (r *Renderer) drawSummary(activeOrdinal, total int, s Summary) {
	fmt.Fprintf(r.out, "%s  %s  console %d/%d\n",
		Bold("pgcenter"), time.Now().Format("15:04:05"), activeOrdinal+1, total)
	fmt.Fprintf(r.out, "load average: %.2f, %.2f, %.2f   uptime: %s\n",
		s.Load1, s.Load5, s.Load15, formatUptime(s.Uptime))
	fmt.Fprintf(r.out, "cpu:  %s us, %s sy, %s ni, %s id, %s wa, %s hi, %s si, %s st\n",
		pct(s.CPU.User), pct(s.CPU.Sys), pct(s.CPU.Nice), pct(s.CPU.Idle),
		pctWarn(s.CPU.IOWait), pct(s.CPU.HardIRQ), pct(s.CPU.SoftIRQ), pctWarn(s.CPU.Steal))
	fmt.Fprintf(r.out, "connection: %s\n", Dim(s.ConnLabel))
	if s.ActivityErr != nil {
		fmt.Fprintf(r.out, "activity: %s\n", Red("unavailable"))
	} else {
		a := s.Activity
		fmt.Fprintf(r.out, "activity: %d total, %d idle, %d idle-in-tx, %d active, %d waiting, %d other\n",
			a.Total, a.Idle, a.IdleInTransaction, a.Active, a.Waiting, a.Others)
	}
}

func (r *Renderer) drawTable(view viewcatalog.View, sort console.SortState, tbl *resulttable.Table) {
	if tbl == nil || tbl.NCols() == 0 {
		fmt.Fprintln(r.out, Dim("(no data)"))
		return
	}

	headerFmt := Bold
	headers := make([]any, tbl.NCols())
	for i, name := range tbl.ColumnNames {
		if view.Sortable() && i == sort.OrderKey {
			headers[i] = Reverse(name)
		} else {
			headers[i] = name
		}
	}

	tt := table.New(headers...)
	tt.WithHeaderFormatter(func(format string, vals ...interface{}) string {
		return headerFmt(fmt.Sprintf(format, vals...))
	})
	tt.WithWriter(r.out)

	for _, row := range tbl.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		tt.AddRow(cells...)
	}
	tt.Print()
}

func pct(v float64) string {
	return fmt.Sprintf("%5.1f%%", v)
}

// pctWarn highlights iowait/steal in yellow once they're no longer
// negligible — these two are the categories an operator actually watches
// for contention, unlike plain user/sys time.
func pctWarn(v float64) string {
	s := pct(v)
	if v >= 10 {
		return Yellow(s)
	}
	return s
}

func formatUptime(seconds float64) string {
	total := int64(seconds)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%dd ", days)
	}
	fmt.Fprintf(&b, "%02d:%02d", hours, minutes)
	return b.String()
}
