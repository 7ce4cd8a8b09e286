// Package refresh implements the Refresh Engine (spec.md §1, §4.7): the
// main loop that ties every other package together into one running
// dashboard. It is modeled directly on the teacher's runMonitor — a
// ticker-driven for{select{}} loop — generalized from "poll N providers on
// a timer" to "poll the active console's view, sample the host, and also
// react to a keystroke the instant it arrives".
package refresh

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yibit/pgcenter/internal/aligner"
	"github.com/yibit/pgcenter/internal/cli"
	"github.com/yibit/pgcenter/internal/console"
	"github.com/yibit/pgcenter/internal/dispatch"
	"github.com/yibit/pgcenter/internal/hostsampler"
	"github.com/yibit/pgcenter/internal/pgstat"
	"github.com/yibit/pgcenter/internal/querybuilder"
	"github.com/yibit/pgcenter/internal/render"
	"github.com/yibit/pgcenter/internal/viewcatalog"
)

// TickInterval is the steady-state refresh cadence (spec.md §4.7).
const TickInterval = 1 * time.Second

// SkipTickDelay is the shortened pause after a "skip tick" (a rebase with
// nothing yet to render), so the first comparable frame arrives quickly
// instead of waiting out a full interval twice.
const SkipTickDelay = 10 * time.Millisecond

// Engine owns every console's connection and runs the main loop until ctx
// is canceled or the user quits.
type Engine struct {
	Catalog  viewcatalog.Catalog
	Consoles [console.MaxConsoles]*console.Console
	Conns    [console.MaxConsoles]*pgstat.Conn
	Sampler  *hostsampler.Sampler
	Renderer *render.Renderer
	Keys     *cli.KeyReader

	active int

	prevCPU    hostsampler.CpuSample
	haveCPU    bool
	minAgeEdit dispatch.MinAgeEditor
}

// NewEngine builds an Engine with console 0..7 allocated (unconnected
// until OpenConsole is called) against the default view catalog.
func NewEngine(renderer *render.Renderer, sampler *hostsampler.Sampler, keys *cli.KeyReader) *Engine {
	catalog := viewcatalog.Default()
	e := &Engine{Catalog: catalog, Sampler: sampler, Renderer: renderer, Keys: keys}
	for i := range e.Consoles {
		e.Consoles[i] = console.New(i, catalog)
	}
	return e
}

// OpenConsole connects console idx to params and stores the live
// connection, replacing any previous one.
func (e *Engine) OpenConsole(ctx context.Context, idx int, params console.ConnParams) error {
	conn, err := pgstat.Connect(ctx, params)
	if err != nil {
		return err
	}
	if e.Conns[idx] != nil {
		e.Conns[idx].Close(ctx)
	}
	e.Conns[idx] = conn
	e.Consoles[idx].Open(params)
	return nil
}

// Run starts the main loop: a 1-second ticker drives data refresh, a
// background goroutine feeds keystrokes into a channel, and a select
// multiplexes the two exactly the way the teacher's runMonitor multiplexes
// ticker.C against ctx.Done().
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	keyCh := make(chan rune)
	keyErrCh := make(chan error, 1)
	if e.Keys != nil {
		go func() {
			for {
				k, err := e.Keys.ReadKey()
				if err != nil {
					keyErrCh <- err
					return
				}
				select {
				case keyCh <- k:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	status := "Welcome to pgcenter"
	statusIsErr := false

	// A Timer rather than a Ticker: spec.md §4.7 shortens the sleep to
	// ~10ms after a skip tick (first iteration or row-count rebase) so the
	// user sees a comparable frame within two ticks instead of two full
	// intervals, then returns to the steady 1s cadence.
	next := TickInterval
	if e.tick(ctx, status, statusIsErr) {
		next = SkipTickDelay
	}
	timer := time.NewTimer(next)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if e.Renderer != nil {
				e.Renderer.ClearScreen()
			}
			return nil

		case <-timer.C:
			if ctx.Err() != nil {
				continue
			}
			next := TickInterval
			if e.tick(ctx, status, statusIsErr) {
				next = SkipTickDelay
			}
			timer.Reset(next)

		case err := <-keyErrCh:
			return fmt.Errorf("keyboard input closed: %w", err)

		case key := <-keyCh:
			// Raw mode delivers Ctrl+C as a plain ETX byte instead of
			// SIGINT, so it is handled here as the quit key.
			if key == 3 {
				cancel()
				continue
			}
			// Command handling strictly precedes sampling (spec.md §4.7
			// Ordering): a view switch takes effect starting with the very
			// next tick, which the Aligner then treats as a rebase.
			status, statusIsErr = e.handleKey(ctx, key)
			next := TickInterval
			if e.tick(ctx, status, statusIsErr) {
				next = SkipTickDelay
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(next)
		}
	}
}

// handleKey routes one keystroke either to the min-age line editor (while
// active) or to dispatch.Dispatch, and returns the resulting status line.
func (e *Engine) handleKey(ctx context.Context, key rune) (string, bool) {
	if e.minAgeEdit.Active() {
		switch e.minAgeEdit.Feed(key) {
		case dispatch.EditCommitted:
			c := e.Consoles[e.active]
			text := e.minAgeEdit.Text()
			if text == "" {
				return fmt.Sprintf("Nothing to do. Leave min age %s", c.MinAge), false
			}
			if err := c.SetMinAge(text); err != nil {
				return fmt.Sprintf("Invalid minimum age: %v", err), true
			}
			return fmt.Sprintf("Minimum age set to %s", c.MinAge), false
		case dispatch.EditAborted:
			return "Minimum age unchanged", false
		default:
			return "min_age: " + e.minAgeEdit.Text(), false
		}
	}

	c := e.Consoles[e.active]
	result := dispatch.Dispatch(c, e.active, e.Catalog, e.switchConsole, key)
	if result.ConsoleSwitch {
		for i, cc := range e.Consoles {
			if cc == result.NewActive {
				e.active = i
				break
			}
		}
	}
	if result.EnterMinAgeEdit {
		e.minAgeEdit.Start()
	}
	return result.Status, isErrorStatus(result.Status)
}

func (e *Engine) switchConsole(idx int) (*console.Console, bool) {
	if idx < 0 || idx >= len(e.Consoles) {
		return nil, false
	}
	c := e.Consoles[idx]
	if !c.ConnUsed {
		return nil, false
	}
	return c, true
}

func isErrorStatus(status string) bool {
	switch status {
	case "unknown command":
		return true
	default:
		return false
	}
}

// tick runs one full refresh cycle for the active console: sample the
// host, fetch the active view's query, align/diff/sort it, and draw. It
// reports whether this was a "skip" tick (first iteration or row-count
// rebase, spec.md §4.7) so Run can shorten the wait before the next one.
func (e *Engine) tick(ctx context.Context, status string, statusIsErr bool) bool {
	summary := e.sampleHost()

	c := e.Consoles[e.active]
	view := e.Catalog[c.CurrentView]

	if !c.ConnUsed {
		if e.Renderer != nil {
			e.Renderer.ClearScreen()
			e.Renderer.Draw(e.active, console.MaxConsoles, view, c.Sort(), nil, summary, status, statusIsErr)
		}
		return false
	}

	conn := e.Conns[e.active]
	summary.ConnLabel = c.Conn.Label()
	if a, err := conn.FetchActivityCounts(ctx); err != nil {
		summary.ActivityErr = err
	} else {
		summary.Activity = a
	}

	sql := querybuilder.Build(view, c.Sort(), c.MinAge)
	result, err := conn.Query(ctx, sql)
	if err != nil {
		if e.Renderer != nil {
			e.Renderer.ClearScreen()
			e.Renderer.Draw(e.active, console.MaxConsoles, view, c.Sort(), nil, summary,
				"We didn't get any data.", true)
		}
		return false
	}

	outcome := aligner.Align(c, view, result)
	if !outcome.Render {
		return true
	}

	sort := c.Sort()
	outcome.Result.SortInPlace(sort.OrderKey, sort.Desc)

	if e.Renderer != nil {
		e.Renderer.ClearScreen()
		e.Renderer.Draw(e.active, console.MaxConsoles, view, sort, outcome.Result, summary, status, statusIsErr)
	}
	return false
}

func (e *Engine) sampleHost() render.Summary {
	var s render.Summary
	if e.Sampler == nil {
		return s
	}
	curr, err := e.Sampler.ReadCPU()
	if err == nil {
		if e.haveCPU {
			s.CPU = hostsampler.Percentages(e.prevCPU, curr)
		}
		e.prevCPU = curr
		e.haveCPU = true
	}
	s.Load1, s.Load5, s.Load15 = e.Sampler.ReadLoadAvg()
	s.Uptime = e.Sampler.ReadUptime()
	return s
}
