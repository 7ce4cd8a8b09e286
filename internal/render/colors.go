// Package render draws the three stacked terminal regions described by the
// Terminal surface contract: a system summary, a status line, and the
// data region. colors.go holds the shared ANSI palette every
// other file in this package draws from.
package render

import (
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Semantic color meanings for this dashboard:
//
//	Bold    -> header row, the title
//	Reverse -> the active sort column's header cell, and nothing else
//	Red     -> error status lines, an unavailable activity summary
//	Yellow  -> CPU iowait/steal at 10% or more
//	Dim     -> secondary text (connection label, the "(no data)" placeholder)
var (
	Bold    = color.New(color.Bold).SprintFunc()
	Reverse = color.New(color.ReverseVideo).SprintFunc()
	Red     = color.New(color.FgRed).SprintFunc()
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Green   = color.New(color.FgGreen).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

// ansiRegex matches one ANSI escape sequence, e.g. "\x1b[32m" or "\x1b[7m".
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes escape sequences so the visible width of a colored
// string can be measured.
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// padRight pads a possibly-colored string with spaces to a visible width.
// fmt's own width verbs count bytes, which over-counts ANSI-wrapped text
// and misaligns the data region's columns.
func padRight(s string, width int) string {
	visible := len(stripANSI(s))
	if visible < width {
		return s + strings.Repeat(" ", width-visible)
	}
	return s
}

// statusColor picks a severity color for a Command Dispatcher status line.
// Errors ("We didn't get any data.", "unknown command", a rejected min age)
// render red; everything else (view switches, confirmations) renders plain.
func statusColor(msg string, isError bool) string {
	if isError {
		return Red(msg)
	}
	return msg
}
