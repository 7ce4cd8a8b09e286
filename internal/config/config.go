// Package config loads the two inputs that seed console 0..7 before the
// Refresh Engine starts: command-line flags and the optional
// ~/.pgcenterrc connection file (spec.md §6).
//
// Unlike the teacher's YAML-based config, the on-disk format here is a
// small fixed grammar the spec mandates verbatim (colon-separated
// host:port:dbname:user:password, one console per line), so it is parsed
// by hand rather than through a format library — see DESIGN.md.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/yibit/pgcenter/internal/console"
)

// Defaults mirrors the teacher's Defaults struct: the knobs a command
// doesn't override explicitly.
type Defaults struct {
	TickInterval    DurationSeconds
	SkipTickDelayMS int
}

// DurationSeconds avoids importing time just to carry two constants.
type DurationSeconds float64

// DefaultConfig is the tick cadence: ~1s per spec.md §4.7, ~10ms after a
// skip tick. The Refresh Engine does not read it; it carries the same
// values as its own TickInterval and SkipTickDelay constants.
func DefaultConfig() Defaults {
	return Defaults{TickInterval: 1, SkipTickDelayMS: 10}
}

// Flags carries the parsed CLI options from spec.md §6 before they are
// folded into console 0.
type Flags struct {
	Host           string
	Port           string
	User           string
	DBName         string
	NoPassword     bool
	PromptPass     bool
	PositionalDB   string
	PositionalUser string
}

// ConnParamsFromFlags builds console 0's connection parameters the way
// spec.md §6 describes: positional DBNAME/USERNAME are lower priority than
// explicit -d/-U flags, and defaults fall back to the usual libpq/unix
// conventions.
func ConnParamsFromFlags(f Flags, password string) console.ConnParams {
	host := f.Host
	if host == "" {
		host = "localhost"
	}
	port := f.Port
	if port == "" {
		port = "5432"
	}
	user := f.User
	if user == "" {
		user = f.PositionalUser
	}
	if user == "" {
		user = os.Getenv("USER")
	}
	dbname := f.DBName
	if dbname == "" {
		dbname = f.PositionalDB
	}
	if dbname == "" {
		dbname = user
	}
	return console.ConnParams{Host: host, Port: port, DBName: dbname, User: user, Password: password}
}

// LoadRCFile reads ~/.pgcenterrc per spec.md §6: one connection per line,
// colon-separated host:port:dbname:user:password. The first line seeds
// console 0 unless CLI flags already did; remaining lines seed consoles
// 1..7 in order, up to MaxConsoles total.
//
// Permission gate: the file is read only if its mode excludes group and
// other read/write/execute; otherwise it is ignored with a warning
// (Testable Property 8) rather than treated as a fatal error — a console
// can always still be configured from CLI flags alone.
func LoadRCFile(path string) ([]console.ConnParams, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if info.Mode().Perm()&0o077 != 0 {
		fmt.Fprintf(os.Stderr, "warning: %s has group/other permissions set, ignoring\n", path)
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var conns []console.ConnParams
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(conns) < console.MaxConsoles {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 4 {
			continue
		}
		cp := console.ConnParams{Host: parts[0], Port: parts[1], DBName: parts[2], User: parts[3]}
		if len(parts) >= 5 {
			cp.Password = parts[4]
		}
		conns = append(conns, cp)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return conns, nil
}
