// Package cli owns the terminal's raw-mode keyboard input: putting stdin
// into raw mode for single-keystroke reads, decoding the arrow-key escape
// sequences into the sentinels internal/dispatch expects, and prompting for
// a password with echo disabled.
package cli

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/yibit/pgcenter/internal/dispatch"
)

// KeyReader reads single keystrokes from stdin without waiting for Enter,
// the terminal precondition the Refresh Engine's event loop needs to react
// to a keypress the same tick it arrives (spec.md §4.7).
type KeyReader struct {
	fd       int
	oldState *term.State
	reader   *bufio.Reader
}

// NewKeyReader puts stdin into raw mode. Callers must call Restore when
// done, typically via defer, to leave the terminal usable on exit.
func NewKeyReader() (*KeyReader, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	return &KeyReader{fd: fd, oldState: old, reader: bufio.NewReader(os.Stdin)}, nil
}

// Restore returns the terminal to its original mode.
func (k *KeyReader) Restore() {
	if k.oldState != nil {
		_ = term.Restore(k.fd, k.oldState)
	}
}

// ReadKey blocks for exactly one keystroke, decoding the three-byte ESC [ C
// / ESC [ D arrow sequences into dispatch.RightArrow / dispatch.LeftArrow
// and leaving every other key — including a bare ESC, used by the min-age
// editor's abort — as its raw rune.
func (k *KeyReader) ReadKey() (rune, error) {
	r, _, err := k.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	if r != 27 {
		return r, nil
	}

	// A lone ESC (min-age abort) never has more bytes queued behind it; an
	// arrow key always sends '[' next within the same write. Peek rather
	// than block so a standalone ESC isn't held hostage waiting for bytes
	// that will never come.
	if k.reader.Buffered() == 0 {
		return r, nil
	}
	next, _, err := k.reader.ReadRune()
	if err != nil || next != '[' {
		return r, nil
	}
	if k.reader.Buffered() == 0 {
		return r, nil
	}
	dir, _, err := k.reader.ReadRune()
	if err != nil {
		return r, nil
	}
	switch dir {
	case 'C':
		return dispatch.RightArrow, nil
	case 'D':
		return dispatch.LeftArrow, nil
	default:
		return r, nil
	}
}

// ReadPassword prompts on stderr and reads one line from stdin with echo
// disabled, for the -W / retry-on-auth-failure flow (spec.md §7). It
// temporarily restores cooked mode's equivalent (term.ReadPassword manages
// its own raw state) so it must not be called while a KeyReader is active
// over the same fd.
func ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
