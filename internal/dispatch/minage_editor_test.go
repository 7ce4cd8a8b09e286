package dispatch

import "testing"

func TestMinAgeEditorTypeCommit(t *testing.T) {
	var e MinAgeEditor
	e.Start()
	for _, r := range "00:01:30" {
		if outcome := e.Feed(r); outcome != EditContinue {
			t.Fatalf("typing a regular rune must continue editing, got %v", outcome)
		}
	}
	if e.Text() != "00:01:30" {
		t.Fatalf("Text() = %q", e.Text())
	}
	if outcome := e.Feed(keyEnter); outcome != EditCommitted {
		t.Fatalf("Enter must commit, got %v", outcome)
	}
	if e.Active() {
		t.Fatalf("editor must deactivate after commit")
	}
}

func TestMinAgeEditorAbort(t *testing.T) {
	var e MinAgeEditor
	e.Start()
	e.Feed('1')
	e.Feed('2')
	if outcome := e.Feed(keyEscape); outcome != EditAborted {
		t.Fatalf("ESC must abort, got %v", outcome)
	}
	if e.Active() {
		t.Fatalf("editor must deactivate after abort")
	}
}

func TestMinAgeEditorBackspace(t *testing.T) {
	var e MinAgeEditor
	e.Start()
	e.Feed('1')
	e.Feed('2')
	e.Feed(keyBackspace)
	if e.Text() != "1" {
		t.Fatalf("backspace should erase the last rune, got %q", e.Text())
	}
	// Backspacing an empty buffer must not panic or go negative.
	e.Feed(keyBackspace)
	e.Feed(keyBackspace)
	if e.Text() != "" {
		t.Fatalf("backspace on empty buffer should be a no-op, got %q", e.Text())
	}
}
