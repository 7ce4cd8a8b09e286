package dispatch

// MinAgeEditor is the small line-editor state machine spec.md §4.8 and
// §9 call for: typing a new minimum-age value for the long-activity view.
// It is driven one keystroke at a time by the Refresh Engine once Dispatch
// reports EnterMinAgeEdit; while it is active, ordinary key dispatch is
// suspended so the keys the user types become editor input instead of
// view/sort commands.
type MinAgeEditor struct {
	buf    []rune
	active bool
}

// Start begins an edit session with an empty buffer.
func (e *MinAgeEditor) Start() {
	e.buf = e.buf[:0]
	e.active = true
}

// Active reports whether the engine should route keys here instead of to
// Dispatch.
func (e *MinAgeEditor) Active() bool { return e.active }

// Text returns the buffer accumulated so far, for echoing on the status
// line while editing.
func (e *MinAgeEditor) Text() string { return string(e.buf) }

// EditOutcome is what one keystroke produced.
type EditOutcome int

const (
	// EditContinue: still editing, nothing to commit yet.
	EditContinue EditOutcome = iota
	// EditAborted: ESC was pressed; the caller should discard the buffer
	// and keep the console's existing min_age.
	EditAborted
	// EditCommitted: Enter was pressed; the caller should apply Text()
	// via Console.SetMinAge.
	EditCommitted
)

const (
	keyEscape    = rune(27)
	keyEnter     = rune(13)
	keyLineFeed  = rune(10)
	keyBackspace = rune(127)
	keyDelete    = rune(8)
)

// Feed applies one keystroke to the editor: ESC aborts, Enter commits,
// Backspace/Delete erases the last rune, anything else is appended.
func (e *MinAgeEditor) Feed(key rune) EditOutcome {
	switch key {
	case keyEscape:
		e.active = false
		return EditAborted
	case keyEnter, keyLineFeed:
		e.active = false
		return EditCommitted
	case keyBackspace, keyDelete:
		if len(e.buf) > 0 {
			e.buf = e.buf[:len(e.buf)-1]
		}
		return EditContinue
	default:
		e.buf = append(e.buf, key)
		return EditContinue
	}
}
