package schema

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrNoPendingImport is returned by Confirm and Cancel when nothing is staged.
var ErrNoPendingImport = errors.New("no pending schema import")

// State of the import reconciler
type State int

const (
	StateIdle State = iota
	StateAwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "unknown"
	}
}

// Outcome describes what a file load did to the buffer
type Outcome int

const (
	// OutcomeIgnored means nothing changed.
	OutcomeIgnored Outcome = iota
	// OutcomeApplied means the buffer was empty and now holds the file text.
	OutcomeApplied
	// OutcomeStaged means the file text waits for the user to confirm the overwrite.
	OutcomeStaged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeStaged:
		return "staged"
	default:
		return "ignored"
	}
}

// Reconciler decides whether an imported schema file overwrites the buffer
// straight away or has to be confirmed first.
//
// Idle -> AwaitingConfirmation when a file arrives while the buffer holds
// non-blank text. Confirm and Cancel both return to Idle.
type Reconciler struct {
	mu      sync.Mutex
	buffer  *Buffer
	state   State
	pending string
}

// NewReconciler creates a reconciler in the Idle state writing to buffer.
func NewReconciler(buffer *Buffer) *Reconciler {
	return &Reconciler{buffer: buffer, state: StateIdle}
}

// State returns the current state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Pending returns the staged file text, if any.
func (r *Reconciler) Pending() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending, r.state == StateAwaitingConfirmation
}

// OnFileLoaded handles the text of a freshly read schema file. Empty file
// text is ignored. A load while awaiting confirmation replaces the staged
// text.
func (r *Reconciler) OnFileLoaded(fileText string) Outcome {
	if fileText == "" {
		return OutcomeIgnored
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(r.buffer.CurrentText()) == "" {
		r.buffer.SetText(fileText)
		r.pending = ""
		r.state = StateIdle
		return OutcomeApplied
	}

	r.pending = fileText
	r.state = StateAwaitingConfirmation
	return OutcomeStaged
}

// SetText records a keystroke. It shares the reconciler's lock so a file
// load never decides on a blank buffer that a keystroke has just filled.
func (r *Reconciler) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buffer.SetText(text)
}

// ImportFile reads a schema file and hands its text to OnFileLoaded. A read
// failure changes nothing; the error is returned for reporting only.
func (r *Reconciler) ImportFile(ctx context.Context, filename string, src io.Reader) (Outcome, error) {
	text, err := ReadFile(ctx, filename, src)
	if err != nil {
		return OutcomeIgnored, err
	}
	return r.OnFileLoaded(text), nil
}

// Confirm writes the staged text into the buffer.
func (r *Reconciler) Confirm() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateAwaitingConfirmation {
		return ErrNoPendingImport
	}
	r.buffer.SetText(r.pending)
	r.pending = ""
	r.state = StateIdle
	return nil
}

// Cancel drops the staged text and leaves the buffer alone.
func (r *Reconciler) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateAwaitingConfirmation {
		return ErrNoPendingImport
	}
	r.pending = ""
	r.state = StateIdle
	return nil
}
