// Package engine turns raw key events into debounced, scored phrase
// suggestions.
//
// The Engine owns the typed-character buffer, the sliding phrase window
// and the suggestion session state. All three are mutated under one
// mutex because key events, accept/ignore resolutions and the timeout
// callback race with each other. Collaborators on the far side of the
// engine (suggestion surface, correction injection) are reached through
// the Presenter and Applier interfaces and are never called with the
// lock held.
package engine

// Key is a single key event as reported by a keyboard hook: either one
// printable character ("a", ".", "3") or a named special key ("space",
// "enter", "tab", "backspace").
type Key string

// Named special keys the engine understands. Anything else that is not
// a single printable character is ignored.
const (
	KeySpace     Key = "space"
	KeyEnter     Key = "enter"
	KeyTab       Key = "tab"
	KeyBackspace Key = "backspace"
)

// Suggestion is the payload handed to the Presenter when a candidate
// phrase scored well enough to surface. ID correlates the later
// resolution with this suggestion.
type Suggestion struct {
	ID     string
	Phrase string   // the phrase as typed
	Ranked []string // keyword originals, best first
	Context any     // opaque focus handle captured at emit time
}

// Presenter receives suggestions for display. Implementations must not
// block: the engine calls Present on its own goroutine and expects it
// to hand off (e.g. onto a buffered channel) immediately.
type Presenter interface {
	Present(s Suggestion)
}

// Applier injects an accepted correction into the application that was
// focused when the suggestion fired. Failures are logged by the engine
// and not retried; the typing buffers are cleared either way so a stale
// phrase is never re-offered.
type Applier interface {
	Apply(original, correction string, context any) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(s Suggestion)

func (f PresenterFunc) Present(s Suggestion) { f(s) }

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(original, correction string, context any) error

func (f ApplierFunc) Apply(original, correction string, context any) error {
	return f(original, correction, context)
}
