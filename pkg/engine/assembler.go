package engine

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/mkarren/phraseward/internal/utils"
	"github.com/mkarren/phraseward/pkg/config"
	"github.com/mkarren/phraseward/pkg/keywords"
	"github.com/mkarren/phraseward/pkg/match"
	"github.com/mkarren/phraseward/pkg/phrase"
	"github.com/oklog/ulid/v2"
)

// State is the suggestion lifecycle state.
type State int

const (
	// Idle means no suggestion is outstanding.
	Idle State = iota
	// Pending means a suggestion was surfaced and not yet resolved.
	// While Pending, ordinary phrase completions are suppressed.
	Pending
)

// maxCombination caps how many trailing window words are joined into a
// candidate phrase. Windows are tried longest-first so the most
// specific context wins.
const maxCombination = 4

// Option configures an Engine.
type Option func(*Engine)

// WithPresenter sets the suggestion sink.
func WithPresenter(p Presenter) Option {
	return func(e *Engine) { e.presenter = p }
}

// WithApplier sets the correction-application collaborator.
func WithApplier(a Applier) Option {
	return func(e *Engine) { e.applier = a }
}

// WithContextProvider sets the callback that captures an opaque focus
// handle (e.g. the active window) at the moment a suggestion fires.
func WithContextProvider(fn func() any) Option {
	return func(e *Engine) { e.contextFn = fn }
}

// pendingSuggestion records the outstanding suggestion and the window
// words it was built from, for later best-effort removal on ignore.
type pendingSuggestion struct {
	id      string
	phrase  string
	words   []string
	ranked  []string
	context any
}

// Engine is the keystroke state machine plus the suggestion session.
// Construct one per listening session with New; it is safe for
// concurrent use.
type Engine struct {
	mu         sync.Mutex
	typed      []rune
	window     *Window
	recent     *RecentSet
	state      State
	pending    *pendingSuggestion
	timer      *time.Timer
	forceArmed bool

	minPhraseLen int
	maxPhraseLen int
	timeout      time.Duration

	scorer    *match.Scorer
	source    *keywords.Source
	presenter Presenter
	applier   Applier
	contextFn func() any
}

// New builds an Engine from the config and keyword source.
func New(cfg *config.Config, source *keywords.Source, opts ...Option) *Engine {
	e := &Engine{
		window:       NewWindow(cfg.Input.PhraseWindowSize),
		recent:       NewRecentSet(cfg.Input.RecentPhrasesSize),
		minPhraseLen: cfg.Input.MinPhraseLength,
		maxPhraseLen: cfg.Input.MaxPhraseLength,
		timeout:      cfg.Session.SuggestionTimeout(),
		scorer: match.NewScorer(match.Options{
			MinSimilarity:  cfg.Match.MinSimilarity,
			EnablePartial:  cfg.Match.EnablePartialMatching,
			MaxSuggestions: cfg.Match.MaxSuggestions,
			MinSuggestions: cfg.Match.MinSuggestions,
		}),
		source: source,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// HandleKey feeds one key event through the state machine. Word
// boundaries trigger the combination check and may emit a suggestion to
// the presenter; everything else just mutates the typed buffer.
func (e *Engine) HandleKey(k Key) {
	switch k {
	case KeySpace, KeyEnter, KeyTab:
		e.completeWord()
		return
	case KeyBackspace:
		e.mu.Lock()
		if len(e.typed) > 0 {
			e.typed = e.typed[:len(e.typed)-1]
		}
		e.mu.Unlock()
		return
	}

	r, size := utf8.DecodeRuneInString(string(k))
	if size != len(k) || r == utf8.RuneError {
		// Unrecognized named key (arrows, modifiers, function keys).
		return
	}

	switch {
	case r >= '0' && r <= '9':
		// Digits invalidate the word in progress: numbers are never
		// part of a correctable phrase.
		e.mu.Lock()
		e.typed = e.typed[:0]
		e.mu.Unlock()
	case utils.IsWordBoundary(r):
		e.completeWord()
	case utils.IsTypeable(r):
		e.mu.Lock()
		e.typed = append(e.typed, r)
		e.mu.Unlock()
	}
}

// completeWord pushes the buffered word onto the window and runs the
// combination check.
func (e *Engine) completeWord() {
	e.mu.Lock()
	word := strings.TrimSpace(string(e.typed))
	e.typed = e.typed[:0]
	if word == "" || utils.ContainsDigit(word) {
		e.mu.Unlock()
		return
	}
	e.window.Push(word)

	// A new word in progress invalidates a stale pending suggestion,
	// unless a forced resubmission is underway.
	if !e.forceArmed {
		e.cancelPendingLocked()
	}

	sug := e.combinationCheckLocked()
	e.mu.Unlock()

	if sug != nil {
		e.emit(*sug)
	}
}

// combinationCheckLocked tries the trailing n-gram windows longest
// first and fires the first one with a non-empty ranked list. Returns
// the suggestion to emit, or nil. Caller holds the lock.
func (e *Engine) combinationCheckLocked() *Suggestion {
	idx := e.source.Index()
	if idx.Size() == 0 {
		return nil
	}

	maxN := min(maxCombination, e.window.Len())
	for n := maxN; n >= 1; n-- {
		words := e.window.Last(n)
		phraseText := strings.Join(words, " ")
		if len(phraseText) < e.minPhraseLen || len(phraseText) > e.maxPhraseLen {
			continue
		}
		norm := phrase.Normalize(phraseText)
		if norm == "" || e.recent.Contains(norm) {
			continue
		}

		// Debounce: never show two suggestions at once.
		if e.state == Pending && !e.forceArmed {
			return nil
		}

		ranked := e.scorer.Score(idx, phraseText)
		if len(ranked) == 0 {
			continue
		}

		// A forced resubmission replaces whatever was outstanding.
		e.cancelPendingLocked()
		e.forceArmed = false
		e.recent.Add(norm)
		e.state = Pending

		var ctx any
		if e.contextFn != nil {
			ctx = e.contextFn()
		}
		p := &pendingSuggestion{
			id:      ulid.Make().String(),
			phrase:  phraseText,
			words:   words,
			ranked:  ranked,
			context: ctx,
		}
		e.pending = p
		e.startTimeoutLocked(p.id)

		log.Debugf("Suggestion %s pending for %q (%d candidates, window n=%d)", p.id, phraseText, len(ranked), n)
		return &Suggestion{ID: p.id, Phrase: p.phrase, Ranked: p.ranked, Context: ctx}
	}
	return nil
}

// emit hands the suggestion to the presenter, never with the lock held.
func (e *Engine) emit(s Suggestion) {
	if e.presenter == nil {
		return
	}
	e.presenter.Present(s)
}

// State returns the current suggestion state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// TypedWord returns the word currently in progress.
func (e *Engine) TypedWord() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return string(e.typed)
}

// WindowWords returns a copy of the phrase window, oldest first.
func (e *Engine) WindowWords() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window.Words()
}

// PendingSuggestion returns the outstanding suggestion, if any.
func (e *Engine) PendingSuggestion() (Suggestion, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Pending || e.pending == nil {
		return Suggestion{}, false
	}
	p := e.pending
	return Suggestion{ID: p.id, Phrase: p.phrase, Ranked: p.ranked, Context: p.context}, true
}
