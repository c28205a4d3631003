package engine

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// ErrNoPending is returned when a resolution arrives with no suggestion
// outstanding: it was already accepted, ignored or timed out.
var ErrNoPending = errors.New("engine: no suggestion pending")

// Accept resolves the outstanding suggestion with the chosen
// correction. The typed buffer and phrase window are cleared wholesale
// and the (original, correction) pair is handed to the applier. An
// applier failure is returned for reporting but not retried; the
// buffers stay cleared so the stale phrase is not re-offered.
func (e *Engine) Accept(correction string) error {
	e.mu.Lock()
	if e.state != Pending || e.pending == nil {
		e.mu.Unlock()
		return ErrNoPending
	}
	p := e.pending
	e.resolveLocked()
	e.typed = e.typed[:0]
	e.window.Clear()
	e.mu.Unlock()

	log.Infof("Correction accepted: %q -> %q", p.phrase, correction)
	if e.applier == nil {
		return nil
	}
	if err := e.applier.Apply(p.phrase, correction, p.context); err != nil {
		log.Errorf("Applying correction %q: %v", correction, err)
		return err
	}
	return nil
}

// Ignore resolves the outstanding suggestion by dismissing it. The
// words of the ignored phrase are removed from the window best-effort;
// the rest of the typing context stays intact.
func (e *Engine) Ignore() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Pending || e.pending == nil {
		return ErrNoPending
	}
	log.Debugf("Suggestion %s ignored", e.pending.id)
	e.window.Remove(e.pending.words)
	e.resolveLocked()
	return nil
}

// ForceResubmit arms a one-shot bypass of the Pending suppression and
// replays the combination check over the current window, so the user
// can ask again about a phrase that was just dismissed or superseded.
func (e *Engine) ForceResubmit() {
	e.mu.Lock()
	e.forceArmed = true
	sug := e.combinationCheckLocked()
	e.mu.Unlock()

	if sug != nil {
		e.emit(*sug)
	}
}

// timeoutFired is the scheduled expiry for suggestion id. If an accept
// or ignore already resolved it (or a newer suggestion replaced it),
// this is a no-op.
func (e *Engine) timeoutFired(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Pending || e.pending == nil || e.pending.id != id {
		return
	}
	log.Debugf("Suggestion %s timed out", id)
	e.resolveLocked()
}

// startTimeoutLocked schedules expiry for the pending suggestion.
// Caller holds the lock. A zero timeout disables expiry.
func (e *Engine) startTimeoutLocked(id string) {
	if e.timeout <= 0 {
		return
	}
	e.timer = time.AfterFunc(e.timeout, func() {
		e.timeoutFired(id)
	})
}

// resolveLocked transitions Pending to Idle and stops the expiry timer.
// Caller holds the lock.
func (e *Engine) resolveLocked() {
	e.state = Idle
	e.pending = nil
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// cancelPendingLocked drops a stale pending suggestion without any
// window cleanup. Caller holds the lock.
func (e *Engine) cancelPendingLocked() {
	if e.state != Pending {
		return
	}
	if e.pending != nil {
		log.Debugf("Suggestion %s superseded", e.pending.id)
	}
	e.resolveLocked()
}
