package engine

// Window is the fixed-capacity sliding buffer of completed words that
// forms the typing context. Pushing beyond capacity evicts the oldest
// word. Not safe for concurrent use; the Engine serializes access.
type Window struct {
	words    []string
	capacity int
}

// NewWindow returns a Window holding at most capacity words.
// Capacity below 1 is raised to 1.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{capacity: capacity}
}

// Push appends word, evicting the oldest entry when full.
func (w *Window) Push(word string) {
	if len(w.words) == w.capacity {
		copy(w.words, w.words[1:])
		w.words = w.words[:len(w.words)-1]
	}
	w.words = append(w.words, word)
}

// Len returns the number of buffered words.
func (w *Window) Len() int {
	return len(w.words)
}

// Last returns the most recent n words in typing order.
func (w *Window) Last(n int) []string {
	if n > len(w.words) {
		n = len(w.words)
	}
	out := make([]string, n)
	copy(out, w.words[len(w.words)-n:])
	return out
}

// Words returns a copy of the full window, oldest first.
func (w *Window) Words() []string {
	return w.Last(len(w.words))
}

// Clear drops every buffered word.
func (w *Window) Clear() {
	w.words = w.words[:0]
}

// Remove deletes the newest occurrence of each given word, best-effort.
// Words not present are skipped; the rest of the context stays intact.
func (w *Window) Remove(words []string) {
	for _, word := range words {
		for i := len(w.words) - 1; i >= 0; i-- {
			if w.words[i] == word {
				w.words = append(w.words[:i], w.words[i+1:]...)
				break
			}
		}
	}
}

// RecentSet remembers the last capacity normalized phrases that were
// already offered, so the same phrase is not re-asked within a short
// horizon. FIFO eviction; zero capacity disables suppression entirely.
type RecentSet struct {
	queue    []string
	members  map[string]int // phrase -> occurrences in queue
	capacity int
}

// NewRecentSet returns a RecentSet bounded to capacity entries.
func NewRecentSet(capacity int) *RecentSet {
	if capacity < 0 {
		capacity = 0
	}
	return &RecentSet{
		members:  make(map[string]int),
		capacity: capacity,
	}
}

// Add records a phrase, evicting the oldest once over capacity.
func (r *RecentSet) Add(norm string) {
	if r.capacity == 0 {
		return
	}
	if len(r.queue) == r.capacity {
		oldest := r.queue[0]
		copy(r.queue, r.queue[1:])
		r.queue = r.queue[:len(r.queue)-1]
		if r.members[oldest] <= 1 {
			delete(r.members, oldest)
		} else {
			r.members[oldest]--
		}
	}
	r.queue = append(r.queue, norm)
	r.members[norm]++
}

// Contains reports whether the phrase is still within the horizon.
func (r *RecentSet) Contains(norm string) bool {
	return r.members[norm] > 0
}

// Len returns the number of remembered phrases.
func (r *RecentSet) Len() int {
	return len(r.queue)
}
