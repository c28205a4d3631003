package phrase

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry pairs a keyword as authored with its normalized form.
type Entry struct {
	Original string
	Norm     string
}

// Index is the read-only searchable representation of the keyword list.
// Build constructs it once; after that every method is safe for
// concurrent readers. Reloading means building a fresh Index and
// swapping the pointer, never mutating an existing one.
type Index struct {
	entries   []Entry
	originals map[string]string              // normalized -> authored
	words     map[string]map[string]struct{} // word -> set of normalized phrases
	trie      *patricia.Trie                 // normalized phrases for prefix scans
}

// Build normalizes every keyword and constructs the inverted word index
// and the prefix trie. When two distinct keywords normalize identically
// the later one wins; this last-write-wins collision policy is
// intentional and matches how operators author keyword lists.
func Build(keywords []string) *Index {
	idx := &Index{
		originals: make(map[string]string, len(keywords)),
		words:     make(map[string]map[string]struct{}),
		trie:      patricia.NewTrie(),
	}

	for _, kw := range keywords {
		norm := Normalize(kw)
		if norm == "" {
			continue
		}
		if prev, dup := idx.originals[norm]; dup {
			log.Debugf("Keyword %q collides with %q on normalized form %q, keeping the later one", kw, prev, norm)
			idx.originals[norm] = kw
			for i := range idx.entries {
				if idx.entries[i].Norm == norm {
					idx.entries[i].Original = kw
					break
				}
			}
			continue
		}

		idx.originals[norm] = kw
		idx.entries = append(idx.entries, Entry{Original: kw, Norm: norm})
		idx.trie.Insert(patricia.Prefix(norm), struct{}{})

		for _, word := range SplitWords(norm) {
			bucket, ok := idx.words[word]
			if !ok {
				bucket = make(map[string]struct{})
				idx.words[word] = bucket
			}
			bucket[norm] = struct{}{}
		}
	}

	log.Debugf("Built phrase index: %d phrases, %d distinct words", len(idx.entries), len(idx.words))
	return idx
}

// Size returns the number of indexed phrases.
func (idx *Index) Size() int {
	return len(idx.entries)
}

// Entries returns the indexed phrases in load order. Callers must not
// mutate the returned slice.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// LookupByWord returns the normalized phrases containing word.
// A miss yields nil, never an error.
func (idx *Index) LookupByWord(word string) []string {
	bucket := idx.words[word]
	if len(bucket) == 0 {
		return nil
	}
	phrases := make([]string, 0, len(bucket))
	for p := range bucket {
		phrases = append(phrases, p)
	}
	return phrases
}

// Contains reports whether the normalized phrase is indexed.
func (idx *Index) Contains(norm string) bool {
	_, ok := idx.originals[norm]
	return ok
}

// OriginalOf maps a normalized phrase back to the keyword as authored.
// It is total over phrases obtained from this index; querying anything
// else is a programming error and panics.
func (idx *Index) OriginalOf(norm string) string {
	orig, ok := idx.originals[norm]
	if !ok {
		panic(fmt.Sprintf("phrase: %q is not in the index", norm))
	}
	return orig
}

// VisitPrefix calls fn for every indexed phrase whose normalized form
// starts with prefix, the exact match included.
func (idx *Index) VisitPrefix(prefix string, fn func(norm string)) {
	err := idx.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		fn(string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
	}
}
