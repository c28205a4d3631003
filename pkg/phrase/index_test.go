package phrase

import (
	"sort"
	"testing"
)

func TestBuildAndLookup(t *testing.T) {
	idx := Build([]string{"their account", "there is", "they're going", ""})

	if idx.Size() != 3 {
		t.Fatalf("Size() = %d, want 3 (empty keyword skipped)", idx.Size())
	}

	// "they're going" normalizes to "they re going", so "re" is a word.
	phrases := idx.LookupByWord("re")
	if len(phrases) != 1 || phrases[0] != "they re going" {
		t.Errorf("LookupByWord(\"re\") = %v", phrases)
	}

	if got := idx.LookupByWord("nonexistent"); len(got) != 0 {
		t.Errorf("LookupByWord miss returned %v, want empty", got)
	}

	if !idx.Contains("there is") {
		t.Error("Contains(\"there is\") = false")
	}
	if idx.Contains("there") {
		t.Error("Contains(\"there\") = true for a bare word")
	}

	if got := idx.OriginalOf("they re going"); got != "they're going" {
		t.Errorf("OriginalOf = %q, want the authored form", got)
	}
}

// Querying a phrase that was never indexed is a caller bug, not a user
// condition, and must fail loudly.
func TestOriginalOfPanicsOnMiss(t *testing.T) {
	idx := Build([]string{"their account"})

	defer func() {
		if recover() == nil {
			t.Error("OriginalOf did not panic for an unindexed phrase")
		}
	}()
	idx.OriginalOf("not indexed")
}

// Two keywords with the same normalized form collapse into one entry;
// the later-loaded original wins.
func TestBuildLastWriteWins(t *testing.T) {
	idx := Build([]string{"They're going", "theyre-going"})

	if idx.Size() != 1 {
		t.Fatalf("Size() = %d, want 1 after collision", idx.Size())
	}
	if got := idx.OriginalOf("theyre going"); got != "theyre-going" {
		t.Errorf("OriginalOf after collision = %q, want the later keyword", got)
	}
	if got := idx.Entries()[0].Original; got != "theyre-going" {
		t.Errorf("entry original after collision = %q, want the later keyword", got)
	}
}

// A phrase with a repeated word must appear once in that word's bucket.
func TestBuildRepeatedWordInPhrase(t *testing.T) {
	idx := Build([]string{"so so sorry"})

	phrases := idx.LookupByWord("so")
	if len(phrases) != 1 {
		t.Errorf("LookupByWord(\"so\") = %v, want a single phrase", phrases)
	}
}

func TestVisitPrefix(t *testing.T) {
	idx := Build([]string{"machine learning", "machine code", "market"})

	var got []string
	idx.VisitPrefix("machine", func(norm string) {
		got = append(got, norm)
	})
	sort.Strings(got)

	want := []string{"machine code", "machine learning"}
	if len(got) != len(want) {
		t.Fatalf("VisitPrefix visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("VisitPrefix visited %v, want %v", got, want)
			break
		}
	}
}
