// Package match scores candidate phrases against the keyword index.
//
// Three independent strategies run per query and are merged by keeping
// the maximum score per phrase:
//
//  1. Prefix — the query is the start of an indexed phrase: score 1.0.
//     The user is mid-typing the exact target, reward maximally.
//  2. Partial word — word overlap via the inverted index, scaled by 0.9
//     so even full overlap stays below a perfect prefix hit. Catches
//     word-order variation and superset/subset phrases.
//  3. Similarity — edit-similarity ratio against every indexed phrase.
//     Catches typos the other two strategies miss entirely.
//
// The merged list is filtered by the similarity threshold, ranked, and
// padded with arbitrary indexed phrases up to a configured minimum so a
// surfaced suggestion box is never trivially empty.
package match

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mkarren/phraseward/pkg/phrase"
)

// Strategy names a scoring method that produced a candidate.
type Strategy string

const (
	StrategyPrefix     Strategy = "prefix"
	StrategyPartial    Strategy = "partial"
	StrategySimilarity Strategy = "similarity"
	StrategyPad        Strategy = "pad"
)

const partialScale = 0.9

// Candidate is one scored phrase. Norm is the indexed normalized form,
// Score is in [0,1] and Strategy names the method that produced the
// winning score.
type Candidate struct {
	Norm     string
	Score    float64
	Strategy Strategy
}

// Options control filtering and list shaping.
type Options struct {
	// MinSimilarity drops merged candidates scoring below it.
	MinSimilarity float64
	// EnablePartial toggles the partial-word strategy.
	EnablePartial bool
	// MaxSuggestions bounds the ranked list from above.
	MaxSuggestions int
	// MinSuggestions pads the list from below with unscored phrases.
	MinSuggestions int
}

// Scorer runs the matching strategies against an index snapshot.
// A Scorer is stateless apart from its options and safe for concurrent
// use; the index is passed per call so reloads swap cleanly underneath.
type Scorer struct {
	opts Options
}

// NewScorer returns a Scorer with the given options.
func NewScorer(opts Options) *Scorer {
	if opts.MaxSuggestions < opts.MinSuggestions {
		opts.MaxSuggestions = opts.MinSuggestions
	}
	return &Scorer{opts: opts}
}

// Score runs all strategies for query and returns the ranked originals,
// best first. The query itself never appears in the result.
func (s *Scorer) Score(idx *phrase.Index, query string) []string {
	candidates := s.Candidates(idx, query)
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = idx.OriginalOf(c.Norm)
	}
	return out
}

// Candidates is Score with per-candidate scores and strategies kept,
// used by the debug CLI and tests.
func (s *Scorer) Candidates(idx *phrase.Index, query string) []Candidate {
	norm := phrase.Normalize(query)

	scores := make(map[string]float64)
	strategies := make(map[string]Strategy)
	record := func(p string, score float64, st Strategy) {
		if prev, seen := scores[p]; seen && prev >= score {
			return
		}
		scores[p] = score
		strategies[p] = st
	}

	// An empty normalized query makes prefix and partial meaningless:
	// everything would be a "prefix" of it. Similarity still runs and
	// the pad rule below dominates.
	if norm != "" {
		s.prefixPass(idx, norm, record)
		if s.opts.EnablePartial {
			s.partialPass(idx, norm, record)
		}
	}
	s.similarityPass(idx, norm, record)

	ranked := make([]Candidate, 0, len(scores))
	for p, score := range scores {
		if score < s.opts.MinSimilarity {
			continue
		}
		ranked = append(ranked, Candidate{Norm: p, Score: score, Strategy: strategies[p]})
	}

	order := indexOrder(idx)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		// Shorter phrases are the more specific correction.
		if len(ranked[i].Norm) != len(ranked[j].Norm) {
			return len(ranked[i].Norm) < len(ranked[j].Norm)
		}
		return order[ranked[i].Norm] < order[ranked[j].Norm]
	})

	if s.opts.MaxSuggestions > 0 && len(ranked) > s.opts.MaxSuggestions {
		ranked = ranked[:s.opts.MaxSuggestions]
	}

	ranked = s.pad(idx, norm, ranked)

	log.Debugf("Scored %q: %d candidates after merge/filter/pad", query, len(ranked))
	return ranked
}

// prefixPass scores every indexed phrase the query is a strict prefix of.
func (s *Scorer) prefixPass(idx *phrase.Index, norm string, record func(string, float64, Strategy)) {
	idx.VisitPrefix(norm, func(p string) {
		if p == norm {
			return
		}
		record(p, 1.0, StrategyPrefix)
	})
}

// partialPass scores word-overlap candidates found via the inverted index.
func (s *Scorer) partialPass(idx *phrase.Index, norm string, record func(string, float64, Strategy)) {
	queryWords := phrase.SplitWords(norm)
	if len(queryWords) == 0 {
		return
	}
	querySet := make(map[string]struct{}, len(queryWords))
	for _, w := range queryWords {
		querySet[w] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, w := range queryWords {
		for _, cand := range idx.LookupByWord(w) {
			if cand == norm {
				continue
			}
			if _, dup := seen[cand]; dup {
				continue
			}
			seen[cand] = struct{}{}

			shared := 0
			for _, cw := range phrase.SplitWords(cand) {
				if _, ok := querySet[cw]; ok {
					shared++
				}
			}
			score := partialScale * float64(shared) / float64(len(querySet))
			record(cand, score, StrategyPartial)
		}
	}
}

// similarityPass scores every indexed phrase by edit-similarity ratio.
func (s *Scorer) similarityPass(idx *phrase.Index, norm string, record func(string, float64, Strategy)) {
	for _, e := range idx.Entries() {
		if e.Norm == norm {
			continue
		}
		record(e.Norm, Ratio(norm, e.Norm), StrategySimilarity)
	}
}

// pad fills the tail with indexed phrases in load order until the list
// reaches MinSuggestions or the index runs out. A deliberate usability
// trade-off: a weak list beats an empty one.
func (s *Scorer) pad(idx *phrase.Index, norm string, ranked []Candidate) []Candidate {
	if len(ranked) >= s.opts.MinSuggestions {
		return ranked
	}
	included := make(map[string]struct{}, len(ranked))
	for _, c := range ranked {
		included[c.Norm] = struct{}{}
	}
	for _, e := range idx.Entries() {
		if len(ranked) >= s.opts.MinSuggestions {
			break
		}
		if e.Norm == norm {
			continue
		}
		if _, dup := included[e.Norm]; dup {
			continue
		}
		included[e.Norm] = struct{}{}
		ranked = append(ranked, Candidate{Norm: e.Norm, Strategy: StrategyPad})
	}
	return ranked
}

func indexOrder(idx *phrase.Index) map[string]int {
	order := make(map[string]int, idx.Size())
	for i, e := range idx.Entries() {
		order[e.Norm] = i
	}
	return order
}
