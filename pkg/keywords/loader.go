// Package keywords loads the operator-supplied phrase list and owns the
// live index snapshot the matching side reads from.
//
// The file format is plain UTF-8 text, one phrase per line as authored;
// blank lines are skipped. A failed load is reported but never fatal:
// the engine keeps running against whatever index it had before, or an
// empty one on first load.
package keywords

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/mkarren/phraseward/pkg/phrase"
)

// LoadError wraps a keyword source failure so callers can tell an
// unreadable list apart from other errors.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading keywords from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReadFile reads a keyword list from path, one phrase per line.
func ReadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	var phrases []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	log.Debugf("Read %d keyword phrases from %s", len(phrases), path)
	return phrases, nil
}

// Source holds the current index and rebuilds it from a file on demand.
// Readers call Index and get a consistent snapshot; Reload builds a
// fresh index off to the side and swaps the pointer atomically, so a
// reload is never observable half-done.
type Source struct {
	path string
	idx  atomic.Pointer[phrase.Index]
}

// NewSource returns a Source backed by the given file with an empty
// index until the first Reload.
func NewSource(path string) *Source {
	s := &Source{path: path}
	s.idx.Store(phrase.Build(nil))
	return s
}

// Index returns the current index snapshot. Never nil.
func (s *Source) Index() *phrase.Index {
	return s.idx.Load()
}

// Reload reads the keyword file and swaps in a freshly built index.
// On failure the previous index stays in place and the error is
// returned for the caller to log.
func (s *Source) Reload() error {
	phrases, err := ReadFile(s.path)
	if err != nil {
		return err
	}
	s.idx.Store(phrase.Build(phrases))
	log.Infof("Keyword index reloaded: %d phrases", s.Index().Size())
	return nil
}
