package keywords

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keywords.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing keyword file: %v", err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	path := writeList(t, "their account\n\n  they're going  \n\nthere is\n")

	phrases, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := []string{"their account", "they're going", "there is"}
	if len(phrases) != len(want) {
		t.Fatalf("got %d phrases %v, want %d", len(phrases), phrases, len(want))
	}
	for i := range want {
		if phrases[i] != want[i] {
			t.Errorf("phrases[%d] = %q, want %q (trimmed, blanks skipped)", i, phrases[i], want[i])
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("ReadFile succeeded on a missing file")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error %T is not a *LoadError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadError does not unwrap to fs.ErrNotExist: %v", err)
	}
}

func TestSourceStartsEmpty(t *testing.T) {
	src := NewSource("irrelevant")
	idx := src.Index()
	if idx == nil {
		t.Fatal("Index() = nil before first reload")
	}
	if idx.Size() != 0 {
		t.Errorf("initial index size = %d, want 0", idx.Size())
	}
}

func TestSourceReload(t *testing.T) {
	path := writeList(t, "their account\nthere is\n")
	src := NewSource(path)

	if err := src.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := src.Index().Size(); got != 2 {
		t.Errorf("index size = %d, want 2", got)
	}

	// A reload picks up edits and swaps in a fresh snapshot; the old
	// snapshot held by a reader stays valid.
	old := src.Index()
	if err := os.WriteFile(path, []byte("solo phrase\n"), 0o644); err != nil {
		t.Fatalf("rewriting keyword file: %v", err)
	}
	if err := src.Reload(); err != nil {
		t.Fatalf("second Reload: %v", err)
	}
	if got := src.Index().Size(); got != 1 {
		t.Errorf("index size after edit = %d, want 1", got)
	}
	if old.Size() != 2 {
		t.Errorf("old snapshot size = %d, want it unchanged", old.Size())
	}
}

func TestSourceReloadFailureKeepsIndex(t *testing.T) {
	path := writeList(t, "their account\n")
	src := NewSource(path)
	if err := src.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("removing keyword file: %v", err)
	}
	if err := src.Reload(); err == nil {
		t.Fatal("Reload succeeded after the file vanished")
	}
	if got := src.Index().Size(); got != 1 {
		t.Errorf("index size after failed reload = %d, want the old index kept", got)
	}
}
