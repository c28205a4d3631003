package server

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkarren/phraseward/pkg/config"
	"github.com/mkarren/phraseward/pkg/keywords"
	"github.com/vmihailenco/msgpack/v5"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Match.MinSuggestions = 0
	cfg.Session.SuggestionTimeoutMs = 0
	cfg.Validate()
	return cfg
}

func testSource(t *testing.T, kw []string) *keywords.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keywords.txt")
	if err := os.WriteFile(path, []byte(strings.Join(kw, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("writing keyword file: %v", err)
	}
	src := keywords.NewSource(path)
	if err := src.Reload(); err != nil {
		t.Fatalf("loading keywords: %v", err)
	}
	return src
}

// encodeRequests builds the client side of the stream. Requests are
// encoded as maps, the way a non-Go client would send them.
func encodeRequests(t *testing.T, reqs []map[string]any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, r := range reqs {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encoding request %v: %v", r, err)
		}
	}
	return &buf
}

// keyRequests expands a string into one fire-and-forget key request per
// rune, spaces as the named space key.
func keyRequests(text string) []map[string]any {
	var reqs []map[string]any
	for _, r := range text {
		k := string(r)
		if r == ' ' {
			k = "space"
		}
		reqs = append(reqs, map[string]any{"op": "key", "k": k})
	}
	return reqs
}

// runServer feeds the encoded requests through a server until EOF and
// decodes everything it wrote back.
func runServer(t *testing.T, src *keywords.Source, reqs []map[string]any) []map[string]any {
	t.Helper()
	var out bytes.Buffer
	srv := newServerWithIO(testConfig(), src, encodeRequests(t, reqs), &out)
	if err := srv.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var msgs []map[string]any
	dec := msgpack.NewDecoder(&out)
	for {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("decoding server output: %v", err)
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func asInt(t *testing.T, v any) int64 {
	t.Helper()
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	case int8:
		return int64(n)
	case uint8:
		return int64(n)
	default:
		t.Fatalf("value %v (%T) is not an integer", v, v)
		return 0
	}
}

// findAck returns the ack for a request id, failing if it never came.
func findAck(t *testing.T, msgs []map[string]any, id string) map[string]any {
	t.Helper()
	for _, m := range msgs {
		if m["status"] != nil && m["id"] == id {
			return m
		}
	}
	t.Fatalf("no ack for request %q in %v", id, msgs)
	return nil
}

func findEvent(msgs []map[string]any, ev string) (map[string]any, bool) {
	for _, m := range msgs {
		if m["ev"] == ev {
			return m, true
		}
	}
	return nil, false
}

func TestServerReadyAndHealth(t *testing.T) {
	msgs := runServer(t, testSource(t, []string{"their account", "there is"}), []map[string]any{
		{"id": "r1", "op": "health"},
		{"id": "r2", "op": "frobnicate"},
	})

	ready, ok := findEvent(msgs, "ready")
	if !ok {
		t.Fatal("no ready event")
	}
	if msgs[0]["ev"] != "ready" {
		t.Error("ready event is not the first message")
	}
	if got := asInt(t, ready["phrases"]); got != 2 {
		t.Errorf("ready phrases = %d, want 2", got)
	}

	if ack := findAck(t, msgs, "r1"); ack["status"] != "ok" {
		t.Errorf("health ack = %v, want ok", ack)
	}
	bad := findAck(t, msgs, "r2")
	if bad["status"] != "error" {
		t.Errorf("unknown-op ack = %v, want error", bad)
	}
	if errText, _ := bad["error"].(string); !strings.Contains(errText, "frobnicate") {
		t.Errorf("unknown-op error %q does not name the op", errText)
	}
}

// The full round trip: key events stream in, a suggestion event comes
// out, the accept produces an apply event for the client to execute.
func TestServerSuggestionRoundTrip(t *testing.T) {
	reqs := keyRequests("ther account ")
	reqs = append(reqs,
		map[string]any{"id": "r1", "op": "accept", "x": "their account"},
		map[string]any{"id": "r2", "op": "apply_result", "e": ""},
	)
	msgs := runServer(t, testSource(t, []string{"their account", "account balance"}), reqs)

	sug, ok := findEvent(msgs, "suggestion")
	if !ok {
		t.Fatal("no suggestion event emitted")
	}
	if sug["p"] != "ther account" {
		t.Errorf("suggestion phrase = %v, want %q", sug["p"], "ther account")
	}
	ranked, _ := sug["s"].([]any)
	if len(ranked) == 0 || ranked[0] != "their account" {
		t.Errorf("suggestion ranked = %v, want %q first", ranked, "their account")
	}
	if got := asInt(t, sug["c"]); got != int64(len(ranked)) {
		t.Errorf("suggestion count = %d, want %d", got, len(ranked))
	}

	apply, ok := findEvent(msgs, "apply")
	if !ok {
		t.Fatal("no apply event emitted for the accepted correction")
	}
	if apply["o"] != "ther account" || apply["x"] != "their account" {
		t.Errorf("apply event = %v", apply)
	}

	if ack := findAck(t, msgs, "r1"); ack["status"] != "ok" {
		t.Errorf("accept ack = %v, want ok", ack)
	}
	if ack := findAck(t, msgs, "r2"); ack["status"] != "ok" {
		t.Errorf("apply_result ack = %v, want ok", ack)
	}
}

// Resolving with nothing outstanding is a client error, reported in the
// ack rather than dropped.
func TestServerResolutionWithoutPending(t *testing.T) {
	msgs := runServer(t, testSource(t, []string{"their account"}), []map[string]any{
		{"id": "r1", "op": "ignore"},
		{"id": "r2", "op": "accept", "x": "whatever"},
	})

	for _, id := range []string{"r1", "r2"} {
		ack := findAck(t, msgs, id)
		if ack["status"] != "error" {
			t.Errorf("ack %s = %v, want error with no pending suggestion", id, ack)
		}
	}
}

func TestServerReload(t *testing.T) {
	src := testSource(t, []string{"their account"})
	msgs := runServer(t, src, []map[string]any{
		{"id": "r1", "op": "reload"},
	})

	ack := findAck(t, msgs, "r1")
	if ack["status"] != "ok" {
		t.Fatalf("reload ack = %v, want ok", ack)
	}
	if got := asInt(t, ack["phrases"]); got != 1 {
		t.Errorf("reload ack phrases = %d, want 1", got)
	}
}

func TestServerReloadFailure(t *testing.T) {
	src := keywords.NewSource(filepath.Join(t.TempDir(), "missing.txt"))
	msgs := runServer(t, src, []map[string]any{
		{"id": "r1", "op": "reload"},
	})

	ack := findAck(t, msgs, "r1")
	if ack["status"] != "error" {
		t.Errorf("reload ack = %v, want error for a missing file", ack)
	}
}
