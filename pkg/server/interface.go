/*
Package server implements msgpack IPC for the phrase-correction engine.

The server package provides a minimal interface for streaming key events
in and suggestion events out, using msgpack serialization over
stdin/stdout.

# IPC

The client (keyboard hook + suggestion surface) sends requests via
stdin; the server writes acknowledgements and asynchronous events to
stdout. Every request carries an ID echoed in its ack; suggestion and
apply events carry their own IDs generated by the engine.

Key events use this structure:

	{"id": "req_001", "op": "key", "k": "a"}
	{"id": "req_002", "op": "key", "k": "space"}

When a phrase completion scores well enough, the server emits a
suggestion event (not tied to a request ID):

	{"ev": "suggestion", "id": "01J...", "p": "theyre acount", "s": ["their account", "they're going"], "c": 2}

The client resolves it with exactly one of:

	{"id": "req_003", "op": "accept", "x": "their account"}
	{"id": "req_004", "op": "ignore"}

or lets it expire server-side (the configured timeout). An accepted
correction produces an apply event; the client owns focus restoration
and text replacement and reports the outcome back:

	{"ev": "apply", "id": "01J...", "o": "theyre acount", "x": "their account"}
	{"id": "req_005", "op": "apply_result", "e": ""}

Remaining ops: "resubmit" replays the combination check bypassing the
pending suppression once, "reload" rebuilds the keyword index from disk
with an atomic swap, and "health" answers with a plain ok ack.
*/
package server

// Request is an incoming client message.
type Request struct {
	ID         string `msgpack:"id"`
	Op         string `msgpack:"op"`
	Key        string `msgpack:"k,omitempty"`
	Correction string `msgpack:"x,omitempty"`
	Error      string `msgpack:"e,omitempty"` // apply_result outcome
}

// Ack is the response to a single request.
type Ack struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Error   string `msgpack:"error,omitempty"`
	Phrases int    `msgpack:"phrases,omitempty"` // reload: indexed phrase count
}

// SuggestionEvent is pushed when a suggestion becomes pending.
type SuggestionEvent struct {
	Event  string   `msgpack:"ev"` // "suggestion"
	ID     string   `msgpack:"id"`
	Phrase string   `msgpack:"p"`
	Ranked []string `msgpack:"s"`
	Count  int      `msgpack:"c"`
}

// ApplyEvent is pushed when an accepted correction must be injected
// into the focused application by the client.
type ApplyEvent struct {
	Event      string `msgpack:"ev"` // "apply"
	ID         string `msgpack:"id"`
	Original   string `msgpack:"o"`
	Correction string `msgpack:"x"`
}

// ReadyEvent signals that the server finished starting up.
type ReadyEvent struct {
	Event   string `msgpack:"ev"` // "ready"
	Phrases int    `msgpack:"phrases"`
}
