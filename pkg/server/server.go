package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mkarren/phraseward/pkg/config"
	"github.com/mkarren/phraseward/pkg/engine"
	"github.com/mkarren/phraseward/pkg/keywords"
	"github.com/oklog/ulid/v2"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

// outBuffer bounds the event/ack queue so a stalled client can never
// block key-event processing; overflow drops the message and logs.
const outBuffer = 64

// Server handles the IPC for the phrase-correction engine.
// It owns the engine instance and acts as its presenter and applier:
// suggestions and apply requests become outbound events, resolutions
// come back as requests.
type Server struct {
	engine *engine.Engine
	source *keywords.Source
	reader *bufio.Reader
	writer *bufio.Writer

	out    chan any
	sendMu sync.Mutex
	closed bool
}

// NewServer creates a new engine server using stdin/stdout for IPC.
func NewServer(cfg *config.Config, source *keywords.Source) *Server {
	return newServerWithIO(cfg, source, os.Stdin, os.Stdout)
}

func newServerWithIO(cfg *config.Config, source *keywords.Source, r io.Reader, w io.Writer) *Server {
	s := &Server{
		source: source,
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
		out:    make(chan any, outBuffer),
	}
	s.engine = engine.New(cfg, source,
		engine.WithPresenter(engine.PresenterFunc(s.presentSuggestion)),
		engine.WithApplier(engine.ApplierFunc(s.applyCorrection)),
	)
	return s
}

// Engine exposes the owned engine, mainly for tests.
func (s *Server) Engine() *engine.Engine {
	return s.engine
}

// Run starts the request decode loop and the event writer and blocks
// until the client disconnects (EOF) or a transport error occurs.
func (s *Server) Run() error {
	log.Debug("Starting engine server.")
	s.send(ReadyEvent{Event: "ready", Phrases: s.source.Index().Size()})

	var g errgroup.Group
	g.Go(s.writeLoop)
	g.Go(func() error {
		defer s.closeOut()
		return s.readLoop()
	})
	return g.Wait()
}

// readLoop decodes requests from stdin until EOF.
func (s *Server) readLoop() error {
	dec := msgpack.NewDecoder(s.reader)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Client disconnected (EOF)")
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(req)
	}
}

// writeLoop serializes every outbound ack and event onto stdout.
func (s *Server) writeLoop() error {
	enc := msgpack.NewEncoder(s.writer)
	for msg := range s.out {
		if err := enc.Encode(msg); err != nil {
			log.Errorf("Encoding response: %v", err)
			return err
		}
		if err := s.writer.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// handleRequest dispatches one decoded request.
func (s *Server) handleRequest(req Request) {
	switch req.Op {
	case "key":
		s.engine.HandleKey(engine.Key(req.Key))
		// Key events are fire-and-forget unless the client asked for
		// an ack by carrying an ID.
		if req.ID != "" {
			s.ack(req.ID, nil)
		}
	case "accept":
		s.ack(req.ID, s.engine.Accept(req.Correction))
	case "ignore":
		s.ack(req.ID, s.engine.Ignore())
	case "resubmit":
		s.engine.ForceResubmit()
		s.ack(req.ID, nil)
	case "reload":
		err := s.source.Reload()
		if err != nil {
			log.Errorf("Reloading keywords: %v", err)
			s.ack(req.ID, err)
			return
		}
		s.send(Ack{ID: req.ID, Status: "ok", Phrases: s.source.Index().Size()})
	case "apply_result":
		// The client owns the actual text replacement; log the outcome
		// it reports and move on. No retry.
		if req.Error != "" {
			log.Errorf("Client failed to apply correction: %s", req.Error)
		} else {
			log.Debug("Client applied correction")
		}
		if req.ID != "" {
			s.ack(req.ID, nil)
		}
	case "health":
		s.ack(req.ID, nil)
	default:
		s.ack(req.ID, fmt.Errorf("unknown op: %s", req.Op))
	}
}

// ack sends a request acknowledgement carrying err when non-nil.
func (s *Server) ack(id string, err error) {
	if err != nil {
		s.send(Ack{ID: id, Status: "error", Error: err.Error()})
		return
	}
	s.send(Ack{ID: id, Status: "ok"})
}

// presentSuggestion is the engine's presenter: pending suggestions
// become outbound events.
func (s *Server) presentSuggestion(sug engine.Suggestion) {
	s.send(SuggestionEvent{
		Event:  "suggestion",
		ID:     sug.ID,
		Phrase: sug.Phrase,
		Ranked: sug.Ranked,
		Count:  len(sug.Ranked),
	})
}

// applyCorrection is the engine's applier: the replacement itself
// happens client-side, so emit an apply event and report success. The
// client sends its real outcome back as an apply_result request.
func (s *Server) applyCorrection(original, correction string, _ any) error {
	s.send(ApplyEvent{
		Event:      "apply",
		ID:         ulid.Make().String(),
		Original:   original,
		Correction: correction,
	})
	return nil
}

// send queues an outbound message without ever blocking the caller.
func (s *Server) send(msg any) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- msg:
	default:
		log.Warnf("Outbound queue full, dropping %T", msg)
	}
}

// closeOut stops the writer once the reader is done.
func (s *Server) closeOut() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.out)
	}
}
