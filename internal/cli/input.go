// Package cli provides a simple interactive handler for exercising the
// engine in real time: typed lines are replayed as key events and
// suggestions are resolved with colon commands. DBG and testing only.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mkarren/phraseward/internal/logger"
	"github.com/mkarren/phraseward/pkg/config"
	"github.com/mkarren/phraseward/pkg/engine"
	"github.com/mkarren/phraseward/pkg/keywords"
)

// InputHandler drives an Engine from stdin lines. Each line is fed
// through the keystroke state machine rune by rune with a final enter,
// so the debug session exercises the exact same paths as live capture.
type InputHandler struct {
	eng    *engine.Engine
	source *keywords.Source
	last   *engine.Suggestion
	out    *log.Logger
}

// NewInputHandler builds the handler and its engine.
func NewInputHandler(cfg *config.Config, source *keywords.Source) *InputHandler {
	h := &InputHandler{
		source: source,
		out:    logger.NewWithConfig("", log.GetLevel(), false, false, log.TextFormatter),
	}
	h.eng = engine.New(cfg, source,
		engine.WithPresenter(engine.PresenterFunc(h.showSuggestion)),
		engine.WithApplier(engine.ApplierFunc(h.showCorrection)),
	)
	return h
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin, and
// feeds it through the engine. Colon commands resolve suggestions:
// :accept N, :ignore, :resubmit, :reload, :window. Loop terminates
// when stdin closes.
func (h *InputHandler) Start() error {
	h.out.Print("Phraseward CLI")
	reader := bufio.NewReader(os.Stdin)
	h.out.Print("type text and press Enter; resolve with :accept N | :ignore | :resubmit (Ctrl+C to exit):")

	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			h.handleCommand(line)
			continue
		}
		h.feed(line)
	}
}

// feed replays a line of text as key events, ending with enter.
func (h *InputHandler) feed(line string) {
	for _, r := range line {
		if r == ' ' {
			h.eng.HandleKey(engine.KeySpace)
			continue
		}
		h.eng.HandleKey(engine.Key(string(r)))
	}
	h.eng.HandleKey(engine.KeyEnter)

	if _, pending := h.eng.PendingSuggestion(); !pending {
		log.Debugf("No suggestion for %q, window is now %v", line, h.eng.WindowWords())
	}
}

// handleCommand resolves or inspects the current session.
func (h *InputHandler) handleCommand(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":accept":
		if h.last == nil {
			log.Warn("Nothing to accept")
			return
		}
		n := 1
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil {
				n = v
			}
		}
		if n < 1 || n > len(h.last.Ranked) {
			log.Errorf("Pick 1..%d", len(h.last.Ranked))
			return
		}
		if err := h.eng.Accept(h.last.Ranked[n-1]); err != nil {
			log.Errorf("Accept failed: %v", err)
		}
		h.last = nil
	case ":ignore":
		if err := h.eng.Ignore(); err != nil {
			log.Errorf("Ignore failed: %v", err)
		}
		h.last = nil
	case ":resubmit":
		h.eng.ForceResubmit()
	case ":reload":
		if err := h.source.Reload(); err != nil {
			log.Errorf("Reload failed: %v", err)
			return
		}
		h.out.Printf("Reloaded %d phrases", h.source.Index().Size())
	case ":window":
		h.out.Printf("window: %v", h.eng.WindowWords())
	default:
		log.Errorf("Unknown command: %s", fields[0])
	}
}

// showSuggestion pretty prints a pending suggestion.
func (h *InputHandler) showSuggestion(s engine.Suggestion) {
	h.last = &s
	h.out.Printf("Correction for '%s' (%d candidates):", s.Phrase, len(s.Ranked))
	for i, cand := range s.Ranked {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", cand)
		h.out.Printf("%2d. %s", i+1, clWord)
	}
}

// showCorrection stands in for the external injection collaborator.
func (h *InputHandler) showCorrection(original, correction string, _ any) error {
	h.out.Printf("[apply] '%s' -> '%s'", original, correction)
	return nil
}
