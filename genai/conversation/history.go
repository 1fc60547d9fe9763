package conversation

import "sync"

// History is an ordered, append-only sequence of turns. It is safe for
// concurrent readers; only its owning Initiator and Orchestrator append.
type History struct {
	mux   sync.RWMutex
	turns []Turn
}

// NewHistory creates a history with optional initial turns.
func NewHistory(turns ...Turn) *History {
	h := &History{}
	h.turns = append(h.turns, turns...)
	return h
}

// Append adds a turn to the end of the history.
func (h *History) Append(turn Turn) {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.turns = append(h.turns, turn)
}

// Turns returns a snapshot copy of all turns.
func (h *History) Turns() []Turn {
	h.mux.RLock()
	defer h.mux.RUnlock()
	result := make([]Turn, len(h.turns))
	copy(result, h.turns)
	return result
}

// Len returns number of turns.
func (h *History) Len() int {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return len(h.turns)
}

// Last returns the most recent turn or nil when the history is empty.
func (h *History) Last() *Turn {
	h.mux.RLock()
	defer h.mux.RUnlock()
	if len(h.turns) == 0 {
		return nil
	}
	last := h.turns[len(h.turns)-1]
	return &last
}

// Replace swaps all turns wholesale.
func (h *History) Replace(turns []Turn) {
	snapshot := make([]Turn, len(turns))
	copy(snapshot, turns)
	h.mux.Lock()
	defer h.mux.Unlock()
	h.turns = snapshot
}

// Clear removes all turns.
func (h *History) Clear() {
	h.Replace(nil)
}

// Count returns the number of turns by speaker.
func (h *History) Count(speaker Speaker) int {
	h.mux.RLock()
	defer h.mux.RUnlock()
	count := 0
	for i := range h.turns {
		if h.turns[i].Speaker == speaker {
			count++
		}
	}
	return count
}

// Alternates reports whether consecutive turns always switch speakers.
func Alternates(turns []Turn) bool {
	for i := 1; i < len(turns); i++ {
		if turns[i].Speaker == turns[i-1].Speaker {
			return false
		}
	}
	return true
}
