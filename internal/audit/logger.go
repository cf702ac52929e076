// Package audit records one log entry per processed assertion.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/factline/factline/internal/model"
)

// Logger collects assertion outcomes. Every assertion gets exactly one
// entry regardless of how processing ended; a second Record for the same
// assertion ID is rejected.
type Logger struct {
	mu      sync.Mutex
	seen    map[string]bool
	entries []model.AssertionLogEntry
}

// NewLogger creates an empty Logger.
func NewLogger() *Logger {
	return &Logger{seen: make(map[string]bool)}
}

// Record appends an entry for the assertion. It returns an error if the
// assertion was already recorded, which signals a processing bug upstream.
func (l *Logger) Record(assertionID string, d model.PromotionDecision) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seen[assertionID] {
		return fmt.Errorf("audit: duplicate entry for assertion %s", assertionID)
	}
	l.seen[assertionID] = true
	l.entries = append(l.entries, model.AssertionLogEntry{
		ID:          uuid.NewString(),
		AssertionID: assertionID,
		Status:      d.Status,
		Reason:      d.Reason,
		Rule:        d.Rule,
		Detail:      d.Detail,
		Timestamp:   time.Now().UTC(),
	})
	return nil
}

// Recorded reports whether the assertion already has an entry.
func (l *Logger) Recorded(assertionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[assertionID]
}

// Entries returns a copy of all entries in record order.
func (l *Logger) Entries() []model.AssertionLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.AssertionLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// WriteJSONL streams the entries as JSON lines.
func (l *Logger) WriteJSONL(w io.Writer) error {
	for _, e := range l.Entries() {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal log entry %s: %w", e.ID, err)
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("write log entry: %w", err)
		}
	}
	return nil
}
