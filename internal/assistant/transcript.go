package assistant

import (
	"sync"
	"time"
)

// TranscriptEntry is one logged conversation turn.
type TranscriptEntry struct {
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the append-only conversation log, keyed by conversation
// id. Entries are only ever appended, never edited or truncated; rendering
// reads them in insertion order.
type Transcript struct {
	mu   sync.RWMutex
	logs map[string][]TranscriptEntry
}

// NewTranscript creates an empty transcript store.
func NewTranscript() *Transcript {
	return &Transcript{logs: make(map[string][]TranscriptEntry)}
}

// Append records a turn at the end of the conversation log.
func (t *Transcript) Append(conversationID string, role ChatRole, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logs[conversationID] = append(t.logs[conversationID], TranscriptEntry{
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})
}

// List returns a snapshot of the conversation in order.
func (t *Transcript) List(conversationID string) []TranscriptEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries := t.logs[conversationID]
	out := make([]TranscriptEntry, len(entries))
	copy(out, entries)
	return out
}

// History converts the log into gateway chat context.
func (t *Transcript) History(conversationID string) []ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries := t.logs[conversationID]
	out := make([]ChatMessage, 0, len(entries))
	for _, e := range entries {
		out = append(out, ChatMessage{Role: e.Role, Text: e.Text})
	}
	return out
}
