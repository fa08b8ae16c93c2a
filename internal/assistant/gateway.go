// Package assistant is the facade over the clinic's generative-AI provider.
// It exposes two operations, skin-image analysis and a chat turn, behind a
// single Gateway interface with interchangeable live and offline
// implementations. The gateway never retries; retry and timeout policy
// belong to the caller.
package assistant

import (
	"context"
	"errors"
)

// ChatRole tags who authored a conversation turn.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one prior turn of the conversation, oldest first.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// Image is an encoded image payload for analysis.
type Image struct {
	Data     []byte
	MIMEType string
}

// Analysis is the structured result of a skin scan.
type Analysis struct {
	Condition       string   `json:"condition"`
	Severity        string   `json:"severity"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

var (
	// ErrEmptyImage is returned before any provider call when no image bytes were supplied
	ErrEmptyImage = errors.New("assistant: empty image payload")

	// ErrEmptyMessage is returned before any provider call for a blank chat message
	ErrEmptyMessage = errors.New("assistant: empty chat message")

	// ErrProvider wraps failures of the external provider (network, API, parse)
	ErrProvider = errors.New("assistant: provider request failed")
)

// Gateway is the AI service contract. Both operations block until the
// provider resolves; cancellation goes through ctx. Implementations must
// not panic on empty or malformed provider responses.
type Gateway interface {
	// AnalyzeImage runs a skin scan over the supplied image.
	AnalyzeImage(ctx context.Context, img Image) (Analysis, error)

	// ChatTurn produces the assistant reply for message, optionally using
	// prior turns as conversation context. Implementations may ignore the
	// history; the contract does not require it to affect the reply.
	ChatTurn(ctx context.Context, message string, history []ChatMessage) (string, error)

	// Provider names the backing implementation, for logs and metrics.
	Provider() string
}
