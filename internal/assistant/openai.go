package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGateway implements the chat side of Gateway against the OpenAI
// API. Image analysis is only wired for the Gemini provider, so this
// gateway answers AnalyzeImage with the offline placeholder.
type OpenAIGateway struct {
	client   *openai.Client
	modelID  string
	fallback *OfflineGateway
}

// NewOpenAIGateway creates an OpenAI-backed gateway.
func NewOpenAIGateway(apiKey, modelID string) (*OpenAIGateway, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assistant: openai api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gpt-4o-mini"
	}
	return &OpenAIGateway{
		client:   openai.NewClient(apiKey),
		modelID:  modelID,
		fallback: NewOfflineGateway(0),
	}, nil
}

// Provider implements Gateway.
func (g *OpenAIGateway) Provider() string { return "openai" }

// AnalyzeImage is not supported on this provider and degrades to the
// offline placeholder result.
func (g *OpenAIGateway) AnalyzeImage(ctx context.Context, img Image) (Analysis, error) {
	return g.fallback.AnalyzeImage(ctx, img)
}

// ChatTurn sends the message history to the chat completion API.
func (g *OpenAIGateway) ChatTurn(ctx context.Context, message string, history []ChatMessage) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: chatSystemPrompt,
	})
	for _, turn := range history {
		content := strings.TrimSpace(turn.Text)
		if content == "" {
			continue
		}
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.modelID,
		Messages:    msgs,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai chat: %v", ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
