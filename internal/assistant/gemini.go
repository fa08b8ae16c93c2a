package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const analysisPrompt = `You are a skincare analysis assistant for the LumeSkin clinic.
Analyze the attached skin photo and respond with ONLY a JSON object of this shape:
{"condition": string, "severity": "Low"|"Medium"|"High", "recommendations": [string, ...], "summary": string}
Do not include markdown fences or any text outside the JSON object.`

const chatSystemPrompt = `You are Lume, the friendly skincare assistant for the LumeSkin clinic.
Answer questions about skincare, clinic products and booking dermatologist consultations.
Keep replies short and never give a medical diagnosis; suggest a consultation instead.`

// GeminiGateway implements Gateway using Google's Gemini API.
type GeminiGateway struct {
	client  *genai.Client
	modelID string
}

// NewGeminiGateway creates a Gemini-backed gateway.
func NewGeminiGateway(ctx context.Context, apiKey, modelID string) (*GeminiGateway, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assistant: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assistant: failed to create gemini client: %w", err)
	}

	return &GeminiGateway{
		client:  client,
		modelID: modelID,
	}, nil
}

// Provider implements Gateway.
func (g *GeminiGateway) Provider() string { return "gemini" }

// AnalyzeImage sends the photo to Gemini and parses the structured result.
// An empty provider response degrades to an empty Analysis rather than an
// error; malformed JSON is a provider failure.
func (g *GeminiGateway) AnalyzeImage(ctx context.Context, img Image) (Analysis, error) {
	if len(img.Data) == 0 {
		return Analysis{}, ErrEmptyImage
	}

	model := g.client.GenerativeModel(g.modelID)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(imageFormat(img.MIMEType), img.Data),
		genai.Text(analysisPrompt),
	)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: gemini analysis: %v", ErrProvider, err)
	}

	return parseAnalysis(candidateText(resp))
}

// ChatTurn sends the message with prior turns as conversation history.
func (g *GeminiGateway) ChatTurn(ctx context.Context, message string, history []ChatMessage) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}

	model := g.client.GenerativeModel(g.modelID)
	model.SystemInstruction = genai.NewUserContent(genai.Text(chatSystemPrompt))

	cs := model.StartChat()
	for _, turn := range history {
		content := strings.TrimSpace(turn.Text)
		if content == "" {
			continue
		}
		role := "user"
		if turn.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("%w: gemini chat: %v", ErrProvider, err)
	}

	return strings.TrimSpace(candidateText(resp)), nil
}

// Close releases resources held by the Gemini client.
func (g *GeminiGateway) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// candidateText joins the text parts of the first candidate. A response
// with no candidates or no parts yields the empty string.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// parseAnalysis decodes the provider's JSON, tolerating markdown fences
// around the object. An empty body becomes an empty Analysis.
func parseAnalysis(body string) (Analysis, error) {
	cleaned := strings.TrimSpace(body)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return Analysis{}, nil
	}

	var out Analysis
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return Analysis{}, fmt.Errorf("%w: decode analysis: %v", ErrProvider, err)
	}
	return out, nil
}

// imageFormat maps a MIME type to the format token genai expects.
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
	if format == "" {
		return "jpeg"
	}
	return format
}
