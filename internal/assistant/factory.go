package assistant

import (
	"context"
	"fmt"

	"github.com/lumeskin/clinic-platform/internal/config"
	"github.com/lumeskin/clinic-platform/pkg/logging"
)

// NewFromConfig selects the gateway implementation at startup. An explicit
// AI_PROVIDER wins; "auto" detects by credential presence and degrades to
// offline mode when no key is configured. A missing credential is never a
// startup failure.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *logging.Logger) (Gateway, error) {
	if logger == nil {
		logger = logging.Default()
	}

	provider := cfg.AIProvider
	if provider == "" || provider == "auto" {
		switch {
		case cfg.GeminiAPIKey != "":
			provider = "gemini"
		case cfg.OpenAIAPIKey != "":
			provider = "openai"
		default:
			provider = "offline"
		}
	}

	switch provider {
	case "gemini":
		gw, err := NewGeminiGateway(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, err
		}
		logger.Info("assistant gateway ready", "provider", "gemini", "model", cfg.GeminiModelID)
		return gw, nil
	case "openai":
		gw, err := NewOpenAIGateway(cfg.OpenAIAPIKey, cfg.OpenAIModelID)
		if err != nil {
			return nil, err
		}
		logger.Info("assistant gateway ready", "provider", "openai", "model", cfg.OpenAIModelID)
		return gw, nil
	case "offline":
		logger.Warn("no AI provider credential configured, running in offline mode")
		return NewOfflineGateway(cfg.OfflineDelay), nil
	}
	return nil, fmt.Errorf("assistant: unknown provider %q", cfg.AIProvider)
}
