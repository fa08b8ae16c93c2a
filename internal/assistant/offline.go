package assistant

import (
	"context"
	"strings"
	"time"
)

// OfflineGateway is the degraded-mode implementation used when no provider
// credential is configured. It never fails: analysis returns a fixed
// placeholder result and chat answers from a small canned set. The optional
// delay imitates provider latency for manual testing; leave it zero in
// automated tests.
type OfflineGateway struct {
	delay time.Duration
}

// NewOfflineGateway creates the degraded-mode gateway.
func NewOfflineGateway(delay time.Duration) *OfflineGateway {
	return &OfflineGateway{delay: delay}
}

// Provider implements Gateway.
func (g *OfflineGateway) Provider() string { return "offline" }

func (g *OfflineGateway) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(g.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// AnalyzeImage returns the fixed degraded-mode analysis. Missing
// credentials are a configuration state, not an error, so this never
// fails once the payload is present.
func (g *OfflineGateway) AnalyzeImage(ctx context.Context, img Image) (Analysis, error) {
	if len(img.Data) == 0 {
		return Analysis{}, ErrEmptyImage
	}
	if err := g.wait(ctx); err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Condition: "Offline Mode",
		Severity:  "N/A",
		Recommendations: []string{
			"Use a pH-balanced cleanser twice daily",
			"Apply Lume Hydrating Serum to damp skin",
			"Avoid harsh chemical exfoliants for 48 hours",
		},
		Summary: "Live analysis is unavailable without an AI provider credential. Book a consultation with one of our dermatologists for a personalized assessment.",
	}, nil
}

// ChatTurn answers from the canned reply set. Prior history is ignored.
func (g *OfflineGateway) ChatTurn(ctx context.Context, message string, _ []ChatMessage) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	if err := g.wait(ctx); err != nil {
		return "", err
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "hello"), strings.Contains(lower, "hi"):
		return "Hello! I'm Lume, your skincare assistant. How can I help your glow today?", nil
	case strings.Contains(lower, "acne"):
		return "Acne can be tricky! I recommend our Pink Clay Mask for targeted pore purification and consulting with Dr. Sarah Smith.", nil
	case strings.Contains(lower, "order"), strings.Contains(lower, "buy"):
		return "You can browse our Boutique in the Shop tab and add items directly to your clinical kit.", nil
	}
	return "That's an interesting question about your skin! While I'm a specialized assistant, I recommend booking a consultation with one of our dermatologists for a personalized medical plan.", nil
}
