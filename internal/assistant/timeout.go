package assistant

import (
	"context"
	"time"
)

// timeoutGateway bounds every provider call with a deadline.
type timeoutGateway struct {
	inner   Gateway
	timeout time.Duration
}

// WithTimeout wraps a gateway so each call carries a deadline. A zero or
// negative timeout returns the gateway unchanged.
func WithTimeout(gw Gateway, timeout time.Duration) Gateway {
	if timeout <= 0 {
		return gw
	}
	return &timeoutGateway{inner: gw, timeout: timeout}
}

func (g *timeoutGateway) Provider() string { return g.inner.Provider() }

func (g *timeoutGateway) AnalyzeImage(ctx context.Context, img Image) (Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.inner.AnalyzeImage(ctx, img)
}

func (g *timeoutGateway) ChatTurn(ctx context.Context, message string, history []ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.inner.ChatTurn(ctx, message, history)
}
