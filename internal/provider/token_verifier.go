package provider

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/where2play/calendar-api/internal/models"
)

// StubTokenVerifier accepts any non-empty provider token and derives a
// deterministic profile from the provider name. It stands in for real
// OAuth2 token introspection in development and end-to-end test runs.
type StubTokenVerifier struct {
	logger *zap.Logger
}

// NewStubTokenVerifier constructs the stub verifier.
func NewStubTokenVerifier(logger *zap.Logger) *StubTokenVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubTokenVerifier{logger: logger}
}

// Verify returns the canned profile bound to the provider. An empty token
// is rejected.
func (v *StubTokenVerifier) Verify(ctx context.Context, provider models.AuthProvider, token string) (*models.ProviderProfile, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("empty %s token", provider)
	}

	name := strings.ToLower(string(provider))
	v.logger.Debug("accepting stubbed provider token", zap.String("provider", name))
	return &models.ProviderProfile{
		Email:      fmt.Sprintf("e2e-test-%s@example.com", name),
		Name:       fmt.Sprintf("E2E Test User (%s)", provider),
		PictureURL: fmt.Sprintf("https://example.com/%s.jpg", name),
		ProviderID: fmt.Sprintf("e2e-%s-123", name),
	}, nil
}
