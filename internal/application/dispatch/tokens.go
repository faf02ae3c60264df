package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lead-relay/internal/domain"
)

// TokenProvider resolves the bearer token used to call an integration.
// Refreshing tokens is the provider's concern.
type TokenProvider interface {
	Token(ctx context.Context, in domain.Integration) (string, error)
}

// CredentialTokens reads the token straight from the stored credentials.
type CredentialTokens struct{}

func (CredentialTokens) Token(_ context.Context, in domain.Integration) (string, error) {
	tok := in.Credentials["access_token"]
	if tok == "" {
		return "", fmt.Errorf("%s has no access token: %w", in.Name, domain.ErrConfigurationMissing)
	}
	return tok, nil
}

func bearerHeaders(token string) string {
	b, _ := json.Marshal(map[string]string{"Authorization": "Bearer " + token})
	return string(b)
}
