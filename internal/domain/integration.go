package domain

import (
	"net/url"
	"slices"
	"time"
)

// Integration names. The set is fixed; configuration calls reject anything else.
const (
	IntegrationWebhook      = "webhook"
	IntegrationGoogleSheets = "google-sheets"
	IntegrationHubSpot      = "hubspot"
	IntegrationZohoCRM      = "zoho-crm"
)

// IntegrationNames lists every known integration in dispatch order.
var IntegrationNames = []string{
	IntegrationWebhook,
	IntegrationGoogleSheets,
	IntegrationHubSpot,
	IntegrationZohoCRM,
}

// IsKnownIntegration reports whether name is one of IntegrationNames.
func IsKnownIntegration(name string) bool {
	return slices.Contains(IntegrationNames, name)
}

// Integration is the stored state of one destination.
// PK: name. Credentials are opaque to this service and only read by the token provider.
type Integration struct {
	Name        string            `json:"name" dynamodbav:"name"`
	Endpoint    string            `json:"endpoint,omitempty" dynamodbav:"endpoint,omitempty"`
	Credentials map[string]string `json:"credentials,omitempty" dynamodbav:"credentials,omitempty"`
	LiveSync    bool              `json:"live_sync" dynamodbav:"live_sync"`
	UpdatedAt   time.Time         `json:"updated_at" dynamodbav:"updated_at"`
}

// WebhookConfig is the operator-managed webhook destination.
// Headers is a serialized JSON object of extra request headers and may be malformed.
type WebhookConfig struct {
	URL     string   `json:"url" dynamodbav:"url"`
	Headers string   `json:"headers" dynamodbav:"headers"`
	Events  []string `json:"events" dynamodbav:"events"`
}

// Configured reports whether a destination URL is set.
func (c *WebhookConfig) Configured() bool {
	return c != nil && c.URL != ""
}

// Accepts reports whether the webhook subscribes to event. An empty list subscribes to all.
func (c *WebhookConfig) Accepts(event string) bool {
	if len(c.Events) == 0 {
		return true
	}
	return slices.Contains(c.Events, event)
}

// ValidURL reports whether raw is an absolute http(s) URL.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
