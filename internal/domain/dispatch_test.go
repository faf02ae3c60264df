package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDispatchEvent_CoercesValues(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("X", 3600))
	ev := NewDispatchEvent("01H", EventNewLead, ts, map[string]any{
		"qualified": true,
		"spam":      false,
		"score":     42,
		"ratio":     0.5,
		"name":      "Ada",
		"missing":   nil,
		"at":        ts,
	})

	assert.Equal(t, "true", ev.Fields["qualified"])
	assert.Equal(t, "false", ev.Fields["spam"])
	assert.Equal(t, "42", ev.Fields["score"])
	assert.Equal(t, "0.5", ev.Fields["ratio"])
	assert.Equal(t, "Ada", ev.Fields["name"])
	assert.Equal(t, "", ev.Fields["missing"])
	assert.Equal(t, "2026-03-01T11:30:00Z", ev.Fields["at"])
	assert.Equal(t, time.UTC, ev.Timestamp.Location())
}

func TestWebhookConfig_Accepts(t *testing.T) {
	all := &WebhookConfig{URL: "https://x.test"}
	assert.True(t, all.Accepts(EventNewLead))

	only := &WebhookConfig{URL: "https://x.test", Events: []string{EventTest}}
	assert.True(t, only.Accepts(EventTest))
	assert.False(t, only.Accepts(EventNewLead))
}

func TestWebhookConfig_Configured(t *testing.T) {
	var nilCfg *WebhookConfig
	assert.False(t, nilCfg.Configured())
	assert.False(t, (&WebhookConfig{}).Configured())
	assert.True(t, (&WebhookConfig{URL: "https://x.test"}).Configured())
}

func TestValidURL(t *testing.T) {
	assert.True(t, ValidURL("https://hooks.example.com/abc?x=1"))
	assert.True(t, ValidURL("http://localhost:8080/hook"))
	assert.False(t, ValidURL("ftp://example.com"))
	assert.False(t, ValidURL("/relative"))
	assert.False(t, ValidURL("::bad"))
}

func TestIsKnownIntegration(t *testing.T) {
	assert.True(t, IsKnownIntegration("hubspot"))
	assert.False(t, IsKnownIntegration("salesforce"))
}
