package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lead-relay/internal/domain"
	"golang.org/x/net/http/httpguts"
)

const userAgent = "lead-relay-dispatch/1.0"

// Query keys set by the dispatcher; lead fields with the same name are overwritten.
const (
	paramEvent     = "event"
	paramTimestamp = "timestamp"
	paramEventID   = "event_id"
)

// Target is one resolved destination.
type Target struct {
	Name    string
	URL     string
	Headers string // serialized JSON object, may be empty or malformed
}

// Sender issues a single GET per destination carrying the event as query parameters.
type Sender struct {
	client  *http.Client
	timeout time.Duration
}

// NewSender returns a Sender that bounds every call by timeout.
// A nil client uses a fresh http.Client.
func NewSender(client *http.Client, timeout time.Duration) *Sender {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sender{client: client, timeout: timeout}
}

// Send delivers ev to t and always returns a result; it never fails past this boundary.
func (s *Sender) Send(ctx context.Context, t Target, ev domain.DispatchEvent) domain.DispatchResult {
	res := domain.DispatchResult{Destination: t.Name}
	if strings.TrimSpace(t.URL) == "" {
		res.Error = fmt.Sprintf("%s: no url configured", domain.ErrConfigurationMissing)
		return res
	}

	target, err := buildURL(t.URL, ev)
	if err != nil {
		res.Error = fmt.Sprintf("invalid url: %v", err)
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range ParseHeaders(t.Headers) {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		res.Error = transportError(err)
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	res.Status = resp.StatusCode
	res.StatusText = http.StatusText(resp.StatusCode)
	res.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !res.Success {
		res.Error = fmt.Sprintf("remote responded %d %s", res.Status, res.StatusText)
	}
	return res
}

// transportError describes a failed round trip without the request URL,
// whose query carries the lead fields.
func transportError(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Sprintf("%s request failed: %v", ue.Op, ue.Err)
	}
	return err.Error()
}

// ParseHeaders decodes a JSON object of string headers. Anything that is not
// such an object yields no headers rather than an error, and entries that are
// not legal HTTP header names or values are dropped one by one.
func ParseHeaders(spec string) map[string]string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	var headers map[string]string
	if err := json.Unmarshal([]byte(spec), &headers); err != nil {
		slog.Debug("ignoring malformed header config", "err", err)
		return nil
	}
	for k, v := range headers {
		if !httpguts.ValidHeaderFieldName(k) || !httpguts.ValidHeaderFieldValue(v) {
			slog.Debug("ignoring invalid header", "name", k)
			delete(headers, k)
		}
	}
	return headers
}

func buildURL(raw string, ev domain.DispatchEvent) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range ev.Fields {
		q.Set(k, v)
	}
	q.Set(paramEvent, ev.Name)
	q.Set(paramTimestamp, ev.Timestamp.UTC().Format(time.RFC3339))
	if ev.ID != "" {
		q.Set(paramEventID, ev.ID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
