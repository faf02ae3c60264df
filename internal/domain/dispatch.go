package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Event names emitted by the service.
const (
	EventNewLead = "newLead"
	EventTest    = "test"
)

// DispatchEvent is one outbound notification. It is built once per trigger
// and handed unchanged to every destination.
type DispatchEvent struct {
	ID        string
	Name      string
	Timestamp time.Time
	Fields    map[string]string
}

// NewDispatchEvent coerces every field value to its string form.
func NewDispatchEvent(id, name string, ts time.Time, fields map[string]any) DispatchEvent {
	flat := make(map[string]string, len(fields))
	for k, v := range fields {
		flat[k] = Stringify(v)
	}
	return DispatchEvent{ID: id, Name: name, Timestamp: ts.UTC(), Fields: flat}
}

// Stringify renders a field value for the wire. Booleans become "true"/"false",
// times RFC 3339, nil the empty string.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// DispatchResult is the outcome of delivering an event to one destination.
type DispatchResult struct {
	Destination string `json:"destination"`
	Success     bool   `json:"success"`
	Status      int    `json:"status,omitempty"`
	StatusText  string `json:"statusText,omitempty"`
	Error       string `json:"error,omitempty"`
}
