package domain

import "time"

// Lead is the flat payload handed over by the lead-ingestion collaborator.
// Leads are not stored here; they only travel as event fields.
type Lead struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Score     int       `json:"score" validate:"gte=0,lte=100"`
	Qualified bool      `json:"qualified"`
	CreatedAt time.Time `json:"created_at"`
}

// Fields flattens the lead into event fields.
func (l Lead) Fields() map[string]any {
	f := map[string]any{
		"lead_id":   l.ID,
		"name":      l.Name,
		"email":     l.Email,
		"phone":     l.Phone,
		"company":   l.Company,
		"message":   l.Message,
		"source":    l.Source,
		"score":     l.Score,
		"qualified": l.Qualified,
	}
	if !l.CreatedAt.IsZero() {
		f["created_at"] = l.CreatedAt
	}
	return f
}
