package dispatch

import (
	"time"

	"github.com/lead-relay/internal/domain"
)

// SampleLead is the synthetic lead sent by operator connectivity checks.
// Every value is marked so receivers can tell it from real traffic.
func SampleLead(now time.Time) domain.Lead {
	return domain.Lead{
		ID:        "test-lead-0001",
		Name:      "Test Lead (sample)",
		Email:     "test.lead@example.com",
		Phone:     "+1 555 0100",
		Company:   "Example Co (test)",
		Message:   "This is a test lead sent to verify your webhook connection.",
		Source:    "webhook-test",
		Score:     80,
		Qualified: true,
		CreatedAt: now,
	}
}
