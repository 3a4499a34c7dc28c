package models

import "time"

// LeadStatus is the lifecycle state of a Lead.
type LeadStatus string

const (
	LeadStatusActive    LeadStatus = "ACTIVE"
	LeadStatusCompleted LeadStatus = "COMPLETED"
	LeadStatusFailed    LeadStatus = "FAILED"
)

// Lead is a durable record of one captured lead and the drip campaign's
// progress against it. MessageCount is the only mutable counter the worker
// advances; everything else besides LastSentAt/NextScheduledFor/Status is
// immutable after admission.
type Lead struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Name             string     `json:"name"`
	Notes            string     `json:"notes,omitempty"`
	MaxMessages      int        `json:"max_messages"`
	MessageCount     int        `json:"message_count"`
	LastSentAt       *time.Time `json:"last_sent_at,omitempty"`
	NextScheduledFor *CivilDate `json:"next_scheduled_for,omitempty"`
	Status           LeadStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Draft is the validated-but-unpersisted input to lead admission. It carries
// the fields the out-of-scope front-end is assumed to have already validated.
type Draft struct {
	Email       string
	Phone       string
	Name        string
	Notes       string
	MaxMessages int
}

// QueueEntry is the payload of one scheduled drip message, carried in a
// date-partitioned queue from scheduling time until the worker processes it.
type QueueEntry struct {
	LeadID        string    `json:"leadId"`
	Email         string    `json:"email"`
	MessageNumber int       `json:"messageNumber"`
	ScheduledDate CivilDate `json:"scheduledDate"`
}
