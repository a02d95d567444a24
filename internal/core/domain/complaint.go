package domain

import (
	"strings"
	"time"
)

type ComplaintStatus string

const (
	StatusSubmitted ComplaintStatus = "submitted"
	StatusInReview  ComplaintStatus = "in_review"
	StatusResolved  ComplaintStatus = "resolved"
	StatusArchived  ComplaintStatus = "archived"
)

// CanTransitionTo reports whether the status state machine allows moving
// to next. Transitions are forward-only:
// submitted -> in_review -> resolved -> archived.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	switch s {
	case StatusSubmitted:
		return next == StatusInReview
	case StatusInReview:
		return next == StatusResolved
	case StatusResolved:
		return next == StatusArchived
	default:
		return false
	}
}

func ParseComplaintStatus(raw string) (ComplaintStatus, bool) {
	switch ComplaintStatus(strings.TrimSpace(strings.ToLower(raw))) {
	case StatusSubmitted:
		return StatusSubmitted, true
	case StatusInReview:
		return StatusInReview, true
	case StatusResolved:
		return StatusResolved, true
	case StatusArchived:
		return StatusArchived, true
	default:
		return "", false
	}
}

type Complaint struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Narrative         string          `json:"narrative"`
	Language          string          `json:"language,omitempty"`
	IncidentDate      string          `json:"incident_date,omitempty"`
	IncidentTime      string          `json:"incident_time,omitempty"`
	Location          string          `json:"location,omitempty"`
	StationID         string          `json:"station_id,omitempty"`
	SuggestedSections []string        `json:"suggested_sections,omitempty"`
	AppliedSections   []string        `json:"applied_sections,omitempty"`
	OfficerNotes      string          `json:"officer_notes,omitempty"`
	Status            ComplaintStatus `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StatusChange is the event published when a complaint moves through the
// state machine; the notification worker turns it into a user-visible
// notification row.
type StatusChange struct {
	ComplaintID string          `json:"complaint_id"`
	UserID      string          `json:"user_id"`
	From        ComplaintStatus `json:"from"`
	To          ComplaintStatus `json:"to"`
	ChangedAt   time.Time       `json:"changed_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
