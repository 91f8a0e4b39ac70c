package models

import "time"

// SessionType enumerates concrete sport occurrences.
type SessionType string

const (
	SessionTypeRegular    SessionType = "REGULAR"
	SessionTypeExtra      SessionType = "EXTRA"
	SessionTypeIndication SessionType = "INDICATION"
)

// Valid reports whether the type is known.
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeRegular, SessionTypeExtra, SessionTypeIndication:
		return true
	default:
		return false
	}
}

// SessionStatus captures the per-day checklist state of a session.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "PENDING"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusRefused   SessionStatus = "REFUSED"
)

// Valid reports whether the status is known.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusPending, SessionStatusCompleted, SessionStatusRefused:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether staff may move a session from s to next.
// A non-pending status can only be left through PENDING, so at most one
// non-pending status is ever set. Re-applying the current status is allowed
// and has no effect.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s == SessionStatusPending {
		return true
	}
	return next == SessionStatusPending
}

// SessionEvent is a persisted sport occurrence for a group on a date.
type SessionEvent struct {
	ID              string        `db:"id" json:"id"`
	GroupID         string        `db:"group_id" json:"groupId"`
	Date            time.Time     `db:"session_date" json:"date"`
	StartTime       string        `db:"start_time" json:"startTime"`
	EndTime         *string       `db:"end_time" json:"endTime,omitempty"`
	Location        string        `db:"location" json:"location"`
	Type            SessionType   `db:"type" json:"type"`
	Status          SessionStatus `db:"status" json:"status"`
	TemplateEntryID *string       `db:"template_entry_id" json:"templateEntryId,omitempty"`
	Notes           *string       `db:"notes" json:"notes,omitempty"`
	CreatedBy       string        `db:"created_by" json:"createdBy"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updatedAt"`
}

// FromTemplate reports whether the session materialises a template entry.
func (s SessionEvent) FromTemplate() bool {
	return s.TemplateEntryID != nil && *s.TemplateEntryID != ""
}

// SessionTally holds per-group session counts within a ranking window.
type SessionTally struct {
	GroupID string `db:"group_id" json:"groupId"`
	Regular int    `db:"regular_count" json:"regular"`
	Extra   int    `db:"extra_count" json:"extra"`
	Missed  int    `db:"missed_count" json:"missed"`
}
