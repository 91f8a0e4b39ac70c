package dto

// CreateSessionRequest is the staff payload for scheduling a custom session.
type CreateSessionRequest struct {
	GroupID   string  `json:"groupId" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	Location  string  `json:"location" validate:"max=120"`
	Type      string  `json:"type" validate:"required,oneof=REGULAR EXTRA INDICATION"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	Date    string
	GroupID string
}
