package models

import "time"

// ScheduleTemplateEntry is a recurring activity on a weekday. It carries no
// date; concrete agenda items are derived from it per calendar day.
type ScheduleTemplateEntry struct {
	ID        string       `db:"id" json:"id"`
	Weekday   time.Weekday `db:"weekday" json:"weekday"`
	StartTime string       `db:"start_time" json:"startTime"`
	EndTime   *string      `db:"end_time" json:"endTime,omitempty"`
	Activity  string       `db:"activity" json:"activity"`
	Location  string       `db:"location" json:"location"`
	GroupID   *string      `db:"group_id" json:"groupId,omitempty"`
}

// AllDay reports whether the entry has no start time.
func (e ScheduleTemplateEntry) AllDay() bool {
	return e.StartTime == ""
}
