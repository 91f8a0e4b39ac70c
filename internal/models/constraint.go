package models

import (
	"fmt"
	"strings"
	"time"
)

// ConstraintKind tags the three constraint sources that share interval semantics.
type ConstraintKind string

const (
	ConstraintRestriction ConstraintKind = "RESTRICTION"
	ConstraintMutation    ConstraintKind = "MUTATION"
	ConstraintIndication  ConstraintKind = "INDICATION"
)

// ConstraintKinds lists the kinds in the order they are shown on the agenda.
var ConstraintKinds = []ConstraintKind{ConstraintRestriction, ConstraintMutation, ConstraintIndication}

// Rank returns the display position of the kind; unknown kinds sort last.
func (k ConstraintKind) Rank() int {
	for i, kind := range ConstraintKinds {
		if kind == k {
			return i
		}
	}
	return len(ConstraintKinds)
}

// Label is the human readable name used in agenda titles.
func (k ConstraintKind) Label() string {
	switch k {
	case ConstraintRestriction:
		return "Restriction"
	case ConstraintMutation:
		return "Mutation"
	case ConstraintIndication:
		return "Indication"
	default:
		return string(k)
	}
}

// ConstraintRecord is a raw row from one of the constraint stores. Dates are
// kept as text because legacy rows may hold values that do not parse.
type ConstraintRecord struct {
	ID         string         `db:"id" json:"id"`
	Kind       ConstraintKind `db:"kind" json:"kind"`
	GroupID    *string        `db:"group_id" json:"groupId,omitempty"`
	YouthName  *string        `db:"youth_name" json:"youthName,omitempty"`
	Text       string         `db:"text" json:"text"`
	ValidFrom  string         `db:"valid_from" json:"validFrom"`
	ValidUntil *string        `db:"valid_until" json:"validUntil,omitempty"`
}

// ActivityConstraint is the parsed, tagged form of a constraint record.
type ActivityConstraint struct {
	ID        string
	Kind      ConstraintKind
	GroupID   *string
	YouthName *string
	Text      string
	Interval  ValidityInterval
}

// ParseConstraint converts a raw record, failing when a date cannot be parsed
// or the interval is inverted.
func ParseConstraint(rec ConstraintRecord, loc *time.Location) (ActivityConstraint, error) {
	from, err := ParseRecordDate(rec.ValidFrom, loc)
	if err != nil {
		return ActivityConstraint{}, fmt.Errorf("%s %s valid_from: %w", strings.ToLower(string(rec.Kind)), rec.ID, err)
	}
	interval := ValidityInterval{From: from}
	if rec.ValidUntil != nil && strings.TrimSpace(*rec.ValidUntil) != "" {
		until, err := ParseRecordDate(*rec.ValidUntil, loc)
		if err != nil {
			return ActivityConstraint{}, fmt.Errorf("%s %s valid_until: %w", strings.ToLower(string(rec.Kind)), rec.ID, err)
		}
		if until.Before(from) {
			return ActivityConstraint{}, fmt.Errorf("%s %s: valid_until before valid_from", strings.ToLower(string(rec.Kind)), rec.ID)
		}
		interval.Until = &until
	}
	return ActivityConstraint{
		ID:        rec.ID,
		Kind:      rec.Kind,
		GroupID:   rec.GroupID,
		YouthName: rec.YouthName,
		Text:      rec.Text,
		Interval:  interval,
	}, nil
}
