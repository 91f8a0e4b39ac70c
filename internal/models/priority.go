package models

import (
	"fmt"
	"time"
)

// RankingWindow selects how far back session history is counted.
type RankingWindow string

const (
	WindowAll   RankingWindow = "ALL"
	WindowWeek  RankingWindow = "WEEK"
	WindowMonth RankingWindow = "MONTH"
	WindowYear  RankingWindow = "YEAR"
)

// ParseRankingWindow accepts exactly one of the four window tokens.
func ParseRankingWindow(raw string) (RankingWindow, error) {
	switch w := RankingWindow(raw); w {
	case WindowAll, WindowWeek, WindowMonth, WindowYear:
		return w, nil
	default:
		return "", fmt.Errorf("invalid window %q: expected ALL, WEEK, MONTH or YEAR", raw)
	}
}

// Since returns the cutoff for the window relative to now, or nil when the
// window is unbounded. MONTH and YEAR step back whole calendar units and clamp
// to the last day of a shorter month, so Mar 31 yields Feb 28 (or 29).
func (w RankingWindow) Since(now time.Time) *time.Time {
	var cutoff time.Time
	switch w {
	case WindowWeek:
		cutoff = now.AddDate(0, 0, -7)
	case WindowMonth:
		cutoff = addMonthsClamped(now, -1)
	case WindowYear:
		cutoff = addMonthsClamped(now, -12)
	default:
		return nil
	}
	return &cutoff
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// GroupPriorityRecord is the derived call-order entry for one group.
type GroupPriorityRecord struct {
	GroupID        string     `json:"groupId"`
	GroupName      string     `json:"groupName"`
	GroupColor     GroupColor `json:"groupColor"`
	GuidanceLabel  string     `json:"guidanceLabel,omitempty"`
	RegularMoments int        `json:"regularMoments"`
	ExtraMoments   int        `json:"extraMoments"`
	MissedMoments  int        `json:"missedMoments"`
	TotalScore     int        `json:"totalScore"`
	Priority       int        `json:"priority"`
	Explanation    string     `json:"explanation"`
}

// RankingWeights are the multipliers a ranking was scored with. Record
// explanations quote them.
type RankingWeights struct {
	Extra  int `json:"extra"`
	Missed int `json:"missed"`
}

// RankingResult is the call order for one window.
type RankingResult struct {
	Window      RankingWindow         `json:"window"`
	Since       *time.Time            `json:"since,omitempty"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Weights     RankingWeights        `json:"weights"`
	Records     []GroupPriorityRecord `json:"records"`
	Diagnostics Diagnostics           `json:"diagnostics"`
}
