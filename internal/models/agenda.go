package models

import "time"

// AgendaItemType identifies what an agenda item was derived from.
type AgendaItemType string

const (
	AgendaItemSchedule    AgendaItemType = "SCHEDULE"
	AgendaItemRegular     AgendaItemType = "REGULAR"
	AgendaItemExtra       AgendaItemType = "EXTRA"
	AgendaItemIndication  AgendaItemType = "INDICATION"
	AgendaItemRestriction AgendaItemType = "RESTRICTION_NOTICE"
	AgendaItemMutation    AgendaItemType = "MUTATION_NOTICE"
	AgendaItemEntitlement AgendaItemType = "INDICATION_NOTICE"
)

// AllDayLabel is shown instead of a clock time for items without one.
const AllDayLabel = "all day"

// ContextItemStatus is the status of non-actionable context items.
const ContextItemStatus = "ACTIVE"

// Agenda item id prefixes.
const (
	TemplateItemPrefix   = "template:"
	SessionItemPrefix    = "session:"
	ConstraintItemPrefix = "constraint:"
)

// DayAgendaItem is the date-scoped projection shown on the day checklist.
type DayAgendaItem struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Time       string         `json:"time"`
	AllDay     bool           `json:"allDay"`
	Status     string         `json:"status"`
	Type       AgendaItemType `json:"type"`
	GroupID    *string        `json:"groupId,omitempty"`
	GroupName  string         `json:"groupName,omitempty"`
	GroupColor GroupColor     `json:"groupColor,omitempty"`
	Location   string         `json:"location,omitempty"`
	Details    *string        `json:"details,omitempty"`
}

// AgendaSource names an input feeding the aggregator.
type AgendaSource string

const (
	SourceTemplate     AgendaSource = "TEMPLATE"
	SourceSessions     AgendaSource = "SESSIONS"
	SourceRestrictions AgendaSource = "RESTRICTIONS"
	SourceMutations    AgendaSource = "MUTATIONS"
	SourceIndications  AgendaSource = "INDICATIONS"
)

// SourceStatus is AVAILABLE when a source answered, UNKNOWN when it failed.
type SourceStatus string

const (
	SourceAvailable SourceStatus = "AVAILABLE"
	SourceUnknown   SourceStatus = "UNKNOWN"
)

// SourceState reports per-source availability for one agenda build.
type SourceState struct {
	Source AgendaSource `json:"source"`
	Status SourceStatus `json:"status"`
}

// Diagnostics tallies records left out of a computation.
type Diagnostics struct {
	SkippedRecords   int `json:"skippedRecords"`
	MalformedRecords int `json:"malformedRecords"`
}

// DayAgenda is the aggregated result for one calendar day.
type DayAgenda struct {
	Date         string          `json:"date"`
	PrimaryItems []DayAgendaItem `json:"primaryItems"`
	ContextItems []DayAgendaItem `json:"contextItems"`
	Sources      []SourceState   `json:"sources"`
	Incomplete   bool            `json:"incomplete"`
	Diagnostics  Diagnostics     `json:"diagnostics"`
	GeneratedAt  time.Time       `json:"generatedAt"`
}
