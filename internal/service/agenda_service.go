package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
)

type groupCatalogProvider interface {
	Catalog(ctx context.Context) ([]models.Group, error)
}

type scheduleTemplateProvider interface {
	ListByWeekday(ctx context.Context, weekday time.Weekday) ([]models.ScheduleTemplateEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleTemplateEntry, error)
}

type agendaSessionStore interface {
	ListByDate(ctx context.Context, date string) ([]models.SessionEvent, error)
	GetByID(ctx context.Context, id string) (*models.SessionEvent, error)
	FindByTemplate(ctx context.Context, entryID, date string) (*models.SessionEvent, error)
	Create(ctx context.Context, session *models.SessionEvent) error
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
}

// ConstraintSource lists the constraint records of one kind that may be
// active on a day. Rows whose dates do not parse must still be returned.
type ConstraintSource interface {
	Kind() models.ConstraintKind
	ListCandidates(ctx context.Context, day time.Time) ([]models.ConstraintRecord, error)
}

type textSanitizer interface {
	Text(raw string) string
}

// AgendaServiceParams groups constructor dependencies.
type AgendaServiceParams struct {
	Groups      groupCatalogProvider
	Templates   scheduleTemplateProvider
	Sessions    agendaSessionStore
	Constraints []ConstraintSource
	Sanitizer   textSanitizer
	// Anonymize masks personal names before they reach an agenda title.
	Anonymize func(string) string
	Metrics   *MetricsService
	Logger    *zap.Logger
	Location  *time.Location
}

// AgendaService merges the schedule template, sport sessions and active
// constraints into one day agenda per calendar date.
type AgendaService struct {
	groups      groupCatalogProvider
	templates   scheduleTemplateProvider
	sessions    agendaSessionStore
	constraints []ConstraintSource
	sanitizer   textSanitizer
	anonymize   func(string) string
	metrics     *MetricsService
	logger      *zap.Logger
	loc         *time.Location
}

// NewAgendaService constructs an AgendaService with sane defaults.
func NewAgendaService(params AgendaServiceParams) *AgendaService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	anonymize := params.Anonymize
	if anonymize == nil {
		anonymize = func(s string) string { return s }
	}
	return &AgendaService{
		groups:      params.Groups,
		templates:   params.Templates,
		sessions:    params.Sessions,
		constraints: params.Constraints,
		sanitizer:   params.Sanitizer,
		anonymize:   anonymize,
		metrics:     params.Metrics,
		logger:      logger,
		loc:         loc,
	}
}

// Location returns the facility time zone agenda dates are interpreted in.
func (s *AgendaService) Location() *time.Location {
	return s.loc
}

// BuildDayAgenda aggregates the agenda for the calendar day of date. Only the
// group catalog is required; any other failing source is reported as UNKNOWN
// and the remaining sources still render.
func (s *AgendaService) BuildDayAgenda(ctx context.Context, date time.Time, now time.Time) (*models.DayAgenda, error) {
	day := s.localDay(date)
	dateKey := day.Format(models.DateLayout)

	groups, err := s.groups.Catalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "group catalog unavailable")
	}
	catalog := models.NewGroupCatalog(groups)

	agenda := &models.DayAgenda{
		Date:         dateKey,
		PrimaryItems: []models.DayAgendaItem{},
		ContextItems: []models.DayAgendaItem{},
		Sources:      make([]models.SourceState, 0, 2+len(s.constraints)),
		GeneratedAt:  now,
	}

	entries, err := s.templates.ListByWeekday(ctx, day.Weekday())
	s.trackSource(agenda, models.SourceTemplate, dateKey, err)
	if err != nil {
		entries = nil
	}

	sessions, err := s.sessions.ListByDate(ctx, dateKey)
	s.trackSource(agenda, models.SourceSessions, dateKey, err)
	if err != nil {
		sessions = nil
	}

	agenda.PrimaryItems = s.mergePrimary(catalog, entries, sessions, &agenda.Diagnostics)

	var active []activeConstraint
	for _, src := range s.constraints {
		records, err := src.ListCandidates(ctx, day)
		s.trackSource(agenda, sourceForKind(src.Kind()), dateKey, err)
		if err != nil {
			continue
		}
		active = append(active, s.activeConstraints(src.Kind(), day, catalog, records, &agenda.Diagnostics)...)
	}
	sortActiveConstraints(active)
	for _, ac := range active {
		agenda.ContextItems = append(agenda.ContextItems, s.constraintItem(ac))
	}

	s.metrics.RecordSkipped("agenda", "inconsistent", agenda.Diagnostics.SkippedRecords)
	s.metrics.RecordSkipped("agenda", "malformed", agenda.Diagnostics.MalformedRecords)
	return agenda, nil
}

// SetItemStatus applies a checklist status to a primary agenda item. Template
// items are materialised into a REGULAR session on their first non-pending
// status so the change survives the next agenda build.
func (s *AgendaService) SetItemStatus(ctx context.Context, date time.Time, itemID string, status models.SessionStatus, actorID string) (*models.DayAgendaItem, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be PENDING, COMPLETED or REFUSED")
	}
	day := s.localDay(date)

	groups, err := s.groups.Catalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "group catalog unavailable")
	}
	catalog := models.NewGroupCatalog(groups)

	var item *models.DayAgendaItem
	switch {
	case strings.HasPrefix(itemID, models.TemplateItemPrefix):
		item, err = s.setTemplateItemStatus(ctx, day, strings.TrimPrefix(itemID, models.TemplateItemPrefix), status, actorID, catalog)
	case strings.HasPrefix(itemID, models.SessionItemPrefix):
		item, err = s.setSessionItemStatus(ctx, day, strings.TrimPrefix(itemID, models.SessionItemPrefix), status, catalog)
	default:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "agenda item not found")
	}
	if err != nil {
		return nil, err
	}
	s.metrics.RecordStatusChange(string(status))
	return item, nil
}

func (s *AgendaService) setTemplateItemStatus(ctx context.Context, day time.Time, entryID string, status models.SessionStatus, actorID string, catalog models.GroupCatalog) (*models.DayAgendaItem, error) {
	entry, err := s.templates.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "agenda item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule template")
	}
	if entry.Weekday != day.Weekday() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "agenda item does not occur on this date")
	}
	group, hasGroup, err := resolveOptionalGroup(entry.GroupID, catalog)
	if err != nil {
		return nil, err
	}

	dateKey := day.Format(models.DateLayout)
	if hasGroup {
		replaced, err := s.slotReplaced(ctx, dateKey, group.ID, entry.StartTime)
		if err != nil {
			return nil, err
		}
		if replaced {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "agenda item is replaced by a custom session on this date")
		}
	}
	current, err := s.sessions.FindByTemplate(ctx, entry.ID, dateKey)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	switch {
	case current == nil && status == models.SessionStatusPending:
	case current == nil:
		if !hasGroup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "schedule entry without a group has no checklist status")
		}
		session := &models.SessionEvent{
			GroupID:         group.ID,
			Date:            calendarDate(day),
			StartTime:       entry.StartTime,
			EndTime:         entry.EndTime,
			Location:        entry.Location,
			Type:            models.SessionTypeRegular,
			Status:          status,
			TemplateEntryID: &entry.ID,
			CreatedBy:       actorID,
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record status")
		}
	default:
		if err := s.transition(ctx, current, status); err != nil {
			return nil, err
		}
	}

	item := templateItem(*entry, group, hasGroup)
	item.Status = string(status)
	return &item, nil
}

// slotReplaced reports whether a custom session takes over the group's slot
// at start on the date, which hides the template item from the agenda.
func (s *AgendaService) slotReplaced(ctx context.Context, dateKey, groupID, start string) (bool, error) {
	sessions, err := s.sessions.ListByDate(ctx, dateKey)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	key := slotKey(groupID, start)
	for _, session := range sessions {
		if !session.FromTemplate() && slotKey(session.GroupID, session.StartTime) == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *AgendaService) setSessionItemStatus(ctx context.Context, day time.Time, sessionID string, status models.SessionStatus, catalog models.GroupCatalog) (*models.DayAgendaItem, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "agenda item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.Date.Format(models.DateLayout) != day.Format(models.DateLayout) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "agenda item does not occur on this date")
	}
	group, ok := catalog.Lookup(session.GroupID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInconsistentData, "session references an unknown group")
	}
	if err := s.transition(ctx, session, status); err != nil {
		return nil, err
	}
	session.Status = status
	item := s.sessionItem(*session, group)
	return &item, nil
}

func (s *AgendaService) transition(ctx context.Context, session *models.SessionEvent, status models.SessionStatus) error {
	if !session.Status.CanTransitionTo(status) {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot change status from %s to %s; reset to PENDING first", session.Status, status))
	}
	if session.Status == status {
		return nil
	}
	if err := s.sessions.UpdateStatus(ctx, session.ID, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}
	return nil
}

func (s *AgendaService) mergePrimary(catalog models.GroupCatalog, entries []models.ScheduleTemplateEntry, sessions []models.SessionEvent, diag *models.Diagnostics) []models.DayAgendaItem {
	items := make([]models.DayAgendaItem, 0, len(entries)+len(sessions))

	overlays := make(map[string]models.SessionEvent)
	overridden := make(map[string]struct{})
	custom := make([]models.SessionEvent, 0, len(sessions))
	for _, session := range sessions {
		if _, ok := catalog.Lookup(session.GroupID); !ok {
			diag.SkippedRecords++
			s.logger.Warn("skipping session for unknown group", zap.String("session_id", session.ID), zap.String("group_id", session.GroupID))
			continue
		}
		if session.FromTemplate() {
			if _, seen := overlays[*session.TemplateEntryID]; !seen {
				overlays[*session.TemplateEntryID] = session
			}
			continue
		}
		custom = append(custom, session)
		overridden[slotKey(session.GroupID, session.StartTime)] = struct{}{}
	}

	rendered := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		group, hasGroup, err := resolveOptionalGroup(entry.GroupID, catalog)
		if err != nil {
			diag.SkippedRecords++
			s.logger.Warn("skipping schedule entry for unknown group", zap.String("entry_id", entry.ID))
			continue
		}
		if hasGroup {
			if _, clash := overridden[slotKey(group.ID, entry.StartTime)]; clash {
				continue
			}
		}
		item := templateItem(entry, group, hasGroup)
		if overlay, ok := overlays[entry.ID]; ok {
			item.Status = string(overlay.Status)
		}
		rendered[entry.ID] = struct{}{}
		items = append(items, item)
	}

	// Materialised sessions whose template entry is gone (or whose template
	// source failed) are still shown so recorded statuses never disappear.
	for entryID, overlay := range overlays {
		if _, ok := rendered[entryID]; ok {
			continue
		}
		if _, clash := overridden[slotKey(overlay.GroupID, overlay.StartTime)]; clash {
			continue
		}
		group, _ := catalog.Lookup(overlay.GroupID)
		items = append(items, s.sessionItem(overlay, group))
	}

	for _, session := range custom {
		group, _ := catalog.Lookup(session.GroupID)
		items = append(items, s.sessionItem(session, group))
	}

	sortPrimaryItems(items)
	return items
}

type activeConstraint struct {
	constraint models.ActivityConstraint
	group      models.Group
	hasGroup   bool
}

func (s *AgendaService) activeConstraints(kind models.ConstraintKind, day time.Time, catalog models.GroupCatalog, records []models.ConstraintRecord, diag *models.Diagnostics) []activeConstraint {
	active := make([]activeConstraint, 0, len(records))
	for _, rec := range records {
		if rec.Kind == "" {
			rec.Kind = kind
		}
		constraint, err := models.ParseConstraint(rec, s.loc)
		if err != nil {
			diag.MalformedRecords++
			s.logger.Warn("excluding malformed constraint from agenda", zap.String("kind", string(kind)), zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		if !constraint.Interval.ActiveOn(day) {
			continue
		}
		group, hasGroup, err := resolveOptionalGroup(constraint.GroupID, catalog)
		if err != nil {
			diag.SkippedRecords++
			s.logger.Warn("skipping constraint for unknown group", zap.String("kind", string(kind)), zap.String("id", rec.ID))
			continue
		}
		active = append(active, activeConstraint{constraint: constraint, group: group, hasGroup: hasGroup})
	}
	return active
}

// freeText strips markup and applies the anonymize hook to text typed by
// staff in other modules.
func (s *AgendaService) freeText(raw string) string {
	var text string
	if s.sanitizer != nil {
		text = s.sanitizer.Text(raw)
	} else {
		text = strings.TrimSpace(raw)
	}
	if text == "" {
		return ""
	}
	return s.anonymize(text)
}

func (s *AgendaService) constraintItem(ac activeConstraint) models.DayAgendaItem {
	c, group, hasGroup := ac.constraint, ac.group, ac.hasGroup
	subject := "all groups"
	if c.YouthName != nil && strings.TrimSpace(*c.YouthName) != "" {
		subject = s.anonymize(strings.TrimSpace(*c.YouthName))
	} else if hasGroup {
		subject = group.Name
	}

	parts := make([]string, 0, 2)
	if text := s.freeText(c.Text); text != "" {
		parts = append(parts, text)
	}
	parts = append(parts, describeInterval(c.Interval))
	details := strings.Join(parts, " | ")

	item := models.DayAgendaItem{
		ID:      models.ConstraintItemPrefix + strings.ToLower(string(c.Kind)) + ":" + c.ID,
		Title:   c.Kind.Label() + ": " + subject,
		Time:    models.AllDayLabel,
		AllDay:  true,
		Status:  models.ContextItemStatus,
		Type:    contextItemType(c.Kind),
		Details: &details,
	}
	if hasGroup {
		item.GroupID = &group.ID
		item.GroupName = group.Name
		item.GroupColor = group.Color
	}
	return item
}

func (s *AgendaService) trackSource(agenda *models.DayAgenda, source models.AgendaSource, dateKey string, err error) {
	if err == nil {
		agenda.Sources = append(agenda.Sources, models.SourceState{Source: source, Status: models.SourceAvailable})
		return
	}
	agenda.Sources = append(agenda.Sources, models.SourceState{Source: source, Status: models.SourceUnknown})
	agenda.Incomplete = true
	s.metrics.RecordSourceUnavailable(string(source))
	s.logger.Warn("agenda source unavailable", zap.String("source", string(source)), zap.String("date", dateKey), zap.Error(err))
}

func (s *AgendaService) localDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// calendarDate encodes a local day as midnight UTC for DATE columns.
func calendarDate(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func resolveOptionalGroup(groupID *string, catalog models.GroupCatalog) (models.Group, bool, error) {
	if groupID == nil || *groupID == "" {
		return models.Group{}, false, nil
	}
	group, ok := catalog.Lookup(*groupID)
	if !ok {
		return models.Group{}, false, appErrors.Clone(appErrors.ErrInconsistentData, "record references an unknown group")
	}
	return group, true, nil
}

func templateItem(entry models.ScheduleTemplateEntry, group models.Group, hasGroup bool) models.DayAgendaItem {
	item := models.DayAgendaItem{
		ID:       models.TemplateItemPrefix + entry.ID,
		Title:    entry.Activity,
		Time:     displayTime(entry.StartTime),
		AllDay:   entry.AllDay(),
		Status:   string(models.SessionStatusPending),
		Type:     models.AgendaItemSchedule,
		Location: entry.Location,
	}
	if entry.EndTime != nil && *entry.EndTime != "" && !entry.AllDay() {
		details := fmt.Sprintf("until %s", *entry.EndTime)
		item.Details = &details
	}
	if hasGroup {
		item.GroupID = &group.ID
		item.GroupName = group.Name
		item.GroupColor = group.Color
	}
	return item
}

func (s *AgendaService) sessionItem(session models.SessionEvent, group models.Group) models.DayAgendaItem {
	groupID := session.GroupID
	item := models.DayAgendaItem{
		ID:         models.SessionItemPrefix + session.ID,
		Title:      sessionTitle(session.Type),
		Time:       displayTime(session.StartTime),
		AllDay:     session.StartTime == "",
		Status:     string(session.Status),
		Type:       primaryItemType(session.Type),
		GroupID:    &groupID,
		GroupName:  group.Name,
		GroupColor: group.Color,
		Location:   session.Location,
	}
	if item.Status == "" {
		item.Status = string(models.SessionStatusPending)
	}
	var notes []string
	if session.EndTime != nil && *session.EndTime != "" && session.StartTime != "" {
		notes = append(notes, fmt.Sprintf("until %s", *session.EndTime))
	}
	if session.Notes != nil {
		if text := s.freeText(*session.Notes); text != "" {
			notes = append(notes, text)
		}
	}
	if len(notes) > 0 {
		details := strings.Join(notes, " | ")
		item.Details = &details
	}
	return item
}

func sessionTitle(t models.SessionType) string {
	switch t {
	case models.SessionTypeExtra:
		return "Extra sport moment"
	case models.SessionTypeIndication:
		return "Indication sport moment"
	default:
		return "Sport"
	}
}

func primaryItemType(t models.SessionType) models.AgendaItemType {
	switch t {
	case models.SessionTypeExtra:
		return models.AgendaItemExtra
	case models.SessionTypeIndication:
		return models.AgendaItemIndication
	default:
		return models.AgendaItemRegular
	}
}

func contextItemType(k models.ConstraintKind) models.AgendaItemType {
	switch k {
	case models.ConstraintRestriction:
		return models.AgendaItemRestriction
	case models.ConstraintMutation:
		return models.AgendaItemMutation
	default:
		return models.AgendaItemEntitlement
	}
}

func sourceForKind(k models.ConstraintKind) models.AgendaSource {
	switch k {
	case models.ConstraintRestriction:
		return models.SourceRestrictions
	case models.ConstraintMutation:
		return models.SourceMutations
	default:
		return models.SourceIndications
	}
}

func describeInterval(v models.ValidityInterval) string {
	from := v.From.Format(models.DateLayout)
	if v.Until == nil {
		return fmt.Sprintf("valid from %s, open-ended", from)
	}
	return fmt.Sprintf("valid %s to %s", from, v.Until.Format(models.DateLayout))
}

func displayTime(start string) string {
	if start == "" {
		return models.AllDayLabel
	}
	return normalizeClock(start)
}

// normalizeClock pads "9:05" to "09:05" so clock strings sort lexically.
func normalizeClock(raw string) string {
	if t, err := time.Parse(models.TimeOfDayLayout, raw); err == nil {
		return t.Format(models.TimeOfDayLayout)
	}
	if t, err := time.Parse("15:04:05", raw); err == nil {
		return t.Format(models.TimeOfDayLayout)
	}
	return raw
}

func slotKey(groupID, start string) string {
	return groupID + "|" + normalizeClock(start)
}

func sortPrimaryItems(items []models.DayAgendaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		if a.GroupName != b.GroupName {
			return a.GroupName < b.GroupName
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

// sortActiveConstraints orders by kind, group name, start of validity and id.
// Constraints without a group sort before named groups.
func sortActiveConstraints(items []activeConstraint) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ra, rb := a.constraint.Kind.Rank(), b.constraint.Kind.Rank(); ra != rb {
			return ra < rb
		}
		if a.group.Name != b.group.Name {
			return a.group.Name < b.group.Name
		}
		if !a.constraint.Interval.From.Equal(b.constraint.Interval.From) {
			return a.constraint.Interval.From.Before(b.constraint.Interval.From)
		}
		return a.constraint.ID < b.constraint.ID
	})
}
