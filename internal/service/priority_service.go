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

type sessionTallyStore interface {
	TallyByGroup(ctx context.Context, since *time.Time) ([]models.SessionTally, error)
	Create(ctx context.Context, session *models.SessionEvent) error
}

type groupLookup interface {
	Catalog(ctx context.Context) ([]models.Group, error)
	Get(ctx context.Context, id string) (*models.Group, error)
}

// ScoreWeights multiply extra and missed moments in the call-order score.
type ScoreWeights struct {
	Extra  int
	Missed int
}

// DefaultScoreWeights counts an extra moment double and a missed moment once.
var DefaultScoreWeights = ScoreWeights{Extra: 2, Missed: 1}

func (w ScoreWeights) normalized() ScoreWeights {
	if w.Extra <= 0 {
		w.Extra = DefaultScoreWeights.Extra
	}
	if w.Missed < 0 {
		w.Missed = DefaultScoreWeights.Missed
	}
	return w
}

// Score returns max(0, regular + extra*Extra - missed*Missed) and whether
// the floor was applied.
func (w ScoreWeights) Score(regular, extra, missed int) (int, bool) {
	raw := regular + extra*w.Extra - missed*w.Missed
	if raw < 0 {
		return 0, true
	}
	return raw, false
}

// PriorityService ranks groups for the next extra sport moment.
type PriorityService struct {
	groups   groupLookup
	sessions sessionTallyStore
	weights  ScoreWeights
	metrics  *MetricsService
	logger   *zap.Logger
	loc      *time.Location
}

// NewPriorityService constructs a PriorityService.
func NewPriorityService(groups groupLookup, sessions sessionTallyStore, weights ScoreWeights, metrics *MetricsService, loc *time.Location, logger *zap.Logger) *PriorityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &PriorityService{
		groups:   groups,
		sessions: sessions,
		weights:  weights.normalized(),
		metrics:  metrics,
		logger:   logger,
		loc:      loc,
	}
}

// RankGroups computes the call order over the given window. Results are
// derived on every call so a registration is visible to the next ranking.
func (s *PriorityService) RankGroups(ctx context.Context, window models.RankingWindow, now time.Time) (*models.RankingResult, error) {
	if _, err := models.ParseRankingWindow(string(window)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	groups, err := s.groups.Catalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "group catalog unavailable")
	}

	since := window.Since(now.In(s.loc))
	tallies, err := s.sessions.TallyByGroup(ctx, since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}

	records, diag := ComputeCallOrder(groups, tallies, s.weights)
	if diag.SkippedRecords > 0 {
		s.logger.Warn("session tallies reference unknown groups", zap.Int("skipped", diag.SkippedRecords), zap.String("window", string(window)))
		s.metrics.RecordSkipped("ranking", "inconsistent", diag.SkippedRecords)
	}

	return &models.RankingResult{
		Window:      window,
		Since:       since,
		GeneratedAt: now,
		Weights:     models.RankingWeights{Extra: s.weights.Extra, Missed: s.weights.Missed},
		Records:     records,
		Diagnostics: diag,
	}, nil
}

// RegisterExtraMoment records one EXTRA session for the group, dated date or
// now when date is nil. The returned session is the persisted row.
func (s *PriorityService) RegisterExtraMoment(ctx context.Context, groupID string, date *time.Time, now time.Time, actorID string) (*models.SessionEvent, error) {
	group, err := s.groups.Get(ctx, groupID)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}

	at := now
	if date != nil {
		at = *date
	}
	at = at.In(s.loc)

	start := at.Format(models.TimeOfDayLayout)
	if at.Equal(models.StartOfDay(at)) {
		start = ""
	}
	session := &models.SessionEvent{
		GroupID:   group.ID,
		Date:      calendarDate(at),
		StartTime: start,
		Type:      models.SessionTypeExtra,
		Status:    models.SessionStatusPending,
		CreatedBy: actorID,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register extra moment")
	}
	s.metrics.RecordExtraMoment()
	s.logger.Info("extra moment registered", zap.String("group_id", group.ID), zap.String("session_id", session.ID), zap.String("date", session.Date.Format(models.DateLayout)))
	return session, nil
}

// ComputeCallOrder scores every catalog group and orders them by score
// ascending, missed moments descending, then name and id. Groups without
// tallies score zero. Tallies for groups missing from the catalog are
// skipped and counted. Inputs are not modified.
func ComputeCallOrder(groups []models.Group, tallies []models.SessionTally, weights ScoreWeights) ([]models.GroupPriorityRecord, models.Diagnostics) {
	weights = weights.normalized()
	var diag models.Diagnostics

	known := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		known[g.ID] = struct{}{}
	}
	counts := make(map[string]models.SessionTally, len(tallies))
	for _, t := range tallies {
		if _, ok := known[t.GroupID]; !ok {
			diag.SkippedRecords++
			continue
		}
		acc := counts[t.GroupID]
		acc.GroupID = t.GroupID
		acc.Regular += t.Regular
		acc.Extra += t.Extra
		acc.Missed += t.Missed
		counts[t.GroupID] = acc
	}

	records := make([]models.GroupPriorityRecord, 0, len(groups))
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		c := counts[g.ID]
		score, floored := weights.Score(c.Regular, c.Extra, c.Missed)
		records = append(records, models.GroupPriorityRecord{
			GroupID:        g.ID,
			GroupName:      g.Name,
			GroupColor:     g.Color,
			GuidanceLabel:  g.Color.GuidanceLabel(),
			RegularMoments: c.Regular,
			ExtraMoments:   c.Extra,
			MissedMoments:  c.Missed,
			TotalScore:     score,
			Explanation:    explainScore(c.Regular, c.Extra, c.Missed, score, floored, weights),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore < b.TotalScore
		}
		if a.MissedMoments != b.MissedMoments {
			return a.MissedMoments > b.MissedMoments
		}
		if a.GroupName != b.GroupName {
			return a.GroupName < b.GroupName
		}
		return a.GroupID < b.GroupID
	})
	for i := range records {
		records[i].Priority = i + 1
	}
	return records, diag
}

// explainScore depends on the configured weights as well as the counts; the
// weights travel with the result in RankingResult.Weights.
func explainScore(regular, extra, missed, score int, floored bool, w ScoreWeights) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score %d: %d regular + %d extra x%d - %d missed x%d", score, regular, extra, w.Extra, missed, w.Missed)
	if floored {
		b.WriteString(" (floored at 0)")
	}
	b.WriteString(".")
	if extra == 0 {
		b.WriteString(" No extra moments received yet.")
	} else {
		fmt.Fprintf(&b, " Received %d extra moment(s) already.", extra)
	}
	if missed > 0 {
		fmt.Fprintf(&b, " Missed %d moment(s).", missed)
	}
	return b.String()
}
