package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sport-planner-api/internal/dto"
	"github.com/noah-isme/sport-planner-api/internal/models"
)

const sessionColumns = `id, group_id, session_date, COALESCE(start_time, '') AS start_time, end_time, location, type, status, template_entry_id, notes, created_by, created_at, updated_at`

// SessionRepository persists sport session events.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ListByDate returns every session scheduled on the calendar date (YYYY-MM-DD).
func (r *SessionRepository) ListByDate(ctx context.Context, date string) ([]models.SessionEvent, error) {
	return r.List(ctx, dto.SessionFilter{Date: date})
}

// List returns sessions matching the filter ordered by date and start time.
func (r *SessionRepository) List(ctx context.Context, filter dto.SessionFilter) ([]models.SessionEvent, error) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	if filter.Date != "" {
		args = append(args, filter.Date)
		where = append(where, fmt.Sprintf("session_date = $%d::date", len(args)))
	}
	if filter.GroupID != "" {
		args = append(args, filter.GroupID)
		where = append(where, fmt.Sprintf("group_id = $%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM sport_sessions WHERE %s ORDER BY session_date ASC, start_time ASC NULLS FIRST, id ASC`,
		sessionColumns, strings.Join(where, " AND "))

	var sessions []models.SessionEvent
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// GetByID fetches a session. sql.ErrNoRows is returned unwrapped.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.SessionEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM sport_sessions WHERE id = $1 AND deleted_at IS NULL`, sessionColumns)
	var session models.SessionEvent
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByTemplate returns the session materialising a template entry on a date.
// sql.ErrNoRows is returned unwrapped when none exists yet.
func (r *SessionRepository) FindByTemplate(ctx context.Context, entryID, date string) (*models.SessionEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM sport_sessions
WHERE template_entry_id = $1 AND session_date = $2::date AND deleted_at IS NULL
ORDER BY created_at ASC LIMIT 1`, sessionColumns)
	var session models.SessionEvent
	if err := r.db.GetContext(ctx, &session, query, entryID, date); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a session, assigning id and timestamps when missing.
func (r *SessionRepository) Create(ctx context.Context, session *models.SessionEvent) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	if session.Status == "" {
		session.Status = models.SessionStatusPending
	}
	const query = `INSERT INTO sport_sessions (id, group_id, session_date, start_time, end_time, location, type, status, template_entry_id, notes, created_by, created_at, updated_at)
VALUES (:id, :group_id, :session_date, NULLIF(:start_time, ''), :end_time, :location, :type, :status, :template_entry_id, :notes, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UpdateStatus sets the checklist status of a session.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	const query = `UPDATE sport_sessions SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update session status: session %s not found", id)
	}
	return nil
}

// TallyByGroup counts regular, extra and missed sessions per group since the
// cutoff (all history when since is nil). Refused sessions count as missed
// whatever their type; indication sessions are not counted otherwise.
// A session backing a template checklist item only counts once it holds a
// final status, so resetting the item to PENDING undoes its effect. Template
// rows whose slot is taken over by a custom session are not counted at all,
// matching what the agenda shows.
func (r *SessionRepository) TallyByGroup(ctx context.Context, since *time.Time) ([]models.SessionTally, error) {
	query := strings.Builder{}
	query.WriteString(`
SELECT
	s.group_id,
	COUNT(*) FILTER (WHERE s.type = 'REGULAR' AND s.status <> 'REFUSED' AND (s.template_entry_id IS NULL OR s.status = 'COMPLETED')) AS regular_count,
	COUNT(*) FILTER (WHERE s.type = 'EXTRA' AND s.status <> 'REFUSED') AS extra_count,
	COUNT(*) FILTER (WHERE s.status = 'REFUSED') AS missed_count
FROM sport_sessions s
WHERE s.deleted_at IS NULL
	AND NOT (s.template_entry_id IS NOT NULL AND EXISTS (
		SELECT 1 FROM sport_sessions o
		WHERE o.template_entry_id IS NULL AND o.deleted_at IS NULL
			AND o.group_id = s.group_id AND o.session_date = s.session_date
			AND o.start_time IS NOT DISTINCT FROM s.start_time))`)
	args := []interface{}{}
	if since != nil {
		args = append(args, since.Format(models.DateLayout))
		fmt.Fprintf(&query, "\n\tAND s.session_date >= $%d::date", len(args))
	}
	query.WriteString("\nGROUP BY s.group_id\nORDER BY s.group_id ASC")

	var tallies []models.SessionTally
	if err := r.db.SelectContext(ctx, &tallies, query.String(), args...); err != nil {
		return nil, fmt.Errorf("tally sessions: %w", err)
	}
	return tallies, nil
}
