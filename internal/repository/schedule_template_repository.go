package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sport-planner-api/internal/models"
)

// ScheduleTemplateRepository reads the recurring daily schedule.
type ScheduleTemplateRepository struct {
	db *sqlx.DB
}

// NewScheduleTemplateRepository constructs the repository.
func NewScheduleTemplateRepository(db *sqlx.DB) *ScheduleTemplateRepository {
	return &ScheduleTemplateRepository{db: db}
}

// ListByWeekday returns the entries that recur on the given weekday.
func (r *ScheduleTemplateRepository) ListByWeekday(ctx context.Context, weekday time.Weekday) ([]models.ScheduleTemplateEntry, error) {
	const query = `SELECT id, weekday, COALESCE(start_time, '') AS start_time, end_time, activity, location, group_id
FROM schedule_template_entries
WHERE weekday = $1 AND active = TRUE
ORDER BY start_time ASC, id ASC`
	var entries []models.ScheduleTemplateEntry
	if err := r.db.SelectContext(ctx, &entries, query, int(weekday)); err != nil {
		return nil, fmt.Errorf("list schedule template: %w", err)
	}
	return entries, nil
}

// FindByID fetches a template entry. sql.ErrNoRows is returned unwrapped.
func (r *ScheduleTemplateRepository) FindByID(ctx context.Context, id string) (*models.ScheduleTemplateEntry, error) {
	const query = `SELECT id, weekday, COALESCE(start_time, '') AS start_time, end_time, activity, location, group_id
FROM schedule_template_entries WHERE id = $1 AND active = TRUE`
	var entry models.ScheduleTemplateEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}
