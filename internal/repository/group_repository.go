package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sport-planner-api/internal/models"
)

// GroupRepository reads the living-group catalog owned by group management.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a group repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List returns all active groups ordered by name.
func (r *GroupRepository) List(ctx context.Context) ([]models.Group, error) {
	const query = `SELECT id, name, color, created_at, updated_at FROM groups WHERE archived_at IS NULL ORDER BY name ASC, id ASC`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// FindByID fetches a single group. sql.ErrNoRows is returned unwrapped.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	const query = `SELECT id, name, color, created_at, updated_at FROM groups WHERE id = $1 AND archived_at IS NULL`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}
