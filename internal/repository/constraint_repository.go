package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sport-planner-api/internal/models"
)

// constraintTable maps one constraint store onto the shared record shape.
type constraintTable struct {
	kind       models.ConstraintKind
	table      string
	textColumn string
}

var (
	restrictionTable = constraintTable{kind: models.ConstraintRestriction, table: "restrictions", textColumn: "reason"}
	mutationTable    = constraintTable{kind: models.ConstraintMutation, table: "mutations", textColumn: "reason"}
	indicationTable  = constraintTable{kind: models.ConstraintIndication, table: "indications", textColumn: "description"}
)

// ConstraintRepository reads one of the restriction, mutation or indication
// stores. The three tables share a temporal shape and differ in payload only.
type ConstraintRepository struct {
	db    *sqlx.DB
	table constraintTable
}

// NewRestrictionRepository reads participation bans.
func NewRestrictionRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db, table: restrictionTable}
}

// NewMutationRepository reads sport exclusions.
func NewMutationRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db, table: mutationTable}
}

// NewIndicationRepository reads extra-session entitlements.
func NewIndicationRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db, table: indicationTable}
}

// Kind returns the constraint kind served by the repository.
func (r *ConstraintRepository) Kind() models.ConstraintKind {
	return r.table.kind
}

// ListCandidates returns records that may be active on day. Well-formed ISO
// dates are narrowed in SQL with one day of slack on each side for zone
// offsets; anything else is passed through so the caller can parse it and
// report malformed rows. The exact overlap check is left to the caller.
func (r *ConstraintRepository) ListCandidates(ctx context.Context, day time.Time) ([]models.ConstraintRecord, error) {
	upper := day.AddDate(0, 0, 1).Format(models.DateLayout)
	lower := day.AddDate(0, 0, -1).Format(models.DateLayout)
	query := fmt.Sprintf(`
SELECT
	id,
	'%s' AS kind,
	group_id,
	youth_name,
	COALESCE(%s, '') AS text,
	COALESCE(valid_from::text, '') AS valid_from,
	valid_until::text AS valid_until
FROM %s
WHERE deleted_at IS NULL
	AND (valid_from::text !~ '^\d{4}-\d{2}-\d{2}' OR left(valid_from::text, 10) <= $1)
	AND (valid_until IS NULL OR valid_until::text !~ '^\d{4}-\d{2}-\d{2}' OR left(valid_until::text, 10) >= $2)
ORDER BY id ASC`, r.table.kind, r.table.textColumn, r.table.table)

	var records []models.ConstraintRecord
	if err := r.db.SelectContext(ctx, &records, query, upper, lower); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.table, err)
	}
	return records, nil
}
