package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sport-planner-api/internal/dto"
	"github.com/noah-isme/sport-planner-api/internal/models"
)

var sessionRowColumns = []string{"id", "group_id", "session_date", "start_time", "end_time", "location", "type", "status", "template_entry_id", "notes", "created_by", "created_at", "updated_at"}

func TestSessionRepositoryListByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(sessionRowColumns).
		AddRow("ses-1", "grp-a", day, "16:00", nil, "Field", "EXTRA", "PENDING", nil, nil, "staff-1", day, day).
		AddRow("ses-2", "grp-b", day, "10:00", "11:00", "Gym", "REGULAR", "COMPLETED", "tpl-1", nil, "staff-1", day, day)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sport_sessions WHERE deleted_at IS NULL AND session_date = $1::date")).
		WithArgs("2024-06-10").
		WillReturnRows(rows)

	sessions, err := repo.ListByDate(context.Background(), "2024-06-10")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, models.SessionTypeExtra, sessions[0].Type)
	assert.False(t, sessions[0].FromTemplate())
	assert.True(t, sessions[1].FromTemplate())
	assert.Equal(t, models.SessionStatusCompleted, sessions[1].Status)
}

func TestSessionRepositoryListByGroup(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE deleted_at IS NULL AND session_date = $1::date AND group_id = $2")).
		WithArgs("2024-06-10", "grp-a").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))

	sessions, err := repo.List(context.Background(), dto.SessionFilter{Date: "2024-06-10", GroupID: "grp-a"})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionRepositoryCreateAssignsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	args := make([]driver.Value, 13)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sport_sessions")).
		WithArgs(args...).
		WillReturnResult(sqlmock.NewResult(1, 1))

	session := &models.SessionEvent{
		GroupID: "grp-a",
		Date:    time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Type:    models.SessionTypeExtra,
	}
	require.NoError(t, repo.Create(context.Background(), session))
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.SessionStatusPending, session.Status)
	assert.False(t, session.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryUpdateStatusMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sport_sessions SET status = $1")).
		WithArgs("COMPLETED", sqlmock.AnyArg(), "ses-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "ses-9", models.SessionStatusCompleted)
	require.Error(t, err)
}

func TestSessionRepositoryTallyByGroupWithCutoff(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	rows := sqlmock.NewRows([]string{"group_id", "regular_count", "extra_count", "missed_count"}).
		AddRow("grp-a", 10, 0, 0).
		AddRow("grp-c", 4, 0, 2)
	mock.ExpectQuery(regexp.QuoteMeta("AND s.session_date >= $1::date")).
		WithArgs("2024-06-03").
		WillReturnRows(rows)

	since := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	tallies, err := repo.TallyByGroup(context.Background(), &since)
	require.NoError(t, err)
	require.Len(t, tallies, 2)
	assert.Equal(t, models.SessionTally{GroupID: "grp-c", Regular: 4, Missed: 2}, tallies[1])
}

func TestSessionRepositoryTallyByGroupAllTime(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AND o.start_time IS NOT DISTINCT FROM s.start_time))\nGROUP BY s.group_id")).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "regular_count", "extra_count", "missed_count"}))

	tallies, err := repo.TallyByGroup(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tallies)
}

func TestSessionRepositoryTallyIgnoresResetTemplateSessions(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	// Template rows only count as regular once completed, and not at all when
	// a custom session replaces their slot.
	mock.ExpectQuery(`(?s)` +
		regexp.QuoteMeta("s.type = 'REGULAR' AND s.status <> 'REFUSED' AND (s.template_entry_id IS NULL OR s.status = 'COMPLETED')") +
		".*" + regexp.QuoteMeta("NOT (s.template_entry_id IS NOT NULL AND EXISTS (") +
		".*" + regexp.QuoteMeta("o.template_entry_id IS NULL AND o.deleted_at IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "regular_count", "extra_count", "missed_count"}).
			AddRow("grp-a", 3, 1, 0))

	tallies, err := repo.TallyByGroup(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []models.SessionTally{{GroupID: "grp-a", Regular: 3, Extra: 1}}, tallies)
	require.NoError(t, mock.ExpectationsWereMet())
}
