package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleTemplateRepositoryListByWeekday(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleTemplateRepository(db)

	rows := sqlmock.NewRows([]string{"id", "weekday", "start_time", "end_time", "activity", "location", "group_id"}).
		AddRow("tpl-1", 1, "", nil, "Cleaning day", "", nil).
		AddRow("tpl-2", 1, "14:00", "15:00", "Football", "Gym", "grp-a")
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_template_entries\nWHERE weekday = $1 AND active = TRUE")).
		WithArgs(1).
		WillReturnRows(rows)

	entries, err := repo.ListByWeekday(context.Background(), time.Monday)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].AllDay())
	assert.Nil(t, entries[0].GroupID)
	assert.Equal(t, time.Monday, entries[1].Weekday)
	require.NotNil(t, entries[1].GroupID)
	assert.Equal(t, "grp-a", *entries[1].GroupID)
	require.NotNil(t, entries[1].EndTime)
	assert.Equal(t, "15:00", *entries[1].EndTime)
}
