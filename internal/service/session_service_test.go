package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sport-planner-api/internal/dto"
	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
)

func newTestSessionService(store *fakeSessionStore) *SessionService {
	lookup := &fakeGroupLookup{fakeGroupCatalog{groups: testGroups}}
	return NewSessionService(store, lookup, nil, nil)
}

func TestSessionServiceCreate(t *testing.T) {
	store := &fakeSessionStore{}
	svc := newTestSessionService(store)
	end := "17:00"
	notes := "  bring balls "

	session, err := svc.Create(context.Background(), dto.CreateSessionRequest{
		GroupID:   "g-a",
		Date:      "2024-06-10",
		StartTime: "16:00",
		EndTime:   &end,
		Location:  " Field ",
		Type:      "EXTRA",
		Notes:     &notes,
	}, "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.SessionStatusPending, session.Status)
	assert.Equal(t, models.SessionTypeExtra, session.Type)
	assert.Equal(t, "Field", session.Location)
	require.NotNil(t, session.Notes)
	assert.Equal(t, "bring balls", *session.Notes)
	assert.Equal(t, "2024-06-10", session.Date.Format(models.DateLayout))
	assert.Len(t, store.sessions, 1)
}

func TestSessionServiceCreateValidation(t *testing.T) {
	svc := newTestSessionService(&fakeSessionStore{})
	early := "15:00"

	cases := []struct {
		name string
		req  dto.CreateSessionRequest
		code string
	}{
		{name: "missing group", req: dto.CreateSessionRequest{Date: "2024-06-10", Type: "REGULAR"}, code: appErrors.ErrValidation.Code},
		{name: "bad date", req: dto.CreateSessionRequest{GroupID: "g-a", Date: "10-06-2024", Type: "REGULAR"}, code: appErrors.ErrValidation.Code},
		{name: "bad type", req: dto.CreateSessionRequest{GroupID: "g-a", Date: "2024-06-10", Type: "BONUS"}, code: appErrors.ErrValidation.Code},
		{name: "bad time", req: dto.CreateSessionRequest{GroupID: "g-a", Date: "2024-06-10", StartTime: "25:00", Type: "REGULAR"}, code: appErrors.ErrValidation.Code},
		{name: "end before start", req: dto.CreateSessionRequest{GroupID: "g-a", Date: "2024-06-10", StartTime: "16:00", EndTime: &early, Type: "REGULAR"}, code: appErrors.ErrValidation.Code},
		{name: "unknown group", req: dto.CreateSessionRequest{GroupID: "ghost", Date: "2024-06-10", Type: "REGULAR"}, code: appErrors.ErrNotFound.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req, "user-1")
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
		})
	}
}

func TestSessionServiceList(t *testing.T) {
	d := day(t, "2024-06-10")
	store := &fakeSessionStore{sessions: []models.SessionEvent{
		{ID: "s1", GroupID: "g-a", Date: d},
		{ID: "s2", GroupID: "g-b", Date: d.AddDate(0, 0, 1)},
	}}
	svc := newTestSessionService(store)

	sessions, err := svc.List(context.Background(), dto.SessionFilter{Date: "2024-06-10"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)

	sessions, err = svc.List(context.Background(), dto.SessionFilter{Date: "2030-01-01"})
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)

	_, err = svc.List(context.Background(), dto.SessionFilter{Date: "tomorrow"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	store.listErr = errors.New("down")
	_, err = svc.List(context.Background(), dto.SessionFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
