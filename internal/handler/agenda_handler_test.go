package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
)

type fakeAgendaSrv struct {
	loc        *time.Location
	agenda     *models.DayAgenda
	err        error
	lastDate   time.Time
	lastNow    time.Time
	lastItem   string
	lastStatus models.SessionStatus
	lastActor  string
}

func (f *fakeAgendaSrv) BuildDayAgenda(_ context.Context, date time.Time, now time.Time) (*models.DayAgenda, error) {
	f.lastDate, f.lastNow = date, now
	if f.err != nil {
		return nil, f.err
	}
	return f.agenda, nil
}

func (f *fakeAgendaSrv) SetItemStatus(_ context.Context, date time.Time, itemID string, status models.SessionStatus, actorID string) (*models.DayAgendaItem, error) {
	f.lastDate, f.lastItem, f.lastStatus, f.lastActor = date, itemID, status, actorID
	if f.err != nil {
		return nil, f.err
	}
	return &models.DayAgendaItem{ID: itemID, Status: string(status)}, nil
}

func (f *fakeAgendaSrv) Location() *time.Location {
	if f.loc == nil {
		return time.UTC
	}
	return f.loc
}

func TestAgendaHandlerGetDefaultsToLocalToday(t *testing.T) {
	loc := time.FixedZone("NZST", 12*60*60)
	srv := &fakeAgendaSrv{loc: loc, agenda: &models.DayAgenda{Date: "2024-06-10"}}
	handler := NewAgendaHandler(srv, fixedClock)

	c, rec := newTestContext(http.MethodGet, "/agenda", "", staffClaims())
	handler.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, loc), srv.lastDate)
	assert.Equal(t, fixedNow, srv.lastNow)
}

func TestAgendaHandlerGetWithDate(t *testing.T) {
	srv := &fakeAgendaSrv{agenda: &models.DayAgenda{Date: "2024-06-11", Incomplete: true}}
	handler := NewAgendaHandler(srv, fixedClock)

	c, rec := newTestContext(http.MethodGet, "/agenda?date=2024-06-11", "", staffClaims())
	handler.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-06-11", srv.lastDate.Format(models.DateLayout))
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "data possibly incomplete", envelope.Meta["warning"])
	var agenda models.DayAgenda
	require.NoError(t, json.Unmarshal(envelope.Data, &agenda))
	assert.True(t, agenda.Incomplete)
}

func TestAgendaHandlerGetInvalidDate(t *testing.T) {
	handler := NewAgendaHandler(&fakeAgendaSrv{}, fixedClock)

	c, rec := newTestContext(http.MethodGet, "/agenda?date=10-06-2024", "", staffClaims())
	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, rec))
}

func TestAgendaHandlerGetCatalogUnavailable(t *testing.T) {
	handler := NewAgendaHandler(&fakeAgendaSrv{err: appErrors.Clone(appErrors.ErrSourceUnavailable, "group catalog unavailable")}, fixedClock)

	c, rec := newTestContext(http.MethodGet, "/agenda", "", staffClaims())
	handler.Get(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAgendaHandlerSetStatus(t *testing.T) {
	srv := &fakeAgendaSrv{}
	handler := NewAgendaHandler(srv, fixedClock)

	c, rec := newTestContext(http.MethodPut, "/agenda/2024-06-10/items/template:t1/status", `{"status":"COMPLETED"}`, staffClaims())
	c.Params = append(c.Params,
		ginParam("date", "2024-06-10"),
		ginParam("itemId", "template:t1"),
	)
	handler.SetStatus(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "template:t1", srv.lastItem)
	assert.Equal(t, models.SessionStatusCompleted, srv.lastStatus)
	assert.Equal(t, "user-1", srv.lastActor)
	assert.Equal(t, "2024-06-10", srv.lastDate.Format(models.DateLayout))
}

func TestAgendaHandlerSetStatusErrors(t *testing.T) {
	cases := []struct {
		name   string
		date   string
		body   string
		srvErr error
		claims bool
		status int
	}{
		{name: "unauthenticated", date: "2024-06-10", body: `{"status":"COMPLETED"}`, status: http.StatusUnauthorized},
		{name: "bad date", date: "June", body: `{"status":"COMPLETED"}`, claims: true, status: http.StatusBadRequest},
		{name: "bad body", date: "2024-06-10", body: `{`, claims: true, status: http.StatusBadRequest},
		{name: "conflict", date: "2024-06-10", body: `{"status":"REFUSED"}`, claims: true, srvErr: appErrors.Clone(appErrors.ErrConflict, "nope"), status: http.StatusConflict},
		{name: "not found", date: "2024-06-10", body: `{"status":"REFUSED"}`, claims: true, srvErr: appErrors.Clone(appErrors.ErrNotFound, "nope"), status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewAgendaHandler(&fakeAgendaSrv{err: tc.srvErr}, fixedClock)
			claims := staffClaims()
			if !tc.claims {
				claims = nil
			}
			c, rec := newTestContext(http.MethodPut, "/agenda/x/items/session:s1/status", tc.body, claims)
			c.Params = append(c.Params, ginParam("date", tc.date), ginParam("itemId", "session:s1"))
			handler.SetStatus(c)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
