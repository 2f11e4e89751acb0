package controller

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"party-invites/core/errors"
	"party-invites/modules/reminder/dto"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	summary *dto.RunSummary
	err     *errors.AppError
}

func (s *stubService) CreateReminderSchedule(context.Context, uuid.UUID) *errors.AppError { return nil }

func (s *stubService) ProcessReminders(context.Context) (*dto.RunSummary, *errors.AppError) {
	return s.summary, s.err
}

type stubEnqueuer struct {
	id  string
	err error
}

func (s *stubEnqueuer) EnqueueProcessReminders(context.Context) (string, error) { return s.id, s.err }

func call(t *testing.T, ctrl *ReminderController, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, target, nil), rec)

	err := ctrl.Trigger(c)
	if he, ok := err.(*echo.HTTPError); ok {
		e.DefaultHTTPErrorHandler(he, c)
	} else {
		require.NoError(t, err)
	}
	return rec
}

func TestTriggerReturnsSummary(t *testing.T) {
	summary := dto.NewRunSummary(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	summary.PartiesScanned = 4
	summary.EmailsSent = 3
	ctrl := NewReminderController(&stubService{summary: summary}, nil)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := call(t, ctrl, method, "/api/v1/cron/reminders")
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data dto.TriggerResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotNil(t, body.Data.Summary)
		assert.Equal(t, 4, body.Data.Summary.PartiesScanned)
		assert.Equal(t, 3, body.Data.Summary.EmailsSent)
		assert.False(t, body.Data.Queued)
	}
}

func TestTriggerSurfacesAbortAs500(t *testing.T) {
	ctrl := NewReminderController(&stubService{err: errors.NewAppError(errors.ErrInternalServer, "failed to load upcoming parties", nil)}, nil)

	rec := call(t, ctrl, http.MethodGet, "/api/v1/cron/reminders")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestTriggerAsyncEnqueues(t *testing.T) {
	ctrl := NewReminderController(&stubService{}, &stubEnqueuer{id: "task-1"})

	rec := call(t, ctrl, http.MethodPost, "/api/v1/cron/reminders?async=true")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"task_id":"task-1"`)
}

func TestTriggerAsyncFailures(t *testing.T) {
	rec := call(t, NewReminderController(&stubService{}, nil), http.MethodPost, "/api/v1/cron/reminders?async=true")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ctrl := NewReminderController(&stubService{}, &stubEnqueuer{err: stderrors.New("redis down")})
	rec = call(t, ctrl, http.MethodPost, "/api/v1/cron/reminders?async=1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis down")
}
