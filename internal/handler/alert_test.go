package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/visaflow/internal/api"
	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/handler"
)

func TestRegisterAlerts_201(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()
	trigger := time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC)
	var got []domain.ScheduledAlert
	svc := &mockAlertServicer{
		register: func(_ context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error) {
			got = alerts
			stored := make([]domain.ScheduledAlert, len(alerts))
			for i, a := range alerts {
				a.ID = uuid.New()
				stored[i] = a
			}
			return stored, nil
		},
	}

	body := jsonBody(t, api.RegisterAlertsRequest{Alerts: []api.Alert{{
		TripID: tripID, UserID: userID, OffsetDays: 14, TriggerAt: trigger,
		Title: "Visa Alert", Body: "Your visa for Japan expires in 14 days",
	}}})
	rec := serve(newHTTPHandler(handler.Services{Alerts: svc}), http.MethodPost, "/api/alerts", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[[]api.Alert](t, rec)
	require.Len(t, resp, 1)
	assert.NotEqual(t, uuid.Nil, resp[0].ID)
	require.Len(t, got, 1)
	assert.Equal(t, tripID, got[0].TripID)
	assert.True(t, trigger.Equal(got[0].TriggerAt))
}

func TestRegisterAlerts_422_WrongOwner(t *testing.T) {
	svc := &mockAlertServicer{
		register: func(context.Context, []domain.ScheduledAlert) ([]domain.ScheduledAlert, error) {
			return nil, domain.ErrValidation
		},
	}

	body := jsonBody(t, api.RegisterAlertsRequest{Alerts: []api.Alert{{TripID: uuid.New(), UserID: uuid.New()}}})
	rec := serve(newHTTPHandler(handler.Services{Alerts: svc}), http.MethodPost, "/api/alerts", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListAlerts_200(t *testing.T) {
	userID := uuid.New()
	svc := &mockAlertServicer{
		listPending: func(_ context.Context, u uuid.UUID) ([]domain.ScheduledAlert, error) {
			assert.Equal(t, userID, u)
			return []domain.ScheduledAlert{{ID: uuid.New(), UserID: userID, OffsetDays: 3, Title: "🚨 URGENT"}}, nil
		},
	}

	rec := serve(newHTTPHandler(handler.Services{Alerts: svc}), http.MethodGet, "/api/users/"+userID.String()+"/alerts", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[[]api.Alert](t, rec)
	require.Len(t, resp, 1)
	assert.Equal(t, 3, resp[0].OffsetDays)
}
