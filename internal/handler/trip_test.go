package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/visaflow/internal/api"
	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/handler"
)

func tripHandler(svc *mockTripServicer) http.Handler {
	return newHTTPHandler(handler.Services{Trips: svc})
}

// ---- POST /api/trips -------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	userID := uuid.New()
	fixture := tripFixture(userID)
	var gotUser uuid.UUID
	var gotDraft domain.TripDraft
	svc := &mockTripServicer{
		create: func(_ context.Context, u uuid.UUID, d domain.TripDraft) (domain.Trip, error) {
			gotUser, gotDraft = u, d
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"user_id":              userID,
		"country":              "Japan",
		"country_code":         "JP",
		"visa_type":            "Visa-Free",
		"entry_date":           dateStr(fixture.EntryDate),
		"exit_date":            dateStr(fixture.ExitDate),
		"extensions_available": 1,
	})
	rec := serve(tripHandler(svc), http.MethodPost, "/api/trips", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[api.Trip](t, rec)
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, 90, resp.TotalDays)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, domain.VisaFree, gotDraft.VisaType)
	assert.Equal(t, 1, gotDraft.ExtensionsAvailable)
	assert.Equal(t, fixture.ExitDate, gotDraft.ExitDate)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, uuid.UUID, domain.TripDraft) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: exit_date must be after entry_date", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{
		"user_id":    uuid.New(),
		"entry_date": "2025-06-10",
		"exit_date":  "2025-06-01",
	})
	rec := serve(tripHandler(svc), http.MethodPost, "/api/trips", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "exit_date must be after entry_date", resp.Error.Message)
}

func TestCreateTrip_404_UnknownUser(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, uuid.UUID, domain.TripDraft) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}

	body := jsonBody(t, map[string]any{"user_id": uuid.New(), "entry_date": "2025-06-01", "exit_date": "2025-06-10"})
	rec := serve(tripHandler(svc), http.MethodPost, "/api/trips", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTrip_400_MalformedBody(t *testing.T) {
	rec := serve(tripHandler(&mockTripServicer{}), http.MethodPost, "/api/trips", strings.NewReader(`{"entry_date": "June"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTrip_500_HidesCause(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, uuid.UUID, domain.TripDraft) (domain.Trip, error) {
			return domain.Trip{}, errors.New("pq: password authentication failed")
		},
	}

	body := jsonBody(t, map[string]any{"user_id": uuid.New(), "entry_date": "2025-06-01", "exit_date": "2025-06-10"})
	rec := serve(tripHandler(svc), http.MethodPost, "/api/trips", body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

// ---- GET /api/trips/{userId} -----------------------------------------------

func TestListTrips_200(t *testing.T) {
	userID := uuid.New()
	trips := []domain.Trip{tripFixture(userID), tripFixture(userID)}
	var gotParams domain.PaginationParams
	var gotStatus domain.TripStatus
	svc := &mockTripServicer{
		listByUser: func(_ context.Context, u uuid.UUID, status domain.TripStatus, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			assert.Equal(t, userID, u)
			gotStatus, gotParams = status, p
			return trips, 7, nil
		},
	}

	rec := serve(tripHandler(svc), http.MethodGet, "/api/trips/"+userID.String()+"?status=active&page=2&limit=2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[[]api.Trip](t, rec)
	assert.Len(t, resp, 2)
	assert.Equal(t, "7", rec.Header().Get("X-Total-Count"))
	assert.Equal(t, domain.TripActive, gotStatus)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 2}, gotParams)
}

func TestListTrips_200_Empty(t *testing.T) {
	svc := &mockTripServicer{
		listByUser: func(context.Context, uuid.UUID, domain.TripStatus, domain.PaginationParams) ([]domain.Trip, int64, error) {
			return []domain.Trip{}, 0, nil
		},
	}

	rec := serve(tripHandler(svc), http.MethodGet, "/api/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Must be a JSON array, not null.
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListTrips_400_BadUserID(t *testing.T) {
	rec := serve(tripHandler(&mockTripServicer{}), http.MethodGet, "/api/trips/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTrips_400_BadLimit(t *testing.T) {
	rec := serve(tripHandler(&mockTripServicer{}), http.MethodGet, "/api/trips/"+uuid.NewString()+"?limit=ten", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- DELETE /api/trips/{id} ------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ uuid.UUID) error { return nil },
	}

	rec := serve(tripHandler(svc), http.MethodDelete, "/api/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound },
	}

	rec := serve(tripHandler(svc), http.MethodDelete, "/api/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "trip not found", resp.Error.Message)
}

// ---- PATCH /api/trips/{id}/complete ----------------------------------------

func TestCompleteTrip_200(t *testing.T) {
	fixture := tripFixture(uuid.New())
	fixture.Status = domain.TripCompleted
	svc := &mockTripServicer{
		complete: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	rec := serve(tripHandler(svc), http.MethodPatch, "/api/trips/"+fixture.ID.String()+"/complete", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decode[api.Trip](t, rec).Status)
}

func TestCompleteTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		complete: func(context.Context, uuid.UUID) (domain.Trip, error) { return domain.Trip{}, domain.ErrNotFound },
	}

	rec := serve(tripHandler(svc), http.MethodPatch, "/api/trips/"+uuid.NewString()+"/complete", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
