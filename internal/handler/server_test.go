package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/handler"
)

// The mocks below are test doubles for the handler's servicer interfaces.
// Set only the method fields your test needs.

type mockUserServicer struct {
	create  func(ctx context.Context) (domain.User, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
	update  func(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error)
}

func (m *mockUserServicer) Create(ctx context.Context) (domain.User, error) { return m.create(ctx) }
func (m *mockUserServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserServicer) Update(ctx context.Context, id uuid.UUID, p domain.UserPatch) (domain.User, error) {
	return m.update(ctx, id, p)
}

type mockTripServicer struct {
	create     func(ctx context.Context, userID uuid.UUID, draft domain.TripDraft) (domain.Trip, error)
	listByUser func(ctx context.Context, userID uuid.UUID, status domain.TripStatus, p domain.PaginationParams) ([]domain.Trip, int64, error)
	complete   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, userID uuid.UUID, d domain.TripDraft) (domain.Trip, error) {
	return m.create(ctx, userID, d)
}
func (m *mockTripServicer) ListByUser(ctx context.Context, userID uuid.UUID, status domain.TripStatus, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByUser(ctx, userID, status, p)
}
func (m *mockTripServicer) Complete(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.complete(ctx, id)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockRequirementServicer struct {
	countries func() []domain.Country
	check     func(c domain.RequirementCheck) (domain.VisaRequirement, error)
}

func (m *mockRequirementServicer) Countries() []domain.Country { return m.countries() }
func (m *mockRequirementServicer) Check(c domain.RequirementCheck) (domain.VisaRequirement, error) {
	return m.check(c)
}

type mockAlertServicer struct {
	register    func(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error)
	listPending func(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error)
}

func (m *mockAlertServicer) Register(ctx context.Context, a []domain.ScheduledAlert) ([]domain.ScheduledAlert, error) {
	return m.register(ctx, a)
}
func (m *mockAlertServicer) ListPending(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error) {
	return m.listPending(ctx, userID)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.UserServicer        = (*mockUserServicer)(nil)
	_ handler.TripServicer        = (*mockTripServicer)(nil)
	_ handler.RequirementServicer = (*mockRequirementServicer)(nil)
	_ handler.AlertServicer       = (*mockAlertServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the chi router.
// This mirrors exactly how main.go wires it in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(logger, svc).Routes()
}

func serve(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func tripFixture(userID uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		UserID:      userID,
		Country:     "Japan",
		CountryCode: "JP",
		VisaType:    domain.VisaFree,
		EntryDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ExitDate:    time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC),
		TotalDays:   90,
		Status:      domain.TripActive,
		CreatedAt:   time.Now().UTC(),
	}
}

func dateStr(t time.Time) string {
	return t.Format(time.DateOnly)
}
