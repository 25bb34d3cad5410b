// Package repo contains all database access logic for the VisaFlow API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/visaflow/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id and created_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByUser returns one page of a user's trips in creation order, plus the
	// total number of matching trips. An empty status matches every status.
	ListByUser(ctx context.Context, userID uuid.UUID, status domain.TripStatus, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// UpdateStatus sets the status of a trip and returns the updated record.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, country, country_code, visa_type, entry_date, exit_date,
		total_days, extensions_available, status, created_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (user_id, country, country_code, visa_type, entry_date, exit_date,
		                   total_days, extensions_available, status)
		VALUES (@user_id, @country, @country_code, @visa_type, @entry_date, @exit_date,
		        @total_days, @extensions_available, @status)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"user_id":              trip.UserID,
		"country":              trip.Country,
		"country_code":         trip.CountryCode,
		"visa_type":            string(trip.VisaType),
		"entry_date":           domain.Date(trip.EntryDate),
		"exit_date":            domain.Date(trip.ExitDate),
		"total_days":           trip.TotalDays,
		"extensions_available": trip.ExtensionsAvailable,
		"status":               string(trip.Status),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns a page of the user's trips ordered by created_at ascending,
// so new trips appear at the end just as the client appends them.
// The window function carries the total alongside each row, saving a second query.
func (r *pgTripRepo) ListByUser(ctx context.Context, userID uuid.UUID, status domain.TripStatus, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + tripColumns + `, COUNT(*) OVER () AS total
		FROM trips
		WHERE user_id = @user_id
		  AND (@status::text = '' OR status = @status::text)
		ORDER BY created_at, id
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"user_id": userID,
		"status":  string(status),
		"limit":   p.Limit,
		"offset":  p.Offset(),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var (
		trips []domain.Trip
		total int64
	)
	for rows.Next() {
		t, err := scanTrip(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListByUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUser: rows: %w", err)
	}

	return trips, total, nil
}

// UpdateStatus changes a trip's status and returns the updated record.
func (r *pgTripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET status = @status
		WHERE id = @id
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key. Its scheduled alerts go with it
// (ON DELETE CASCADE).
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and DATE conversions. extra receives any columns
// selected after the trip columns (e.g. a window-function total).
func scanTrip(s scanner, extra ...any) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		userID    pgtype.UUID
		visaType  string
		entryDate pgtype.Date
		exitDate  pgtype.Date
		status    string
	)

	dest := append([]any{
		&id, &userID, &t.Country, &t.CountryCode, &visaType, &entryDate, &exitDate,
		&t.TotalDays, &t.ExtensionsAvailable, &status, &t.CreatedAt,
	}, extra...)

	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	t.VisaType = domain.VisaType(visaType)
	t.EntryDate = entryDate.Time
	t.ExitDate = exitDate.Time
	t.Status = domain.TripStatus(status)

	return t, nil
}
