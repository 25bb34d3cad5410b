package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/visaflow/internal/domain"
)

// AlertRepo defines the persistence operations for scheduled alerts.
type AlertRepo interface {
	// CreateBatch stores alerts in one round trip and returns the persisted
	// records. Registering the same (trip, offset) twice keeps one row and
	// refreshes its trigger time and text.
	CreateBatch(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error)

	// ListPendingByUser returns a user's undelivered alerts by trigger time.
	ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error)

	// ListDue returns up to limit undelivered alerts whose trigger time is at
	// or before now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledAlert, error)

	// MarkDelivered stamps an alert as delivered at the given time.
	// Returns domain.ErrNotFound if the alert does not exist or was already delivered.
	MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error
}

type pgAlertRepo struct {
	db db
}

// NewAlertRepo constructs an AlertRepo backed by the provided db connection.
func NewAlertRepo(db db) AlertRepo {
	return &pgAlertRepo{db: db}
}

const alertColumns = `id, trip_id, user_id, offset_days, trigger_at, title, body, delivered_at, created_at`

// CreateBatch queues one INSERT per alert on a pgx.Batch. The DO UPDATE
// branch makes RETURNING fire on conflict as well.
func (r *pgAlertRepo) CreateBatch(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error) {
	if len(alerts) == 0 {
		return []domain.ScheduledAlert{}, nil
	}

	const q = `
		INSERT INTO scheduled_alerts (trip_id, user_id, offset_days, trigger_at, title, body)
		VALUES (@trip_id, @user_id, @offset_days, @trigger_at, @title, @body)
		ON CONFLICT (trip_id, offset_days) DO UPDATE
		SET trigger_at = EXCLUDED.trigger_at,
		    title      = EXCLUDED.title,
		    body       = EXCLUDED.body
		RETURNING ` + alertColumns

	batch := &pgx.Batch{}
	for _, a := range alerts {
		batch.Queue(q, pgx.NamedArgs{
			"trip_id":     a.TripID,
			"user_id":     a.UserID,
			"offset_days": a.OffsetDays,
			"trigger_at":  a.TriggerAt,
			"title":       a.Title,
			"body":        a.Body,
		})
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	out := make([]domain.ScheduledAlert, 0, len(alerts))
	for range alerts {
		a, err := scanAlert(br.QueryRow())
		if err != nil {
			return nil, fmt.Errorf("repo.AlertRepo.CreateBatch: %w", err)
		}
		out = append(out, a)
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("repo.AlertRepo.CreateBatch: close: %w", err)
	}
	return out, nil
}

func (r *pgAlertRepo) ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error) {
	const q = `
		SELECT ` + alertColumns + `
		FROM scheduled_alerts
		WHERE user_id = @user_id AND delivered_at IS NULL
		ORDER BY trigger_at, id`

	alerts, err := r.list(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.AlertRepo.ListPendingByUser: %w", err)
	}
	return alerts, nil
}

func (r *pgAlertRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledAlert, error) {
	const q = `
		SELECT ` + alertColumns + `
		FROM scheduled_alerts
		WHERE delivered_at IS NULL AND trigger_at <= @now
		ORDER BY trigger_at, id
		LIMIT @limit`

	alerts, err := r.list(ctx, q, pgx.NamedArgs{"now": now, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.AlertRepo.ListDue: %w", err)
	}
	return alerts, nil
}

func (r *pgAlertRepo) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error {
	const q = `
		UPDATE scheduled_alerts
		SET delivered_at = @at
		WHERE id = @id AND delivered_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "at": at})
	if err != nil {
		return fmt.Errorf("repo.AlertRepo.MarkDelivered: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AlertRepo.MarkDelivered: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgAlertRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.ScheduledAlert, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []domain.ScheduledAlert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return alerts, nil
}

func scanAlert(s scanner) (domain.ScheduledAlert, error) {
	var (
		a      domain.ScheduledAlert
		id     pgtype.UUID
		tripID pgtype.UUID
		userID pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &userID, &a.OffsetDays, &a.TriggerAt, &a.Title, &a.Body, &a.DeliveredAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ScheduledAlert{}, domain.ErrNotFound
		}
		return domain.ScheduledAlert{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(tripID.Bytes)
	a.UserID = uuid.UUID(userID.Bytes)
	return a, nil
}
