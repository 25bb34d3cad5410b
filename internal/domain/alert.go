package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledAlert is a durable reminder that a visa is about to run out.
// It is produced once per trip at creation time and handed to whatever
// notification service is available; DeliveredAt stays nil until that
// service has sent it.
type ScheduledAlert struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	UserID      uuid.UUID
	OffsetDays  int
	TriggerAt   time.Time
	Title       string
	Body        string
	DeliveredAt *time.Time
	CreatedAt   time.Time
}
