// Package api defines the JSON wire types of the VisaFlow REST API and their
// conversions to and from domain types. The HTTP handlers encode these types
// and the API client decodes them, so both ends share one definition.
// Calendar dates travel as "2006-01-02" via openapi_types.Date.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// MessageResponse carries a human-readable acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// User is the wire form of domain.User.
type User struct {
	ID                   openapi_types.UUID `json:"id"`
	FirstName            string             `json:"first_name,omitempty"`
	Nationality          string             `json:"nationality,omitempty"`
	NationalityCode      string             `json:"nationality_code,omitempty"`
	NotificationsEnabled bool               `json:"notifications_enabled"`
	OnboardingCompleted  bool               `json:"onboarding_completed"`
	TrialStart           time.Time          `json:"trial_start"`
	SubscriptionStatus   string             `json:"subscription_status"`
	CreatedAt            time.Time          `json:"created_at"`
}

// UpdateUserRequest is the body of PATCH /users/{id}. Absent fields are
// left unchanged.
type UpdateUserRequest struct {
	FirstName            *string `json:"first_name,omitempty"`
	Nationality          *string `json:"nationality,omitempty"`
	NationalityCode      *string `json:"nationality_code,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	OnboardingCompleted  *bool   `json:"onboarding_completed,omitempty"`
	SubscriptionStatus   *string `json:"subscription_status,omitempty"`
}

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	UserID              openapi_types.UUID `json:"user_id"`
	Country             string             `json:"country"`
	CountryCode         string             `json:"country_code"`
	VisaType            string             `json:"visa_type"`
	EntryDate           openapi_types.Date `json:"entry_date"`
	ExitDate            openapi_types.Date `json:"exit_date"`
	ExtensionsAvailable int                `json:"extensions_available"`
}

// Trip is the wire form of domain.Trip.
type Trip struct {
	ID                  openapi_types.UUID `json:"id"`
	UserID              openapi_types.UUID `json:"user_id"`
	Country             string             `json:"country"`
	CountryCode         string             `json:"country_code"`
	VisaType            string             `json:"visa_type"`
	EntryDate           openapi_types.Date `json:"entry_date"`
	ExitDate            openapi_types.Date `json:"exit_date"`
	TotalDays           int                `json:"total_days"`
	ExtensionsAvailable int                `json:"extensions_available"`
	Status              string             `json:"status"`
	CreatedAt           time.Time          `json:"created_at"`
}

// CheckRequirementsRequest is the body of POST /check-requirements.
type CheckRequirementsRequest struct {
	NationalityCode string `json:"nationality_code"`
	DestinationCode string `json:"destination_code"`
	TravelPurpose   string `json:"travel_purpose,omitempty"`
}

// VisaRequirement is the response of POST /check-requirements.
type VisaRequirement struct {
	Found           bool     `json:"found"`
	NationalityCode string   `json:"nationality_code"`
	DestinationCode string   `json:"destination_code"`
	Verdict         string   `json:"verdict"`
	PermittedDays   *int     `json:"permitted_days,omitempty"`
	CostUSD         *float64 `json:"cost_usd,omitempty"`
	ProcessingDays  string   `json:"processing_days,omitempty"`
	Conditions      []string `json:"conditions"`
	ApplicationLink string   `json:"application_link,omitempty"`
	LastUpdated     string   `json:"last_updated"`
	Message         string   `json:"message,omitempty"`
}

// Country is an entry of GET /countries.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Alert is the wire form of domain.ScheduledAlert.
type Alert struct {
	ID          openapi_types.UUID `json:"id"`
	TripID      openapi_types.UUID `json:"trip_id"`
	UserID      openapi_types.UUID `json:"user_id"`
	OffsetDays  int                `json:"offset_days"`
	TriggerAt   time.Time          `json:"trigger_at"`
	Title       string             `json:"title"`
	Body        string             `json:"body"`
	DeliveredAt *time.Time         `json:"delivered_at,omitempty"`
}

// RegisterAlertsRequest is the body of POST /alerts.
type RegisterAlertsRequest struct {
	Alerts []Alert `json:"alerts"`
}
