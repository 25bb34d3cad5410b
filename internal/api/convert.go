package api

import (
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/visaflow/internal/domain"
)

// UserFromDomain converts a domain.User for the wire.
func UserFromDomain(u domain.User) User {
	return User{
		ID:                   u.ID,
		FirstName:            u.FirstName,
		Nationality:          u.Nationality,
		NationalityCode:      u.NationalityCode,
		NotificationsEnabled: u.NotificationsEnabled,
		OnboardingCompleted:  u.OnboardingCompleted,
		TrialStart:           u.TrialStart,
		SubscriptionStatus:   string(u.SubscriptionStatus),
		CreatedAt:            u.CreatedAt,
	}
}

// Domain converts the wire user back to a domain.User.
func (u User) Domain() domain.User {
	return domain.User{
		ID:                   u.ID,
		FirstName:            u.FirstName,
		Nationality:          u.Nationality,
		NationalityCode:      u.NationalityCode,
		NotificationsEnabled: u.NotificationsEnabled,
		OnboardingCompleted:  u.OnboardingCompleted,
		TrialStart:           u.TrialStart,
		SubscriptionStatus:   domain.SubscriptionStatus(u.SubscriptionStatus),
		CreatedAt:            u.CreatedAt,
	}
}

// UpdateUserFromPatch converts a domain.UserPatch into a request body.
func UpdateUserFromPatch(p domain.UserPatch) UpdateUserRequest {
	req := UpdateUserRequest{
		FirstName:            p.FirstName,
		Nationality:          p.Nationality,
		NationalityCode:      p.NationalityCode,
		NotificationsEnabled: p.NotificationsEnabled,
		OnboardingCompleted:  p.OnboardingCompleted,
	}
	if p.SubscriptionStatus != nil {
		s := string(*p.SubscriptionStatus)
		req.SubscriptionStatus = &s
	}
	return req
}

// Patch converts the request body into a domain.UserPatch.
func (r UpdateUserRequest) Patch() domain.UserPatch {
	p := domain.UserPatch{
		FirstName:            r.FirstName,
		Nationality:          r.Nationality,
		NationalityCode:      r.NationalityCode,
		NotificationsEnabled: r.NotificationsEnabled,
		OnboardingCompleted:  r.OnboardingCompleted,
	}
	if r.SubscriptionStatus != nil {
		s := domain.SubscriptionStatus(*r.SubscriptionStatus)
		p.SubscriptionStatus = &s
	}
	return p
}

// CreateTripFromDraft builds a POST /trips body for userID.
func CreateTripFromDraft(userID uuid.UUID, d domain.TripDraft) CreateTripRequest {
	return CreateTripRequest{
		UserID:              userID,
		Country:             d.Country,
		CountryCode:         d.CountryCode,
		VisaType:            string(d.VisaType),
		EntryDate:           openapi_types.Date{Time: domain.Date(d.EntryDate)},
		ExitDate:            openapi_types.Date{Time: domain.Date(d.ExitDate)},
		ExtensionsAvailable: d.ExtensionsAvailable,
	}
}

// Draft splits the request body into the owning user and the trip draft.
func (r CreateTripRequest) Draft() (uuid.UUID, domain.TripDraft) {
	return r.UserID, domain.TripDraft{
		Country:             r.Country,
		CountryCode:         r.CountryCode,
		VisaType:            domain.VisaType(r.VisaType),
		EntryDate:           r.EntryDate.Time,
		ExitDate:            r.ExitDate.Time,
		ExtensionsAvailable: r.ExtensionsAvailable,
	}
}

// TripFromDomain converts a domain.Trip for the wire.
func TripFromDomain(t domain.Trip) Trip {
	return Trip{
		ID:                  t.ID,
		UserID:              t.UserID,
		Country:             t.Country,
		CountryCode:         t.CountryCode,
		VisaType:            string(t.VisaType),
		EntryDate:           openapi_types.Date{Time: t.EntryDate},
		ExitDate:            openapi_types.Date{Time: t.ExitDate},
		TotalDays:           t.TotalDays,
		ExtensionsAvailable: t.ExtensionsAvailable,
		Status:              string(t.Status),
		CreatedAt:           t.CreatedAt,
	}
}

// TripsFromDomain converts a slice, always returning a non-nil result so it
// encodes as [] rather than null.
func TripsFromDomain(trips []domain.Trip) []Trip {
	out := make([]Trip, len(trips))
	for i, t := range trips {
		out[i] = TripFromDomain(t)
	}
	return out
}

// Domain converts the wire trip back to a domain.Trip.
func (t Trip) Domain() domain.Trip {
	return domain.Trip{
		ID:                  t.ID,
		UserID:              t.UserID,
		Country:             t.Country,
		CountryCode:         t.CountryCode,
		VisaType:            domain.VisaType(t.VisaType),
		EntryDate:           t.EntryDate.Time,
		ExitDate:            t.ExitDate.Time,
		TotalDays:           t.TotalDays,
		ExtensionsAvailable: t.ExtensionsAvailable,
		Status:              domain.TripStatus(t.Status),
		CreatedAt:           t.CreatedAt,
	}
}

// CheckRequirementsFromDomain builds a POST /check-requirements body.
func CheckRequirementsFromDomain(c domain.RequirementCheck) CheckRequirementsRequest {
	return CheckRequirementsRequest{
		NationalityCode: c.NationalityCode,
		DestinationCode: c.DestinationCode,
		TravelPurpose:   string(c.Purpose),
	}
}

// Domain converts the request body into a domain.RequirementCheck.
func (r CheckRequirementsRequest) Domain() domain.RequirementCheck {
	return domain.RequirementCheck{
		NationalityCode: r.NationalityCode,
		DestinationCode: r.DestinationCode,
		Purpose:         domain.TravelPurpose(r.TravelPurpose),
	}
}

// RequirementFromDomain converts a lookup result for the wire.
func RequirementFromDomain(v domain.VisaRequirement) VisaRequirement {
	conditions := v.Conditions
	if conditions == nil {
		conditions = []string{}
	}
	return VisaRequirement{
		Found:           v.Found,
		NationalityCode: v.NationalityCode,
		DestinationCode: v.DestinationCode,
		Verdict:         string(v.Verdict),
		PermittedDays:   v.PermittedDays,
		CostUSD:         v.CostUSD,
		ProcessingDays:  v.ProcessingDays,
		Conditions:      conditions,
		ApplicationLink: v.ApplicationLink,
		LastUpdated:     v.LastUpdated,
		Message:         v.Message,
	}
}

// Domain converts the wire result back to a domain.VisaRequirement.
func (v VisaRequirement) Domain() domain.VisaRequirement {
	return domain.VisaRequirement{
		NationalityCode: v.NationalityCode,
		DestinationCode: v.DestinationCode,
		Found:           v.Found,
		Verdict:         domain.Verdict(v.Verdict),
		PermittedDays:   v.PermittedDays,
		CostUSD:         v.CostUSD,
		ProcessingDays:  v.ProcessingDays,
		Conditions:      v.Conditions,
		ApplicationLink: v.ApplicationLink,
		LastUpdated:     v.LastUpdated,
		Message:         v.Message,
	}
}

// CountriesFromDomain converts the reference list for the wire.
func CountriesFromDomain(cs []domain.Country) []Country {
	out := make([]Country, len(cs))
	for i, c := range cs {
		out[i] = Country{Code: c.Code, Name: c.Name}
	}
	return out
}

// AlertFromDomain converts a scheduled alert for the wire.
func AlertFromDomain(a domain.ScheduledAlert) Alert {
	return Alert{
		ID:          a.ID,
		TripID:      a.TripID,
		UserID:      a.UserID,
		OffsetDays:  a.OffsetDays,
		TriggerAt:   a.TriggerAt,
		Title:       a.Title,
		Body:        a.Body,
		DeliveredAt: a.DeliveredAt,
	}
}

// AlertsFromDomain converts a slice, always returning a non-nil result.
func AlertsFromDomain(alerts []domain.ScheduledAlert) []Alert {
	out := make([]Alert, len(alerts))
	for i, a := range alerts {
		out[i] = AlertFromDomain(a)
	}
	return out
}

// Domain converts the wire alert back to a domain.ScheduledAlert.
func (a Alert) Domain() domain.ScheduledAlert {
	return domain.ScheduledAlert{
		ID:          a.ID,
		TripID:      a.TripID,
		UserID:      a.UserID,
		OffsetDays:  a.OffsetDays,
		TriggerAt:   a.TriggerAt,
		Title:       a.Title,
		Body:        a.Body,
		DeliveredAt: a.DeliveredAt,
	}
}
