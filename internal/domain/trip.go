// Package domain contains the core data types for VisaFlow.
// This package has no dependencies beyond uuid and is imported by every
// other internal package (repo, service, handler, visa, session, client).
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VisaType is the kind of permission a traveller entered the country on.
type VisaType string

const (
	VisaFree      VisaType = "Visa-Free"
	TouristVisa   VisaType = "Tourist Visa"
	BusinessVisa  VisaType = "Business Visa"
	EVisa         VisaType = "eVisa"
	VisaOnArrival VisaType = "Visa on Arrival"
)

// VisaTypes lists every accepted VisaType in picker order.
var VisaTypes = []VisaType{VisaFree, TouristVisa, BusinessVisa, EVisa, VisaOnArrival}

// Valid reports whether v is one of VisaTypes.
func (v VisaType) Valid() bool {
	for _, known := range VisaTypes {
		if v == known {
			return true
		}
	}
	return false
}

// TripStatus is the lifecycle discriminator of a trip. Only TripActive is
// distinguished by the tracker; the others are informational.
type TripStatus string

const (
	TripActive    TripStatus = "active"
	TripUpcoming  TripStatus = "upcoming"
	TripExpired   TripStatus = "expired"
	TripCompleted TripStatus = "completed"
)

// Valid reports whether s is a known TripStatus.
func (s TripStatus) Valid() bool {
	switch s {
	case TripActive, TripUpcoming, TripExpired, TripCompleted:
		return true
	}
	return false
}

// Trip is a single stay in a destination country, bounded by the entry and
// exit dates of the visa it was made on. Trips are immutable once created;
// only Status changes afterwards (via completion).
type Trip struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Country             string
	CountryCode         string
	VisaType            VisaType
	EntryDate           time.Time
	ExitDate            time.Time
	ExtensionsAvailable int
	TotalDays           int // computed by the backend from the date window
	Status              TripStatus
	CreatedAt           time.Time
}

// TripDraft is the client-supplied part of a trip. The backend fills in
// ID, TotalDays, Status, and CreatedAt.
type TripDraft struct {
	Country             string
	CountryCode         string
	VisaType            VisaType
	EntryDate           time.Time
	ExitDate            time.Time
	ExtensionsAvailable int
}

// Validate enforces the rules a draft must satisfy before it is sent
// anywhere: a destination, a known visa type, and an exit date strictly
// after the entry date.
func (d TripDraft) Validate() error {
	if strings.TrimSpace(d.CountryCode) == "" {
		return fmt.Errorf("%w: country_code is required", ErrValidation)
	}
	if !d.VisaType.Valid() {
		return fmt.Errorf("%w: unknown visa_type %q", ErrValidation, d.VisaType)
	}
	if d.EntryDate.IsZero() || d.ExitDate.IsZero() {
		return fmt.Errorf("%w: entry_date and exit_date are required", ErrValidation)
	}
	if !d.ExitDate.After(d.EntryDate) {
		return fmt.Errorf("%w: exit_date must be after entry_date", ErrValidation)
	}
	if d.ExtensionsAvailable < 0 {
		return fmt.Errorf("%w: extensions_available must not be negative", ErrValidation)
	}
	return nil
}

// TotalDays returns the number of calendar days between entry and exit.
func (d TripDraft) TotalDays() int {
	return int(Date(d.ExitDate).Sub(Date(d.EntryDate)).Hours() / 24)
}

// Date truncates t to midnight UTC of its calendar day. Trip dates are
// calendar dates; this is their canonical form on the wire and in storage.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
