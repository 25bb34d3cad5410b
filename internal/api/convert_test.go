package api_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/visaflow/internal/api"
	"github.com/pkordes/visaflow/internal/domain"
)

// TestCreateTripFromDraft_DatesOnWire verifies that trip dates travel as
// plain calendar dates and that any time-of-day is dropped.
func TestCreateTripFromDraft_DatesOnWire(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	draft := domain.TripDraft{
		Country:     "Thailand",
		CountryCode: "TH",
		VisaType:    domain.VisaFree,
		EntryDate:   time.Date(2025, 6, 1, 18, 30, 0, 0, loc),
		ExitDate:    time.Date(2025, 6, 30, 0, 0, 0, 0, loc),
	}

	b, err := json.Marshal(api.CreateTripFromDraft(uuid.New(), draft))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "2025-06-01", raw["entry_date"])
	assert.Equal(t, "2025-06-30", raw["exit_date"])
	assert.Equal(t, "Visa-Free", raw["visa_type"])
}

func TestUpdateUserRequest_OmitsUnsetFields(t *testing.T) {
	enabled := false
	b, err := json.Marshal(api.UpdateUserFromPatch(domain.UserPatch{NotificationsEnabled: &enabled}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"notifications_enabled":false}`, string(b))
}

func TestRequirementFromDomain_NilConditionsEncodeAsEmptyList(t *testing.T) {
	b, err := json.Marshal(api.RequirementFromDomain(domain.VisaRequirement{Verdict: domain.VerdictUnknown}))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, []any{}, raw["conditions"])
}
