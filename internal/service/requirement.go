package service

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/visaflow/internal/domain"
)

//go:embed data/visa_requirements.yaml
var requirementsYAML []byte

// requirementEntry mirrors one entry of data/visa_requirements.yaml.
type requirementEntry struct {
	Verdict         string   `yaml:"verdict"`
	PermittedDays   *int     `yaml:"permitted_days"`
	CostUSD         *float64 `yaml:"cost_usd"`
	ProcessingDays  string   `yaml:"processing_days"`
	ApplicationLink string   `yaml:"application_link"`
	Conditions      []string `yaml:"conditions"`
	LastUpdated     string   `yaml:"last_updated"`
}

type requirementTable struct {
	Countries    []domain.Country            `yaml:"countries"`
	Requirements map[string]requirementEntry `yaml:"requirements"`
}

// unknownMessage is returned for pairs the table does not cover.
const unknownMessage = "Visa requirements not found in our database. Please check with the embassy."

// RequirementService answers visa requirement lookups from the embedded
// reference table and serves the country list.
type RequirementService struct {
	table requirementTable
	now   func() time.Time
}

// NewRequirementService parses the embedded table. now stamps LastUpdated on
// answers for unknown pairs; pass nil for time.Now.
func NewRequirementService(now func() time.Time) (*RequirementService, error) {
	return newRequirementService(requirementsYAML, now)
}

func newRequirementService(raw []byte, now func() time.Time) (*RequirementService, error) {
	var table requirementTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("service.NewRequirementService: parse table: %w", err)
	}
	for key, e := range table.Requirements {
		if e.Verdict == "" {
			return nil, fmt.Errorf("service.NewRequirementService: %s: verdict is required", key)
		}
	}
	if now == nil {
		now = time.Now
	}
	return &RequirementService{table: table, now: now}, nil
}

// Countries returns the country reference list in table order.
func (s *RequirementService) Countries() []domain.Country {
	out := make([]domain.Country, len(s.table.Countries))
	copy(out, s.table.Countries)
	return out
}

// Check looks up what a national of check.NationalityCode needs to enter
// check.DestinationCode. An uncovered pair is not an error: it yields
// Found=false with verdict unknown.
func (s *RequirementService) Check(check domain.RequirementCheck) (domain.VisaRequirement, error) {
	nationality := strings.ToUpper(strings.TrimSpace(check.NationalityCode))
	destination := strings.ToUpper(strings.TrimSpace(check.DestinationCode))
	if nationality == "" || destination == "" {
		return domain.VisaRequirement{}, fmt.Errorf("%w: nationality_code and destination_code are required", domain.ErrValidation)
	}
	switch check.Purpose {
	case "", domain.PurposeTourism, domain.PurposeBusiness, domain.PurposeTransit:
	default:
		return domain.VisaRequirement{}, fmt.Errorf("%w: unknown travel_purpose %q", domain.ErrValidation, check.Purpose)
	}

	e, ok := s.table.Requirements[nationality+"-"+destination]
	if !ok {
		return domain.VisaRequirement{
			NationalityCode: nationality,
			DestinationCode: destination,
			Found:           false,
			Verdict:         domain.VerdictUnknown,
			Message:         unknownMessage,
			LastUpdated:     s.now().UTC().Format(time.DateOnly),
		}, nil
	}

	return domain.VisaRequirement{
		NationalityCode: nationality,
		DestinationCode: destination,
		Found:           true,
		Verdict:         domain.Verdict(e.Verdict),
		PermittedDays:   e.PermittedDays,
		CostUSD:         e.CostUSD,
		ProcessingDays:  e.ProcessingDays,
		Conditions:      append([]string(nil), e.Conditions...),
		ApplicationLink: e.ApplicationLink,
		LastUpdated:     e.LastUpdated,
	}, nil
}
