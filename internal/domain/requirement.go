package domain

// Verdict summarises what a traveller needs to enter a destination.
type Verdict string

const (
	VerdictVisaFree      Verdict = "visa_free"
	VerdictEVisa         Verdict = "evisa"
	VerdictVisaOnArrival Verdict = "visa_on_arrival"
	VerdictEmbassyVisa   Verdict = "embassy_visa"
	VerdictUnknown       Verdict = "unknown"
)

// TravelPurpose qualifies a requirement check. Only tourism is populated in
// the lookup table today; other purposes fall back to it.
type TravelPurpose string

const (
	PurposeTourism  TravelPurpose = "tourism"
	PurposeBusiness TravelPurpose = "business"
	PurposeTransit  TravelPurpose = "transit"
)

// RequirementCheck is the input to a visa requirement lookup.
type RequirementCheck struct {
	NationalityCode string
	DestinationCode string
	Purpose         TravelPurpose
}

// VisaRequirement is the result of a lookup. It is never persisted; a user
// may turn it into a Trip explicitly.
type VisaRequirement struct {
	NationalityCode string
	DestinationCode string
	Found           bool
	Verdict         Verdict
	PermittedDays   *int
	CostUSD         *float64
	ProcessingDays  string // a range such as "1-3"
	Conditions      []string
	ApplicationLink string
	LastUpdated     string // "2006-01-02"
	Message         string // set when Found is false
}

// Country is an entry in the destination/nationality reference list.
type Country struct {
	Code string
	Name string
}
