package models

import (
	id "github.com/Joenyengs/backend/pkg/domain"
)

// TreatedApplication is one line of the round workload report.
type TreatedApplication struct {
	ApplicationID id.ApplicationID
	Reference     string
	Status        Status
	// EvaluatorIDs are ordered by round.
	EvaluatorIDs []id.UserID
}

// RoundSummary groups treated applications by how many treatments they
// received. ByTreatments has a key for every count from 1 to MaxRounds;
// untreated applications are left out.
type RoundSummary struct {
	ByTreatments map[int][]TreatedApplication
}

// NewRoundSummary returns a summary with an empty group per round.
func NewRoundSummary() *RoundSummary {
	groups := make(map[int][]TreatedApplication, MaxRounds)
	for n := 1; n <= MaxRounds; n++ {
		groups[n] = []TreatedApplication{}
	}
	return &RoundSummary{ByTreatments: groups}
}

// Add files app under its treatment count. Counts outside 1..MaxRounds are
// ignored.
func (r *RoundSummary) Add(app TreatedApplication) {
	n := len(app.EvaluatorIDs)
	if n < 1 || n > MaxRounds {
		return
	}
	r.ByTreatments[n] = append(r.ByTreatments[n], app)
}

// Age brackets of the exclusion report.
const (
	AgeUnder25 = "<25"
	Age25To30  = "25-30"
	Age31To35  = "31-35"
	AgeOver35  = ">35"
)

// AgeBrackets lists the brackets youngest first.
var AgeBrackets = []string{AgeUnder25, Age25To30, Age31To35, AgeOver35}

// AgeBracket places a completed age in its bracket.
func AgeBracket(age int) string {
	switch {
	case age < 25:
		return AgeUnder25
	case age <= 30:
		return Age25To30
	case age <= 35:
		return Age31To35
	default:
		return AgeOver35
	}
}

// ExclusionStats counts the applications the pre-filter rejected. One
// application can carry several reasons, so ByReason may sum past Excluded.
type ExclusionStats struct {
	Excluded int
	ByReason map[string]int
	// ByNationality breaks the nationality exclusions down by the declared
	// nationality. A blank nationality counts under "".
	ByNationality map[string]int
}

// ExclusionSummary adds the age profile of the applications no evaluator
// has treated yet, pre-filter exclusions included.
type ExclusionSummary struct {
	ExclusionStats
	Untreated   int
	AgeBrackets map[string]int
	// UnknownAge counts untreated applications without a birth date.
	UnknownAge int
}

// NewExclusionSummary returns a summary with every age bracket present.
func NewExclusionSummary(stats ExclusionStats) *ExclusionSummary {
	if stats.ByReason == nil {
		stats.ByReason = map[string]int{}
	}
	if stats.ByNationality == nil {
		stats.ByNationality = map[string]int{}
	}
	brackets := make(map[string]int, len(AgeBrackets))
	for _, b := range AgeBrackets {
		brackets[b] = 0
	}
	return &ExclusionSummary{ExclusionStats: stats, AgeBrackets: brackets}
}
