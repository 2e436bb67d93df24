// Package eligibility applies the automatic rejection rules checked once,
// when an application is submitted.
package eligibility

import (
	"time"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	"github.com/Joenyengs/backend/pkg/platform/strings"
)

// Reason names a rule that rejected the candidate.
type Reason string

const (
	ReasonAge         Reason = "age_out_of_range"
	ReasonEducation   Reason = "restricted_education"
	ReasonNationality Reason = "nationality_mismatch"
)

// Verdict is the pre-filter result.
type Verdict struct {
	Reject  bool
	Reasons []Reason
}

// ReasonStrings flattens the reasons for persistence.
func (v Verdict) ReasonStrings() []string {
	if len(v.Reasons) == 0 {
		return nil
	}
	out := make([]string, len(v.Reasons))
	for i, r := range v.Reasons {
		out[i] = string(r)
	}
	return out
}

// Prefilter evaluates profiles against a Policy.
type Prefilter struct {
	policy     Policy
	restricted map[string]struct{}
}

func NewPrefilter(policy Policy) *Prefilter {
	return &Prefilter{policy: policy, restricted: strings.Set(policy.RestrictedEducation)}
}

// Evaluate reports every rule the profile breaks. An unknown birth date does
// not trigger the age rule; an unknown nationality does not match.
func (p *Prefilter) Evaluate(profile models.CandidateProfile, now time.Time) Verdict {
	var v Verdict
	if profile.BirthDate != nil {
		age := AgeAt(*profile.BirthDate, now)
		if age <= p.policy.MinAge || age >= p.policy.MaxAge {
			v.Reasons = append(v.Reasons, ReasonAge)
		}
	}
	if _, ok := p.restricted[strings.Normalize(profile.EducationLevel)]; ok {
		v.Reasons = append(v.Reasons, ReasonEducation)
	}
	if !strings.EqualFold(profile.Nationality, p.policy.ReferenceNationality) {
		v.Reasons = append(v.Reasons, ReasonNationality)
	}
	v.Reject = len(v.Reasons) > 0
	return v
}

// AgeAt returns completed years between birth and now.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
