package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
)

var now = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func allConforming() Conformity {
	return Conformity{
		CV:                 JudgementConforming,
		CoverLetter:        JudgementConforming,
		Diploma:            JudgementConforming,
		FitnessCertificate: JudgementConforming,
		IdentityDocument:   JudgementConforming,
	}
}

func validDocuments() Documents {
	return Documents{
		CV:                 "files/cv.pdf",
		CoverLetter:        "files/letter.pdf",
		Diploma:            "files/diploma.pdf",
		FitnessCertificate: "files/fitness.pdf",
		IdentityDocument:   "files/id.pdf",
	}
}

func TestParseJudgement(t *testing.T) {
	tests := []struct {
		in      string
		want    Judgement
		wantErr bool
	}{
		{in: "conforming", want: JudgementConforming},
		{in: " FALSIFIED ", want: JudgementFalsified},
		{in: "other", want: JudgementOther},
		{in: "", want: JudgementNonConforming},
		{in: "maybe", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJudgement(tt.in)
			if tt.wantErr {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConformity(t *testing.T) {
	t.Run("unmarked documents become non-conforming", func(t *testing.T) {
		c := Conformity{CV: JudgementConforming}
		require.NoError(t, c.Validate())
		assert.Equal(t, JudgementNonConforming, c.Diploma)
	})

	t.Run("unknown judgement is rejected", func(t *testing.T) {
		c := allConforming()
		c.Diploma = "forged"
		err := c.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("parse from raw map names the failing document", func(t *testing.T) {
		_, err := ParseConformity(map[DocumentKind]string{DocumentIdentity: "bogus"})
		require.Error(t, err)
		assert.Contains(t, dErrors.MessageOf(err), "identity_document")
	})
}

func TestDeriveDecision(t *testing.T) {
	assert.Equal(t, DecisionRetain, DeriveDecision(allConforming()))

	for _, j := range []Judgement{JudgementNonConforming, JudgementFalsified, JudgementOther} {
		c := allConforming()
		c.FitnessCertificate = j
		assert.Equal(t, DecisionReject, DeriveDecision(c), "judgement %s must reject", j)
	}
}

func TestNewTreatment(t *testing.T) {
	appID := id.NewApplicationID()
	evaluator := id.UserID(uuid.New())

	t.Run("derives decision at creation", func(t *testing.T) {
		tr, err := NewTreatment(id.NewTreatmentID(), appID, evaluator, 1, allConforming(), "  ok  ", now)
		require.NoError(t, err)
		assert.Equal(t, DecisionRetain, tr.Decision)
		assert.Equal(t, "ok", tr.Observations)
	})

	t.Run("fourth round is exhausted", func(t *testing.T) {
		_, err := NewTreatment(id.NewTreatmentID(), appID, evaluator, 4, allConforming(), "", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRoundExhausted))
	})
}

func TestStatusTransitions(t *testing.T) {
	allowed := map[Status][]Status{
		StatusSubmitted:  {StatusInReview, StatusRejected},
		StatusInReview:   {StatusValidated, StatusRejected, StatusInConflict},
		StatusInConflict: {StatusValidated, StatusRejected},
		StatusRejected:   {StatusValidated},
		StatusValidated:  {},
	}
	for from, targets := range allowed {
		for _, to := range Statuses {
			want := false
			for _, target := range targets {
				if target == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestNewApplication(t *testing.T) {
	candidate := id.UserID(uuid.New())

	t.Run("starts submitted", func(t *testing.T) {
		app, err := NewApplication(id.NewApplicationID(), "ENA2025KIX00001", candidate, CandidateProfile{}, validDocuments(), nil, now)
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, app.Status)
		assert.True(t, app.AcceptsTreatments())
	})

	t.Run("pre-filter rejection starts rejected", func(t *testing.T) {
		app, err := NewApplication(id.NewApplicationID(), "ENA2025KIX00002", candidate, CandidateProfile{}, validDocuments(), []string{"age_out_of_range"}, now)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, app.Status)
		assert.False(t, app.AcceptsTreatments())
		assert.Equal(t, []string{"age_out_of_range"}, app.EligibilityReasons)
	})

	t.Run("requires every document", func(t *testing.T) {
		docs := validDocuments()
		docs.Diploma = " "
		_, err := NewApplication(id.NewApplicationID(), "ENA2025KIX00003", candidate, CandidateProfile{}, docs, nil, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects illegal transition", func(t *testing.T) {
		app, err := NewApplication(id.NewApplicationID(), "ENA2025KIX00004", candidate, CandidateProfile{}, validDocuments(), nil, now)
		require.NoError(t, err)
		err = app.CanTransitionTo(StatusValidated)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestAppealResolution(t *testing.T) {
	appeal, err := NewAppeal(id.NewAppealID(), id.NewApplicationID(), id.UserID(uuid.New()), "unfair", "my diploma is valid", "", now)
	require.NoError(t, err)
	require.NoError(t, appeal.CanResolve())

	admin := id.UserID(uuid.New())
	appeal.ApplyResolution(admin, " reviewed ", true, now)
	assert.True(t, appeal.Resolved)
	assert.Equal(t, AppealOverturned, appeal.Outcome)
	assert.Equal(t, admin, *appeal.ResolvedBy)
	assert.Equal(t, "reviewed", appeal.AdminComment)

	err = appeal.CanResolve()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyResolved))
}

func TestNewAppeal_Validation(t *testing.T) {
	_, err := NewAppeal(id.NewAppealID(), id.NewApplicationID(), id.UserID(uuid.New()), "", "text", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewAppeal(id.NewAppealID(), id.NewApplicationID(), id.UserID(uuid.New()), "motive", "  ", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNewAppeal_LimitsCountCharacters(t *testing.T) {
	tests := []struct {
		name          string
		motive        string
		justification string
		document      string
		ok            bool
	}{
		{"motive at limit in multibyte text", strings.Repeat("é", MaxMotiveLength), "j", "", true},
		{"motive over limit", strings.Repeat("m", MaxMotiveLength+1), "j", "", false},
		{"justification at limit", "m", strings.Repeat("ü", MaxJustificationLength), "", true},
		{"justification over limit", "m", strings.Repeat("j", MaxJustificationLength+1), "", false},
		{"document over limit", "m", "j", strings.Repeat("d", MaxDocumentLength+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAppeal(id.NewAppealID(), id.NewApplicationID(), id.UserID(uuid.New()), tt.motive, tt.justification, tt.document, now)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestReference(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		region string
		seq    int64
		want   string
	}{
		{name: "three words", year: 2025, region: "Kongo Central Ouest", seq: 1, want: "ENA2025KCO00001"},
		{name: "single word padded", year: 2025, region: "kinshasa", seq: 42, want: "ENA2025KXX00042"},
		{name: "more than three words truncated", year: 2024, region: "haut uele nord est", seq: 7, want: "ENA2024HUN00007"},
		{name: "unknown region", year: 2025, region: "", seq: 3, want: "ENA2025XXX00003"},
		{name: "year floored", year: 2001, region: "Kasai", seq: 1, want: "ENA2013KXX00001"},
		{name: "hyphenated name is one word", year: 2025, region: "Sud-Kivu", seq: 12345, want: "ENA2025SXX12345"},
		{name: "extra whitespace", year: 2025, region: "  Nord \t Kivu ", seq: 2, want: "ENA2025NKX00002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReference(ReferenceScope(tt.year, tt.region), tt.seq))
		})
	}
}

func TestAgeBracket(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{age: 18, want: AgeUnder25},
		{age: 24, want: AgeUnder25},
		{age: 25, want: Age25To30},
		{age: 30, want: Age25To30},
		{age: 31, want: Age31To35},
		{age: 35, want: Age31To35},
		{age: 36, want: AgeOver35},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeBracket(tt.age), "age %d", tt.age)
	}
}

func TestRoundSummary_Add(t *testing.T) {
	summary := NewRoundSummary()
	evaluator := id.UserID(uuid.New())

	summary.Add(TreatedApplication{ApplicationID: id.NewApplicationID(), EvaluatorIDs: []id.UserID{evaluator}})
	summary.Add(TreatedApplication{ApplicationID: id.NewApplicationID()})
	summary.Add(TreatedApplication{ApplicationID: id.NewApplicationID(), EvaluatorIDs: make([]id.UserID, MaxRounds+1)})

	assert.Len(t, summary.ByTreatments, MaxRounds)
	assert.Len(t, summary.ByTreatments[1], 1)
	assert.Empty(t, summary.ByTreatments[2])
	assert.Empty(t, summary.ByTreatments[3])
}
