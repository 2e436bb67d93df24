package handler

import (
	"strconv"
	"time"

	"github.com/Joenyengs/backend/internal/evaluation/models"
)

type ApplicationResponse struct {
	ID                 string           `json:"id"`
	Reference          string           `json:"reference"`
	CandidateID        string           `json:"candidate_id"`
	Status             string           `json:"status"`
	AdminComment       string           `json:"admin_comment,omitempty"`
	BirthDate          string           `json:"birth_date,omitempty"`
	EducationLevel     string           `json:"education_level"`
	Nationality        string           `json:"nationality"`
	OriginRegion       string           `json:"origin_region"`
	Documents          models.Documents `json:"documents"`
	EligibilityReasons []string         `json:"eligibility_reasons,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func FromApplication(app *models.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:                 app.ID.String(),
		Reference:          app.Reference,
		CandidateID:        app.CandidateID.String(),
		Status:             app.Status.String(),
		AdminComment:       app.AdminComment,
		EducationLevel:     app.Profile.EducationLevel,
		Nationality:        app.Profile.Nationality,
		OriginRegion:       app.Profile.OriginRegion,
		Documents:          app.Documents,
		EligibilityReasons: app.EligibilityReasons,
		CreatedAt:          app.CreatedAt,
		UpdatedAt:          app.UpdatedAt,
	}
	if app.Profile.BirthDate != nil {
		resp.BirthDate = app.Profile.BirthDate.Format(birthDateLayout)
	}
	return resp
}

type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Total        int                   `json:"total"`
}

func FromApplications(apps []*models.Application) ApplicationListResponse {
	out := make([]ApplicationResponse, len(apps))
	for i, app := range apps {
		out[i] = FromApplication(app)
	}
	return ApplicationListResponse{Applications: out, Total: len(out)}
}

type TreatmentResponse struct {
	ID            string            `json:"id"`
	ApplicationID string            `json:"application_id"`
	EvaluatorID   string            `json:"evaluator_id"`
	Round         int               `json:"round"`
	Conformity    models.Conformity `json:"conformity"`
	Observations  string            `json:"observations,omitempty"`
	Decision      string            `json:"decision"`
	CreatedAt     time.Time         `json:"created_at"`
}

func FromTreatment(t *models.Treatment) TreatmentResponse {
	return TreatmentResponse{
		ID:            t.ID.String(),
		ApplicationID: t.ApplicationID.String(),
		EvaluatorID:   t.EvaluatorID.String(),
		Round:         t.Round,
		Conformity:    t.Conformity,
		Observations:  t.Observations,
		Decision:      t.Decision.String(),
		CreatedAt:     t.CreatedAt,
	}
}

// RecordTreatmentResponse reports the treatment and the status it led to.
type RecordTreatmentResponse struct {
	Treatment TreatmentResponse `json:"treatment"`
	Status    string            `json:"application_status"`
}

type TreatmentListResponse struct {
	Treatments []TreatmentResponse `json:"treatments"`
	Total      int                 `json:"total"`
}

func FromTreatments(treatments []*models.Treatment) TreatmentListResponse {
	out := make([]TreatmentResponse, len(treatments))
	for i, t := range treatments {
		out[i] = FromTreatment(t)
	}
	return TreatmentListResponse{Treatments: out, Total: len(out)}
}

type AppealResponse struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	CandidateID   string     `json:"candidate_id"`
	Motive        string     `json:"motive"`
	Justification string     `json:"justification"`
	Document      string     `json:"document,omitempty"`
	Resolved      bool       `json:"resolved"`
	Outcome       string     `json:"outcome,omitempty"`
	AdminComment  string     `json:"admin_comment,omitempty"`
	ResolvedBy    string     `json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromAppeal(a *models.Appeal) AppealResponse {
	resp := AppealResponse{
		ID:            a.ID.String(),
		ApplicationID: a.ApplicationID.String(),
		CandidateID:   a.CandidateID.String(),
		Motive:        a.Motive,
		Justification: a.Justification,
		Document:      a.Document,
		Resolved:      a.Resolved,
		Outcome:       string(a.Outcome),
		AdminComment:  a.AdminComment,
		ResolvedAt:    a.ResolvedAt,
		CreatedAt:     a.CreatedAt,
	}
	if a.ResolvedBy != nil {
		resp.ResolvedBy = a.ResolvedBy.String()
	}
	return resp
}

type AppealListResponse struct {
	Appeals []AppealResponse `json:"appeals"`
	Total   int              `json:"total"`
}

func FromAppeals(appeals []*models.Appeal) AppealListResponse {
	out := make([]AppealResponse, len(appeals))
	for i, a := range appeals {
		out[i] = FromAppeal(a)
	}
	return AppealListResponse{Appeals: out, Total: len(out)}
}

type AppealActionResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AppealActionListResponse struct {
	Actions []AppealActionResponse `json:"actions"`
}

func FromAppealActions(actions []*models.AppealAction) AppealActionListResponse {
	out := make([]AppealActionResponse, len(actions))
	for i, a := range actions {
		out[i] = AppealActionResponse{
			ID:        a.ID.String(),
			ActorID:   a.ActorID.String(),
			Action:    string(a.Action),
			Comment:   a.Comment,
			CreatedAt: a.CreatedAt,
		}
	}
	return AppealActionListResponse{Actions: out}
}

// SummaryResponse counts applications per status.
type SummaryResponse struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

func FromSummary(summary map[models.Status]int) SummaryResponse {
	resp := SummaryResponse{Counts: make(map[string]int, len(summary))}
	for st, n := range summary {
		resp.Counts[st.String()] = n
		resp.Total += n
	}
	return resp
}

type TreatedApplicationResponse struct {
	ApplicationID string   `json:"application_id"`
	Reference     string   `json:"reference"`
	Status        string   `json:"status"`
	EvaluatorIDs  []string `json:"evaluator_ids"`
}

// RoundSummaryResponse keys the groups by treatment count ("1", "2", "3").
type RoundSummaryResponse struct {
	Rounds map[string][]TreatedApplicationResponse `json:"rounds"`
}

func FromRoundSummary(summary *models.RoundSummary) RoundSummaryResponse {
	resp := RoundSummaryResponse{Rounds: make(map[string][]TreatedApplicationResponse, len(summary.ByTreatments))}
	for n, apps := range summary.ByTreatments {
		out := make([]TreatedApplicationResponse, len(apps))
		for i, app := range apps {
			evaluators := make([]string, len(app.EvaluatorIDs))
			for j, e := range app.EvaluatorIDs {
				evaluators[j] = e.String()
			}
			out[i] = TreatedApplicationResponse{
				ApplicationID: app.ApplicationID.String(),
				Reference:     app.Reference,
				Status:        app.Status.String(),
				EvaluatorIDs:  evaluators,
			}
		}
		resp.Rounds[strconv.Itoa(n)] = out
	}
	return resp
}

type ExclusionSummaryResponse struct {
	Excluded      int            `json:"excluded"`
	ByReason      map[string]int `json:"by_reason"`
	ByNationality map[string]int `json:"by_nationality"`
	Untreated     int            `json:"untreated"`
	AgeBrackets   map[string]int `json:"age_brackets"`
	UnknownAge    int            `json:"unknown_age"`
}

func FromExclusionSummary(summary *models.ExclusionSummary) ExclusionSummaryResponse {
	return ExclusionSummaryResponse{
		Excluded:      summary.Excluded,
		ByReason:      summary.ByReason,
		ByNationality: summary.ByNationality,
		Untreated:     summary.Untreated,
		AgeBrackets:   summary.AgeBrackets,
		UnknownAge:    summary.UnknownAge,
	}
}
