package models

import (
	"strings"
	"time"

	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
)

// Status is the evaluation state of an application.
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusInReview   Status = "in_review"
	StatusInConflict Status = "in_conflict"
	StatusValidated  Status = "validated"
	StatusRejected   Status = "rejected"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusSubmitted, StatusInReview, StatusInConflict, StatusValidated, StatusRejected}

// OpenStatuses are the statuses of the admin work queue.
var OpenStatuses = []Status{StatusSubmitted, StatusInReview, StatusInConflict}

var allowedTransitions = map[Status][]Status{
	StatusSubmitted:  {StatusInReview, StatusRejected},
	StatusInReview:   {StatusValidated, StatusRejected, StatusInConflict},
	StatusInConflict: {StatusValidated, StatusRejected},
	// Only reachable through an overturning appeal resolution.
	StatusRejected: {StatusValidated},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid status: "+s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusInConflict, StatusValidated, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether evaluators are done with the application.
func (s Status) IsTerminal() bool {
	return s == StatusValidated || s == StatusRejected
}

// CanTransitionTo reports whether the workflow allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// Documents are opaque references to the uploaded supporting files.
type Documents struct {
	CV                 string `json:"cv"`
	CoverLetter        string `json:"cover_letter"`
	Diploma            string `json:"diploma"`
	FitnessCertificate string `json:"fitness_certificate"`
	IdentityDocument   string `json:"identity_document"`
}

// Validate requires all five references.
func (d *Documents) Validate() error {
	refs := []struct {
		kind DocumentKind
		ref  *string
	}{
		{DocumentCV, &d.CV},
		{DocumentCoverLetter, &d.CoverLetter},
		{DocumentDiploma, &d.Diploma},
		{DocumentFitnessCertificate, &d.FitnessCertificate},
		{DocumentIdentity, &d.IdentityDocument},
	}
	for _, r := range refs {
		*r.ref = strings.TrimSpace(*r.ref)
		if *r.ref == "" {
			return dErrors.New(dErrors.CodeValidation, string(r.kind)+" document is required")
		}
		if len(*r.ref) > 1024 {
			return dErrors.New(dErrors.CodeValidation, string(r.kind)+" document reference is too long")
		}
	}
	return nil
}

// CandidateProfile is the snapshot of candidate data the pre-filter and the
// reference number need. It is captured once, at submission.
type CandidateProfile struct {
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	EducationLevel string     `json:"education_level"`
	Nationality    string     `json:"nationality"`
	OriginRegion   string     `json:"origin_region"`
}

// Application is the aggregate root of the evaluation workflow.
//
// Invariants:
//   - one application per candidate
//   - Reference is assigned at creation and never changes
//   - Status only moves along allowedTransitions
//   - never deleted
type Application struct {
	ID                 id.ApplicationID `json:"id"`
	Reference          string           `json:"reference"`
	CandidateID        id.UserID        `json:"candidate_id"`
	Status             Status           `json:"status"`
	AdminComment       string           `json:"admin_comment"`
	Profile            CandidateProfile `json:"profile"`
	Documents          Documents        `json:"documents"`
	EligibilityReasons []string         `json:"eligibility_reasons,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// NewApplication builds a submitted application. Pass the pre-filter reasons
// when it auto-rejected the candidate; the application is then created
// directly in rejected.
func NewApplication(
	applicationID id.ApplicationID,
	reference string,
	candidateID id.UserID,
	profile CandidateProfile,
	documents Documents,
	rejectionReasons []string,
	now time.Time,
) (*Application, error) {
	if candidateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "candidate is required")
	}
	if reference == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reference is required")
	}
	if err := documents.Validate(); err != nil {
		return nil, err
	}
	app := &Application{
		ID:          applicationID,
		Reference:   reference,
		CandidateID: candidateID,
		Status:      StatusSubmitted,
		Profile:     profile,
		Documents:   documents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(rejectionReasons) > 0 {
		app.EligibilityReasons = rejectionReasons
		app.ApplyTransition(StatusRejected, now)
	}
	return app, nil
}

// AcceptsTreatments reports whether evaluators may still submit treatments.
func (a *Application) AcceptsTreatments() bool {
	return !a.Status.IsTerminal()
}

// CanTransitionTo checks a status change against the workflow.
// Use with ApplyTransition in Execute callbacks.
func (a *Application) CanTransitionTo(next Status) error {
	if a.Status == next {
		return nil
	}
	if !a.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"cannot move application from "+a.Status.String()+" to "+next.String())
	}
	return nil
}

// ApplyTransition sets the status. Call CanTransitionTo first.
func (a *Application) ApplyTransition(next Status, now time.Time) {
	if a.Status == next {
		return
	}
	a.Status = next
	a.UpdatedAt = now
}

// ApplyAdminComment replaces the reviewer note.
func (a *Application) ApplyAdminComment(comment string, now time.Time) {
	a.AdminComment = strings.TrimSpace(comment)
	a.UpdatedAt = now
}
