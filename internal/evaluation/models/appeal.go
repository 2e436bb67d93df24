package models

import (
	"strings"
	"time"
	"unicode/utf8"

	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
)

// Appeal text limits, in characters. The HTTP layer checks the same values.
const (
	MaxMotiveLength        = 500
	MaxJustificationLength = 5000
	MaxDocumentLength      = 1024
	MaxCommentLength       = 4000
)

// AppealOutcome records what the resolving admin decided.
type AppealOutcome string

const (
	AppealUpheld     AppealOutcome = "upheld"
	AppealOverturned AppealOutcome = "overturned"
)

// Appeal is the single contestation a candidate may file after rejection.
// Pending until an admin resolves it exactly once; immutable afterwards.
type Appeal struct {
	ID            id.AppealID      `json:"id"`
	ApplicationID id.ApplicationID `json:"application_id"`
	CandidateID   id.UserID        `json:"candidate_id"`
	Motive        string           `json:"motive"`
	Justification string           `json:"justification"`
	Document      string           `json:"document,omitempty"`
	Resolved      bool             `json:"resolved"`
	ResolvedAt    *time.Time       `json:"resolved_at,omitempty"`
	ResolvedBy    *id.UserID       `json:"resolved_by,omitempty"`
	AdminComment  string           `json:"admin_comment,omitempty"`
	Outcome       AppealOutcome    `json:"outcome,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewAppeal validates the candidate's submission.
func NewAppeal(
	appealID id.AppealID,
	applicationID id.ApplicationID,
	candidateID id.UserID,
	motive, justification, document string,
	now time.Time,
) (*Appeal, error) {
	motive = strings.TrimSpace(motive)
	justification = strings.TrimSpace(justification)
	document = strings.TrimSpace(document)
	if motive == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "motive is required")
	}
	if utf8.RuneCountInString(motive) > MaxMotiveLength {
		return nil, dErrors.New(dErrors.CodeValidation, "motive is too long")
	}
	if justification == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "justification is required")
	}
	if utf8.RuneCountInString(justification) > MaxJustificationLength {
		return nil, dErrors.New(dErrors.CodeValidation, "justification is too long")
	}
	if utf8.RuneCountInString(document) > MaxDocumentLength {
		return nil, dErrors.New(dErrors.CodeValidation, "document reference is too long")
	}
	return &Appeal{
		ID:            appealID,
		ApplicationID: applicationID,
		CandidateID:   candidateID,
		Motive:        motive,
		Justification: justification,
		Document:      document,
		CreatedAt:     now,
	}, nil
}

// CanResolve fails once the appeal has been resolved.
func (a *Appeal) CanResolve() error {
	if a.Resolved {
		return dErrors.New(dErrors.CodeAlreadyResolved, "appeal is already resolved")
	}
	return nil
}

// ApplyResolution closes the appeal. Call CanResolve first.
func (a *Appeal) ApplyResolution(adminID id.UserID, comment string, overturn bool, now time.Time) {
	a.Resolved = true
	a.ResolvedAt = &now
	a.ResolvedBy = &adminID
	a.AdminComment = strings.TrimSpace(comment)
	a.Outcome = AppealUpheld
	if overturn {
		a.Outcome = AppealOverturned
	}
}

// ValidateComment bounds an admin comment before resolution.
func ValidateComment(comment string) error {
	if utf8.RuneCountInString(strings.TrimSpace(comment)) > MaxCommentLength {
		return dErrors.New(dErrors.CodeValidation, "comment is too long")
	}
	return nil
}

// AppealActionLabel names a state-changing operation on an appeal.
type AppealActionLabel string

const (
	AppealActionFiled    AppealActionLabel = "filed"
	AppealActionResolved AppealActionLabel = "resolved"
)

// AppealAction is an append-only history entry.
type AppealAction struct {
	ID        id.AppealActionID `json:"id"`
	AppealID  id.AppealID       `json:"appeal_id"`
	ActorID   id.UserID         `json:"actor_id"`
	Action    AppealActionLabel `json:"action"`
	Comment   string            `json:"comment,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewAppealAction(appealID id.AppealID, actorID id.UserID, action AppealActionLabel, comment string, now time.Time) *AppealAction {
	return &AppealAction{
		ID:        id.NewAppealActionID(),
		AppealID:  appealID,
		ActorID:   actorID,
		Action:    action,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
	}
}
