package models

import (
	"strings"
	"time"

	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
)

// MaxRounds is the number of treatments after which an application is closed
// to evaluation whatever its status.
const MaxRounds = 3

const maxObservationsLength = 4000

// Decision is the binary outcome derived from a treatment's judgements.
type Decision string

const (
	DecisionRetain Decision = "retain"
	DecisionReject Decision = "reject"
)

func (d Decision) String() string { return string(d) }

// DeriveDecision retains only when all five documents are conforming.
func DeriveDecision(c Conformity) Decision {
	if c.AllConforming() {
		return DecisionRetain
	}
	return DecisionReject
}

// Treatment is one evaluator's review of an application. Immutable once created.
type Treatment struct {
	ID            id.TreatmentID   `json:"id"`
	ApplicationID id.ApplicationID `json:"application_id"`
	EvaluatorID   id.UserID        `json:"evaluator_id"`
	Round         int              `json:"round"`
	Conformity    Conformity       `json:"conformity"`
	Observations  string           `json:"observations"`
	Decision      Decision         `json:"decision"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewTreatment validates the judgements and derives the decision.
func NewTreatment(
	treatmentID id.TreatmentID,
	applicationID id.ApplicationID,
	evaluatorID id.UserID,
	round int,
	conformity Conformity,
	observations string,
	now time.Time,
) (*Treatment, error) {
	if round < 1 || round > MaxRounds {
		return nil, dErrors.New(dErrors.CodeRoundExhausted, "evaluation rounds are exhausted")
	}
	if evaluatorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "evaluator is required")
	}
	if err := conformity.Validate(); err != nil {
		return nil, err
	}
	observations = strings.TrimSpace(observations)
	if len(observations) > maxObservationsLength {
		return nil, dErrors.New(dErrors.CodeValidation, "observations are too long")
	}
	return &Treatment{
		ID:            treatmentID,
		ApplicationID: applicationID,
		EvaluatorID:   evaluatorID,
		Round:         round,
		Conformity:    conformity,
		Observations:  observations,
		Decision:      DeriveDecision(conformity),
		CreatedAt:     now,
	}, nil
}

// Decisions extracts the decisions of treatments in round order.
func Decisions(treatments []*Treatment) []Decision {
	out := make([]Decision, len(treatments))
	for i, t := range treatments {
		out[i] = t.Decision
	}
	return out
}
