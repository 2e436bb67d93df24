// Package consensus turns the decisions recorded so far for an application
// into a round outcome. It is pure: callers load the decisions and apply the
// outcome inside their own exclusive scope.
package consensus

import (
	"github.com/Joenyengs/backend/internal/evaluation/models"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
)

// Outcome is the verdict of a round.
type Outcome string

const (
	// OutcomeContinue waits for another evaluator.
	OutcomeContinue Outcome = "continue"
	// OutcomeDiscordant means round 2 split and a third evaluator decides.
	OutcomeDiscordant Outcome = "discordant"
	OutcomeValidated  Outcome = "validated"
	OutcomeRejected   Outcome = "rejected"
)

// Result is the aggregate of one round.
type Result struct {
	Round   int
	Outcome Outcome
}

// IsFinal reports whether the outcome closes the evaluation.
func (r Result) IsFinal() bool {
	return r.Outcome == OutcomeValidated || r.Outcome == OutcomeRejected
}

// Status maps the outcome onto the application status it implies.
func (r Result) Status() models.Status {
	switch r.Outcome {
	case OutcomeValidated:
		return models.StatusValidated
	case OutcomeRejected:
		return models.StatusRejected
	case OutcomeDiscordant:
		return models.StatusInConflict
	default:
		return models.StatusInReview
	}
}

// Aggregate tallies decisions in round order. Round 1 never concludes, round 2
// needs unanimity and round 3 takes the strict majority.
func Aggregate(decisions []models.Decision) (Result, error) {
	round := len(decisions)
	if round == 0 || round > models.MaxRounds {
		return Result{}, dErrors.New(dErrors.CodeRoundExhausted, "no evaluation round matches the recorded treatments")
	}

	retained := 0
	for _, d := range decisions {
		if d == models.DecisionRetain {
			retained++
		}
	}
	rejected := round - retained

	switch round {
	case 1:
		return Result{Round: 1, Outcome: OutcomeContinue}, nil
	case 2:
		switch {
		case retained == 2:
			return Result{Round: 2, Outcome: OutcomeValidated}, nil
		case rejected == 2:
			return Result{Round: 2, Outcome: OutcomeRejected}, nil
		default:
			return Result{Round: 2, Outcome: OutcomeDiscordant}, nil
		}
	default:
		if retained > rejected {
			return Result{Round: 3, Outcome: OutcomeValidated}, nil
		}
		return Result{Round: 3, Outcome: OutcomeRejected}, nil
	}
}
