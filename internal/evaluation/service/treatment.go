package service

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Joenyengs/backend/internal/evaluation/consensus"
	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// RecordTreatmentRequest is one evaluator's review of an application.
type RecordTreatmentRequest struct {
	ApplicationID id.ApplicationID
	EvaluatorID   id.UserID
	Conformity    models.Conformity
	Observations  string
}

// RecordTreatment appends the evaluator's treatment, aggregates the round and
// applies the resulting status, all inside the application's exclusive scope.
//
// Checks run in this order: the application exists, the evaluator has not
// treated it yet, and it is still open to treatments.
func (s *Service) RecordTreatment(ctx context.Context, req RecordTreatmentRequest) (treatment *models.Treatment, err error) {
	ctx, span := s.startSpan(ctx, "record_treatment",
		attribute.String("application_id", req.ApplicationID.String()),
		attribute.String("evaluator_id", req.EvaluatorID.String()),
	)
	defer func() { s.finishSpan(span, "record_treatment", err) }()

	if err := requireApplicationID(req.ApplicationID); err != nil {
		return nil, err
	}
	if req.EvaluatorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "evaluator ID required")
	}
	if err := req.Conformity.Validate(); err != nil {
		return nil, err
	}

	var (
		app      *models.Application
		result   consensus.Result
		previous models.Status
	)
	err = s.runScoped(ctx, "record_treatment", applicationLockKey(req.ApplicationID.String()), func(txCtx context.Context) error {
		found, err := s.applications.FindByID(txCtx, req.ApplicationID)
		if err != nil {
			return wrapStoreErr(err, "application not found", "load application")
		}
		existing, err := s.treatments.ListByApplication(txCtx, req.ApplicationID)
		if err != nil {
			return wrapStoreErr(err, "application not found", "load treatments")
		}
		for _, t := range existing {
			if t.EvaluatorID == req.EvaluatorID {
				return dErrors.New(dErrors.CodeDuplicateEvaluation, "evaluator already treated this application")
			}
		}
		if !found.AcceptsTreatments() || len(existing) >= models.MaxRounds {
			return dErrors.New(dErrors.CodeRoundExhausted, "application is closed to further evaluation")
		}

		now := requestcontext.Now(txCtx)
		t, err := models.NewTreatment(
			id.NewTreatmentID(),
			req.ApplicationID,
			req.EvaluatorID,
			len(existing)+1,
			req.Conformity,
			req.Observations,
			now,
		)
		if err != nil {
			return err
		}

		res, err := consensus.Aggregate(append(models.Decisions(existing), t.Decision))
		if err != nil {
			return err
		}
		next := res.Status()
		if err := found.CanTransitionTo(next); err != nil {
			return err
		}

		prev := found.Status
		if err := s.emitAudit(txCtx, audit.Event{
			ActorID:  req.EvaluatorID,
			Subject:  req.ApplicationID.String(),
			Action:   string(audit.EventTreatmentRecorded),
			Decision: t.Decision.String(),
			Reason:   "round " + strconv.Itoa(t.Round),
		}); err != nil {
			return err
		}
		if prev != next {
			if err := s.emitAudit(txCtx, audit.Event{
				ActorID:  req.EvaluatorID,
				Subject:  req.ApplicationID.String(),
				Action:   string(audit.EventStatusChanged),
				Decision: next.String(),
				Reason:   string(res.Outcome),
			}); err != nil {
				return err
			}
		}

		if err := s.treatments.Create(txCtx, t); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeDuplicateEvaluation, "evaluator already treated this application")
			}
			return wrapStoreErr(err, "application not found", "record treatment")
		}
		found.ApplyTransition(next, now)
		if prev != next {
			if err := s.applications.Update(txCtx, found); err != nil {
				return wrapStoreErr(err, "application not found", "update application status")
			}
		}

		app, treatment, result, previous = found, t, res, prev
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTreatmentRecorded(treatment.Decision.String())
	s.metrics.IncRoundOutcome(result.Round, string(result.Outcome))
	s.logger.InfoContext(ctx, "treatment recorded",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", req.ApplicationID.String(),
		"evaluator_id", req.EvaluatorID.String(),
		"round", treatment.Round,
		"decision", treatment.Decision.String(),
		"outcome", string(result.Outcome),
		"status", app.Status.String(),
	)

	if previous != app.Status {
		s.notifyStatusChange(ctx, app, result)
	}
	return treatment, nil
}

func (s *Service) notifyStatusChange(ctx context.Context, app *models.Application, result consensus.Result) {
	candidate := []models.Recipient{models.UserRecipient(app.CandidateID)}
	link := applicationLink(app.ID)
	switch result.Outcome {
	case consensus.OutcomeDiscordant:
		s.notify(ctx, models.Notification{
			Recipients: []models.Recipient{models.RoleRecipient(id.RoleEvaluator), models.RoleRecipient(id.RoleAdmin)},
			Message:    "Application " + app.Reference + " needs a third evaluation: the first two evaluators disagree.",
			Link:       link,
		})
	case consensus.OutcomeValidated:
		s.notify(ctx, models.Notification{
			Recipients: candidate,
			Message:    "Your application " + app.Reference + " has been validated.",
			Link:       link,
		})
	case consensus.OutcomeRejected:
		s.notify(ctx, models.Notification{
			Recipients: candidate,
			Message:    "Your application " + app.Reference + " has been rejected. You may file one appeal.",
			Link:       link,
		})
	default:
		s.notify(ctx, models.Notification{
			Recipients: candidate,
			Message:    "Your application " + app.Reference + " is under review.",
			Link:       link,
		})
	}
}

// CountTreatments returns how many evaluators treated the application.
func (s *Service) CountTreatments(ctx context.Context, applicationID id.ApplicationID) (int, error) {
	if _, err := s.GetApplication(ctx, applicationID); err != nil {
		return 0, err
	}
	n, err := s.treatments.Count(ctx, applicationID)
	if err != nil {
		return 0, wrapStoreErr(err, "application not found", "count treatments")
	}
	return n, nil
}

// ListTreatments returns the evaluation history ordered by round.
func (s *Service) ListTreatments(ctx context.Context, applicationID id.ApplicationID) ([]*models.Treatment, error) {
	if _, err := s.GetApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	treatments, err := s.treatments.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, wrapStoreErr(err, "application not found", "list treatments")
	}
	return treatments, nil
}
