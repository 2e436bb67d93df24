package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// SubmitApplicationRequest is a candidate's submission.
type SubmitApplicationRequest struct {
	CandidateID id.UserID
	Profile     models.CandidateProfile
	Documents   models.Documents
}

// SubmitApplication assigns a reference number, runs the eligibility
// pre-filter once and persists the application, rejected outright when the
// pre-filter says so.
func (s *Service) SubmitApplication(ctx context.Context, req SubmitApplicationRequest) (app *models.Application, err error) {
	ctx, span := s.startSpan(ctx, "submit_application", attribute.String("candidate_id", req.CandidateID.String()))
	defer func() { s.finishSpan(span, "submit_application", err) }()

	if req.CandidateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "candidate ID required")
	}
	if err := req.Documents.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.applications.FindByCandidate(ctx, req.CandidateID); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "candidate already has an application")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, wrapStoreErr(err, "application not found", "check existing application")
	}

	now := requestcontext.Now(ctx)
	scope := models.ReferenceScope(now.Year(), req.Profile.OriginRegion)
	seq, err := s.sequencer.Next(ctx, scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate reference number")
	}
	verdict := s.prefilter.Evaluate(req.Profile, now)

	app, err = models.NewApplication(
		id.NewApplicationID(),
		models.FormatReference(scope, seq),
		req.CandidateID,
		req.Profile,
		req.Documents,
		verdict.ReasonStrings(),
		now,
	)
	if err != nil {
		return nil, err
	}

	err = s.runScoped(ctx, "submit_application", candidateLockKey(req.CandidateID.String()), func(txCtx context.Context) error {
		if _, err := s.applications.FindByCandidate(txCtx, req.CandidateID); err == nil {
			return dErrors.New(dErrors.CodeConflict, "candidate already has an application")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return wrapStoreErr(err, "application not found", "check existing application")
		}
		if err := s.emitAudit(txCtx, audit.Event{
			ActorID:  req.CandidateID,
			Subject:  app.ID.String(),
			Action:   string(audit.EventApplicationSubmitted),
			Decision: app.Status.String(),
			Reason:   strings.Join(app.EligibilityReasons, ","),
		}); err != nil {
			return err
		}
		if err := s.applications.Create(txCtx, app); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "candidate already has an application")
			}
			return wrapStoreErr(err, "application not found", "create application")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncApplicationSubmitted(app.Status.String())
	s.logger.InfoContext(ctx, "application submitted",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID.String(),
		"reference", app.Reference,
		"status", app.Status.String(),
		"eligibility_reasons", app.EligibilityReasons,
	)

	message := "Your application " + app.Reference + " has been received."
	if app.Status == models.StatusRejected {
		message = "Your application " + app.Reference + " does not meet the eligibility requirements."
	}
	s.notify(ctx, models.Notification{
		Recipients: []models.Recipient{models.UserRecipient(app.CandidateID)},
		Message:    message,
		Link:       applicationLink(app.ID),
	})
	return app, nil
}

func (s *Service) GetApplication(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	if err := requireApplicationID(applicationID); err != nil {
		return nil, err
	}
	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, wrapStoreErr(err, "application not found", "load application")
	}
	return app, nil
}

func (s *Service) GetApplicationByCandidate(ctx context.Context, candidateID id.UserID) (*models.Application, error) {
	if candidateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "candidate ID required")
	}
	app, err := s.applications.FindByCandidate(ctx, candidateID)
	if err != nil {
		return nil, wrapStoreErr(err, "application not found", "load application")
	}
	return app, nil
}

// ListApplications returns applications in the given statuses, or all of
// them when none is given.
func (s *Service) ListApplications(ctx context.Context, statuses ...models.Status) ([]*models.Application, error) {
	for _, st := range statuses {
		if !st.IsValid() {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid status: "+st.String())
		}
	}
	apps, err := s.applications.List(ctx, statuses)
	if err != nil {
		return nil, wrapStoreErr(err, "application not found", "list applications")
	}
	return apps, nil
}

// UpdateAdminComment replaces the reviewer note on an application.
func (s *Service) UpdateAdminComment(ctx context.Context, applicationID id.ApplicationID, adminID id.UserID, comment string) (app *models.Application, err error) {
	ctx, span := s.startSpan(ctx, "update_admin_comment", attribute.String("application_id", applicationID.String()))
	defer func() { s.finishSpan(span, "update_admin_comment", err) }()

	if err := requireApplicationID(applicationID); err != nil {
		return nil, err
	}
	if err := models.ValidateComment(comment); err != nil {
		return nil, err
	}

	err = s.runScoped(ctx, "update_admin_comment", applicationLockKey(applicationID.String()), func(txCtx context.Context) error {
		found, err := s.applications.FindByID(txCtx, applicationID)
		if err != nil {
			return wrapStoreErr(err, "application not found", "load application")
		}
		if err := s.emitAudit(txCtx, audit.Event{
			ActorID: adminID,
			Subject: applicationID.String(),
			Action:  string(audit.EventAdminCommentUpdated),
		}); err != nil {
			return err
		}
		found.ApplyAdminComment(comment, requestcontext.Now(txCtx))
		if err := s.applications.Update(txCtx, found); err != nil {
			return wrapStoreErr(err, "application not found", "update application")
		}
		app = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// StatusSummary counts applications per status. Every status is present.
func (s *Service) StatusSummary(ctx context.Context) (map[models.Status]int, error) {
	counts, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "application not found", "count applications")
	}
	summary := make(map[models.Status]int, len(models.Statuses))
	for _, st := range models.Statuses {
		summary[st] = counts[st]
	}
	return summary, nil
}
