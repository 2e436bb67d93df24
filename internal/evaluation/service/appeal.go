package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// FileAppealRequest is a rejected candidate's contestation.
type FileAppealRequest struct {
	ApplicationID id.ApplicationID
	CandidateID   id.UserID
	Motive        string
	Justification string
	Document      string
}

// ResolveAppealRequest is an admin's ruling. Overturn moves the application
// from rejected to validated.
type ResolveAppealRequest struct {
	AppealID id.AppealID
	AdminID  id.UserID
	Comment  string
	Overturn bool
}

// FileAppeal opens the application's single appeal. The application status
// is left untouched.
func (s *Service) FileAppeal(ctx context.Context, req FileAppealRequest) (appeal *models.Appeal, err error) {
	ctx, span := s.startSpan(ctx, "file_appeal", attribute.String("application_id", req.ApplicationID.String()))
	defer func() { s.finishSpan(span, "file_appeal", err) }()

	if err := requireApplicationID(req.ApplicationID); err != nil {
		return nil, err
	}
	if req.CandidateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "candidate ID required")
	}

	now := requestcontext.Now(ctx)
	appeal, err = models.NewAppeal(id.NewAppealID(), req.ApplicationID, req.CandidateID, req.Motive, req.Justification, req.Document, now)
	if err != nil {
		return nil, err
	}

	var app *models.Application
	err = s.runScoped(ctx, "file_appeal", applicationLockKey(req.ApplicationID.String()), func(txCtx context.Context) error {
		found, err := s.applications.FindByID(txCtx, req.ApplicationID)
		if err != nil {
			return wrapStoreErr(err, "application not found", "load application")
		}
		if found.CandidateID != req.CandidateID {
			return dErrors.New(dErrors.CodeForbidden, "only the candidate may appeal their application")
		}
		if found.Status != models.StatusRejected {
			return dErrors.New(dErrors.CodeNotRejected, "only rejected applications can be appealed")
		}
		if _, err := s.appeals.FindByApplication(txCtx, req.ApplicationID); err == nil {
			return dErrors.New(dErrors.CodeAppealAlreadyExists, "an appeal already exists for this application")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return wrapStoreErr(err, "appeal not found", "check existing appeal")
		}

		if err := s.emitAudit(txCtx, audit.Event{
			ActorID: req.CandidateID,
			Subject: req.ApplicationID.String(),
			Action:  string(audit.EventAppealFiled),
			Reason:  appeal.Motive,
		}); err != nil {
			return err
		}
		if err := s.appeals.Create(txCtx, appeal); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeAppealAlreadyExists, "an appeal already exists for this application")
			}
			return wrapStoreErr(err, "appeal not found", "create appeal")
		}
		action := models.NewAppealAction(appeal.ID, req.CandidateID, models.AppealActionFiled, appeal.Motive, now)
		if err := s.appeals.AppendAction(txCtx, action); err != nil {
			return wrapStoreErr(err, "appeal not found", "record appeal action")
		}
		app = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAppealFiled()
	s.logger.InfoContext(ctx, "appeal filed",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", req.ApplicationID.String(),
		"appeal_id", appeal.ID.String(),
	)
	s.notify(ctx, models.Notification{
		Recipients: []models.Recipient{models.RoleRecipient(id.RoleAdmin)},
		Message:    "A new appeal was filed for application " + app.Reference + ".",
		Link:       appealLink(appeal.ID),
	})
	s.notify(ctx, models.Notification{
		Recipients: []models.Recipient{models.UserRecipient(req.CandidateID)},
		Message:    "Your appeal for application " + app.Reference + " has been received.",
		Link:       appealLink(appeal.ID),
	})
	return appeal, nil
}

// ResolveAppeal closes a pending appeal exactly once.
func (s *Service) ResolveAppeal(ctx context.Context, req ResolveAppealRequest) (appeal *models.Appeal, err error) {
	ctx, span := s.startSpan(ctx, "resolve_appeal",
		attribute.String("appeal_id", req.AppealID.String()),
		attribute.Bool("overturn", req.Overturn),
	)
	defer func() { s.finishSpan(span, "resolve_appeal", err) }()

	if req.AppealID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "appeal ID required")
	}
	if req.AdminID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "admin ID required")
	}
	if err := models.ValidateComment(req.Comment); err != nil {
		return nil, err
	}

	pending, err := s.appeals.FindByID(ctx, req.AppealID)
	if err != nil {
		return nil, wrapStoreErr(err, "appeal not found", "load appeal")
	}

	var app *models.Application
	err = s.runScoped(ctx, "resolve_appeal", applicationLockKey(pending.ApplicationID.String()), func(txCtx context.Context) error {
		found, err := s.appeals.FindByID(txCtx, req.AppealID)
		if err != nil {
			return wrapStoreErr(err, "appeal not found", "load appeal")
		}
		if err := found.CanResolve(); err != nil {
			return err
		}
		application, err := s.applications.FindByID(txCtx, found.ApplicationID)
		if err != nil {
			return wrapStoreErr(err, "application not found", "load application")
		}
		if req.Overturn {
			if err := application.CanTransitionTo(models.StatusValidated); err != nil {
				return err
			}
		}

		now := requestcontext.Now(txCtx)
		found.ApplyResolution(req.AdminID, req.Comment, req.Overturn, now)
		if err := s.emitAudit(txCtx, audit.Event{
			ActorID:  req.AdminID,
			Subject:  found.ApplicationID.String(),
			Action:   string(audit.EventAppealResolved),
			Decision: string(found.Outcome),
		}); err != nil {
			return err
		}
		if req.Overturn {
			if err := s.emitAudit(txCtx, audit.Event{
				ActorID:  req.AdminID,
				Subject:  found.ApplicationID.String(),
				Action:   string(audit.EventStatusChanged),
				Decision: models.StatusValidated.String(),
				Reason:   "appeal_overturned",
			}); err != nil {
				return err
			}
		}

		if err := s.appeals.Update(txCtx, found); err != nil {
			return wrapStoreErr(err, "appeal not found", "update appeal")
		}
		action := models.NewAppealAction(found.ID, req.AdminID, models.AppealActionResolved, found.AdminComment, now)
		if err := s.appeals.AppendAction(txCtx, action); err != nil {
			return wrapStoreErr(err, "appeal not found", "record appeal action")
		}
		if req.Overturn {
			application.ApplyTransition(models.StatusValidated, now)
			if err := s.applications.Update(txCtx, application); err != nil {
				return wrapStoreErr(err, "application not found", "update application status")
			}
		}
		appeal, app = found, application
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAppealResolved(string(appeal.Outcome))
	s.logger.InfoContext(ctx, "appeal resolved",
		"request_id", requestcontext.RequestID(ctx),
		"appeal_id", appeal.ID.String(),
		"application_id", appeal.ApplicationID.String(),
		"outcome", string(appeal.Outcome),
		"admin_id", req.AdminID.String(),
	)
	message := "Your appeal for application " + app.Reference + " has been reviewed: the rejection is upheld."
	if appeal.Outcome == models.AppealOverturned {
		message = "Your appeal for application " + app.Reference + " has been accepted: your application is validated."
	}
	s.notify(ctx, models.Notification{
		Recipients: []models.Recipient{models.UserRecipient(appeal.CandidateID)},
		Message:    message,
		Link:       appealLink(appeal.ID),
	})
	return appeal, nil
}

func (s *Service) GetAppeal(ctx context.Context, appealID id.AppealID) (*models.Appeal, error) {
	if appealID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "appeal ID required")
	}
	appeal, err := s.appeals.FindByID(ctx, appealID)
	if err != nil {
		return nil, wrapStoreErr(err, "appeal not found", "load appeal")
	}
	return appeal, nil
}

func (s *Service) GetAppealByApplication(ctx context.Context, applicationID id.ApplicationID) (*models.Appeal, error) {
	if err := requireApplicationID(applicationID); err != nil {
		return nil, err
	}
	appeal, err := s.appeals.FindByApplication(ctx, applicationID)
	if err != nil {
		return nil, wrapStoreErr(err, "appeal not found", "load appeal")
	}
	return appeal, nil
}

// ListAppeals returns every appeal, or only the pending ones.
func (s *Service) ListAppeals(ctx context.Context, unresolvedOnly bool) ([]*models.Appeal, error) {
	appeals, err := s.appeals.List(ctx, unresolvedOnly)
	if err != nil {
		return nil, wrapStoreErr(err, "appeal not found", "list appeals")
	}
	return appeals, nil
}

// ListAppealActions returns the appeal's history, newest first.
func (s *Service) ListAppealActions(ctx context.Context, appealID id.AppealID) ([]*models.AppealAction, error) {
	if _, err := s.GetAppeal(ctx, appealID); err != nil {
		return nil, err
	}
	actions, err := s.appeals.ListActions(ctx, appealID)
	if err != nil {
		return nil, wrapStoreErr(err, "appeal not found", "list appeal actions")
	}
	return actions, nil
}
