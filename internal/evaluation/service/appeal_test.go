package service

import (
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
)

// rejected submits an application and has two evaluators reject it.
func (s *ServiceSuite) rejected() *models.Application {
	app := s.submit(eligibleProfile())
	_, err := s.treat(app.ID, withFalsifiedDiploma())
	s.Require().NoError(err)
	_, err = s.treat(app.ID, withFalsifiedDiploma())
	s.Require().NoError(err)
	s.Require().Equal(models.StatusRejected, s.status(app.ID))
	return app
}

func (s *ServiceSuite) fileAppeal(app *models.Application) (*models.Appeal, error) {
	return s.service.FileAppeal(s.ctx, FileAppealRequest{
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		Motive:        "diploma is authentic",
		Justification: "The issuing university can confirm the diploma.",
		Document:      "docs/attestation.pdf",
	})
}

func (s *ServiceSuite) TestFileAppeal() {
	s.Run("rejected candidate files an appeal", func() {
		app := s.rejected()
		s.notifier.reset()

		appeal, err := s.fileAppeal(app)
		s.Require().NoError(err)
		s.False(appeal.Resolved)
		s.Equal(app.CandidateID, appeal.CandidateID)
		s.Equal(models.StatusRejected, s.status(app.ID), "filing does not change the application")

		actions, err := s.service.ListAppealActions(s.ctx, appeal.ID)
		s.Require().NoError(err)
		s.Require().Len(actions, 1)
		s.Equal(models.AppealActionFiled, actions[0].Action)

		s.Require().Len(s.notifier.sent, 2)
		s.Equal([]models.Recipient{models.RoleRecipient(id.RoleAdmin)}, s.notifier.sent[0].Recipients)
		s.Equal([]models.Recipient{models.UserRecipient(app.CandidateID)}, s.notifier.sent[1].Recipients)
	})

	s.Run("application that is not rejected", func() {
		app := s.submit(eligibleProfile())
		_, err := s.fileAppeal(app)
		s.True(dErrors.HasCode(err, dErrors.CodeNotRejected))
	})

	s.Run("second appeal", func() {
		app := s.rejected()
		_, err := s.fileAppeal(app)
		s.Require().NoError(err)

		_, err = s.fileAppeal(app)
		s.True(dErrors.HasCode(err, dErrors.CodeAppealAlreadyExists))
	})

	s.Run("someone else's application", func() {
		app := s.rejected()
		_, err := s.service.FileAppeal(s.ctx, FileAppealRequest{
			ApplicationID: app.ID,
			CandidateID:   newUserID(),
			Motive:        "m",
			Justification: "j",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("empty motive", func() {
		app := s.rejected()
		_, err := s.service.FileAppeal(s.ctx, FileAppealRequest{
			ApplicationID: app.ID,
			CandidateID:   app.CandidateID,
			Justification: "j",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("long texts within the documented limits", func() {
		app := s.rejected()
		appeal, err := s.service.FileAppeal(s.ctx, FileAppealRequest{
			ApplicationID: app.ID,
			CandidateID:   app.CandidateID,
			Motive:        strings.Repeat("m", 300),
			Justification: strings.Repeat("é", 4500),
		})
		s.Require().NoError(err)
		s.Len(appeal.Motive, 300)
	})

	s.Run("motive over the limit", func() {
		app := s.rejected()
		_, err := s.service.FileAppeal(s.ctx, FileAppealRequest{
			ApplicationID: app.ID,
			CandidateID:   app.CandidateID,
			Motive:        strings.Repeat("m", models.MaxMotiveLength+1),
			Justification: "j",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("concurrent filings create exactly one appeal", func() {
		app := s.rejected()
		var g errgroup.Group
		results := make([]error, 6)
		for i := range results {
			g.Go(func() error {
				_, results[i] = s.fileAppeal(app)
				return nil
			})
		}
		s.Require().NoError(g.Wait())

		succeeded := 0
		for _, err := range results {
			if err == nil {
				succeeded++
				continue
			}
			s.True(dErrors.HasCode(err, dErrors.CodeAppealAlreadyExists))
		}
		s.Equal(1, succeeded)
	})
}

func (s *ServiceSuite) TestResolveAppeal() {
	s.Run("overturn validates the application", func() {
		app := s.rejected()
		appeal, err := s.fileAppeal(app)
		s.Require().NoError(err)
		admin := newUserID()

		resolved, err := s.service.ResolveAppeal(s.ctx, ResolveAppealRequest{
			AppealID: appeal.ID,
			AdminID:  admin,
			Comment:  "attestation verified",
			Overturn: true,
		})
		s.Require().NoError(err)
		s.True(resolved.Resolved)
		s.Equal(models.AppealOverturned, resolved.Outcome)
		s.Equal(admin, *resolved.ResolvedBy)
		s.Equal(models.StatusValidated, s.status(app.ID))

		actions, err := s.service.ListAppealActions(s.ctx, appeal.ID)
		s.Require().NoError(err)
		s.Require().Len(actions, 2)
		s.Equal(models.AppealActionResolved, actions[0].Action, "newest first")

		s.Contains(s.auditActions(app.ID.String()), string(audit.EventAppealResolved))
		s.Contains(s.notifier.last().Message, "accepted")
	})

	s.Run("uphold keeps the rejection", func() {
		app := s.rejected()
		appeal, err := s.fileAppeal(app)
		s.Require().NoError(err)

		resolved, err := s.service.ResolveAppeal(s.ctx, ResolveAppealRequest{AppealID: appeal.ID, AdminID: newUserID()})
		s.Require().NoError(err)
		s.Equal(models.AppealUpheld, resolved.Outcome)
		s.Equal(models.StatusRejected, s.status(app.ID))
	})

	s.Run("already resolved", func() {
		app := s.rejected()
		appeal, err := s.fileAppeal(app)
		s.Require().NoError(err)
		req := ResolveAppealRequest{AppealID: appeal.ID, AdminID: newUserID(), Overturn: true}
		_, err = s.service.ResolveAppeal(s.ctx, req)
		s.Require().NoError(err)

		_, err = s.service.ResolveAppeal(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyResolved))
	})

	s.Run("unknown appeal", func() {
		_, err := s.service.ResolveAppeal(s.ctx, ResolveAppealRequest{AppealID: id.NewAppealID(), AdminID: newUserID()})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("pending list only shows unresolved appeals", func() {
		app := s.rejected()
		appeal, err := s.fileAppeal(app)
		s.Require().NoError(err)

		pending, err := s.service.ListAppeals(s.ctx, true)
		s.Require().NoError(err)
		ids := make([]id.AppealID, 0, len(pending))
		for _, a := range pending {
			s.False(a.Resolved)
			ids = append(ids, a.ID)
		}
		s.Contains(ids, appeal.ID)

		found, err := s.service.GetAppealByApplication(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(appeal.ID, found.ID)
	})
}
