package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Joenyengs/backend/internal/evaluation/consensus"
	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
)

func (s *ServiceSuite) TestRounds() {
	s.Run("round one moves the application to in review", func() {
		app := s.submit(eligibleProfile())

		t, err := s.treat(app.ID, conforming())
		s.Require().NoError(err)
		s.Equal(1, t.Round)
		s.Equal(models.DecisionRetain, t.Decision)
		s.Equal(models.StatusInReview, s.status(app.ID))
	})

	s.Run("round two unanimity validates", func() {
		app := s.submit(eligibleProfile())
		_, err := s.treat(app.ID, conforming())
		s.Require().NoError(err)
		_, err = s.treat(app.ID, conforming())
		s.Require().NoError(err)

		s.Equal(models.StatusValidated, s.status(app.ID))
		s.Contains(s.notifier.last().Message, "validated")
	})

	s.Run("round two unanimous rejection rejects", func() {
		app := s.submit(eligibleProfile())
		_, err := s.treat(app.ID, withFalsifiedDiploma())
		s.Require().NoError(err)
		_, err = s.treat(app.ID, models.Conformity{})
		s.Require().NoError(err)

		s.Equal(models.StatusRejected, s.status(app.ID))
	})

	s.Run("round two split escalates to evaluators and admins", func() {
		app := s.submit(eligibleProfile())
		_, err := s.treat(app.ID, conforming())
		s.Require().NoError(err)
		_, err = s.treat(app.ID, withFalsifiedDiploma())
		s.Require().NoError(err)

		s.Equal(models.StatusInConflict, s.status(app.ID))
		s.ElementsMatch(
			[]models.Recipient{models.RoleRecipient(id.RoleEvaluator), models.RoleRecipient(id.RoleAdmin)},
			s.notifier.last().Recipients,
		)
	})

	s.Run("round three majority decides", func() {
		cases := []struct {
			third models.Conformity
			want  models.Status
		}{
			{conforming(), models.StatusValidated},
			{withFalsifiedDiploma(), models.StatusRejected},
		}
		for _, tc := range cases {
			app := s.submit(eligibleProfile())
			_, err := s.treat(app.ID, withFalsifiedDiploma())
			s.Require().NoError(err)
			_, err = s.treat(app.ID, conforming())
			s.Require().NoError(err)
			t, err := s.treat(app.ID, tc.third)
			s.Require().NoError(err)

			s.Equal(3, t.Round)
			s.Equal(tc.want, s.status(app.ID))
		}
	})
}

func (s *ServiceSuite) TestRecordTreatmentRefusals() {
	s.Run("unknown application", func() {
		_, err := s.treat(id.NewApplicationID(), conforming())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("same evaluator twice", func() {
		app := s.submit(eligibleProfile())
		evaluator := newUserID()
		req := RecordTreatmentRequest{ApplicationID: app.ID, EvaluatorID: evaluator, Conformity: conforming()}

		_, err := s.service.RecordTreatment(s.ctx, req)
		s.Require().NoError(err)
		_, err = s.service.RecordTreatment(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateEvaluation))

		n, err := s.service.CountTreatments(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("duplicate check wins over a closed application", func() {
		app := s.submit(eligibleProfile())
		evaluator := newUserID()
		req := RecordTreatmentRequest{ApplicationID: app.ID, EvaluatorID: evaluator, Conformity: conforming()}
		_, err := s.service.RecordTreatment(s.ctx, req)
		s.Require().NoError(err)
		_, err = s.treat(app.ID, conforming())
		s.Require().NoError(err)

		_, err = s.service.RecordTreatment(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateEvaluation))
	})

	s.Run("concluded application is closed", func() {
		app := s.submit(eligibleProfile())
		_, err := s.treat(app.ID, conforming())
		s.Require().NoError(err)
		_, err = s.treat(app.ID, conforming())
		s.Require().NoError(err)

		_, err = s.treat(app.ID, conforming())
		s.True(dErrors.HasCode(err, dErrors.CodeRoundExhausted))
	})

	s.Run("fourth evaluator is refused", func() {
		app := s.submit(eligibleProfile())
		for _, c := range []models.Conformity{conforming(), withFalsifiedDiploma(), conforming()} {
			_, err := s.treat(app.ID, c)
			s.Require().NoError(err)
		}

		_, err := s.treat(app.ID, conforming())
		s.True(dErrors.HasCode(err, dErrors.CodeRoundExhausted))
		treatments, err := s.service.ListTreatments(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Len(treatments, 3)
		for i, t := range treatments {
			s.Equal(i+1, t.Round)
		}
	})

	s.Run("pre-filter rejection is closed to evaluators", func() {
		profile := eligibleProfile()
		profile.Nationality = "Angola"
		app := s.submit(profile)

		_, err := s.treat(app.ID, conforming())
		s.True(dErrors.HasCode(err, dErrors.CodeRoundExhausted))
	})

	s.Run("invalid judgement", func() {
		app := s.submit(eligibleProfile())
		c := conforming()
		c.CV = models.Judgement("perfect")
		_, err := s.treat(app.ID, c)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestTreatmentAudit() {
	app := s.submit(eligibleProfile())
	_, err := s.treat(app.ID, conforming())
	s.Require().NoError(err)
	_, err = s.treat(app.ID, conforming())
	s.Require().NoError(err)

	s.Equal([]string{
		string(audit.EventApplicationSubmitted),
		string(audit.EventTreatmentRecorded),
		string(audit.EventStatusChanged),
		string(audit.EventTreatmentRecorded),
		string(audit.EventStatusChanged),
	}, s.auditActions(app.ID.String()))
}

func (s *ServiceSuite) TestConcurrentEvaluators() {
	s.Run("unanimous evaluators close after two treatments", func() {
		app := s.submit(eligibleProfile())
		accepted := s.treatConcurrently(app.ID, 8, func(int) models.Conformity { return conforming() })

		s.Equal(2, accepted)
		s.Equal(models.StatusValidated, s.status(app.ID))
	})

	s.Run("mixed evaluators never exceed three treatments", func() {
		app := s.submit(eligibleProfile())
		accepted := s.treatConcurrently(app.ID, 10, func(i int) models.Conformity {
			if i%2 == 0 {
				return conforming()
			}
			return withFalsifiedDiploma()
		})

		treatments, err := s.service.ListTreatments(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Len(treatments, accepted)
		s.LessOrEqual(accepted, models.MaxRounds)
		for i, t := range treatments {
			s.Equal(i+1, t.Round)
		}

		result, err := consensus.Aggregate(models.Decisions(treatments))
		s.Require().NoError(err)
		s.True(result.IsFinal())
		s.Equal(result.Status(), s.status(app.ID))
	})
}

// treatConcurrently fires n distinct evaluators at once and returns how many
// were accepted. Every refusal must be round_exhausted.
func (s *ServiceSuite) treatConcurrently(appID id.ApplicationID, n int, conformity func(i int) models.Conformity) int {
	var (
		mu       sync.Mutex
		accepted int
	)
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			_, err := s.treat(appID, conformity(i))
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeRoundExhausted) {
					return nil
				}
				return err
			}
			mu.Lock()
			accepted++
			mu.Unlock()
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	return accepted
}

func (s *ServiceSuite) TestScopeTimeout() {
	app := s.submit(eligibleProfile())

	err := s.service.tx.RunInTx(s.ctx, applicationLockKey(app.ID.String()), func(context.Context) error {
		ctx, cancel := context.WithTimeout(s.ctx, 30*time.Millisecond)
		defer cancel()
		_, err := s.service.RecordTreatment(ctx, RecordTreatmentRequest{
			ApplicationID: app.ID,
			EvaluatorID:   newUserID(),
			Conformity:    conforming(),
		})
		return err
	})

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.True(errors.Is(err, context.DeadlineExceeded))
	s.Equal(models.StatusSubmitted, s.status(app.ID))
}
