//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	"github.com/Joenyengs/backend/internal/evaluation/service"
	"github.com/Joenyengs/backend/internal/evaluation/store/postgres"
	platformpg "github.com/Joenyengs/backend/internal/platform/postgres"
	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
	"github.com/Joenyengs/backend/pkg/platform/audit/publisher"
	auditpg "github.com/Joenyengs/backend/pkg/platform/audit/store/postgres"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
	"github.com/Joenyengs/backend/pkg/requestcontext"
	"github.com/Joenyengs/backend/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres     *containers.PostgresContainer
	applications *postgres.ApplicationStore
	treatments   *postgres.TreatmentStore
	appeals      *postgres.AppealStore
	auditStore   *auditpg.Store
	service      *service.Service
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(platformpg.Migrate(ctx, s.postgres.DB, postgres.Schema))
	s.Require().NoError(platformpg.Migrate(ctx, s.postgres.DB, auditpg.Schema))

	db := s.postgres.DB
	s.applications = postgres.NewApplicationStore(db)
	s.treatments = postgres.NewTreatmentStore(db)
	s.appeals = postgres.NewAppealStore(db)
	s.auditStore = auditpg.New(db)
	s.service = service.New(s.applications, s.treatments, s.appeals, postgres.NewSequencer(db),
		service.WithTx(postgres.NewTx(db, postgres.WithLockTimeout(2*time.Second))),
		service.WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
	)
}

func (s *PostgresStoreSuite) SetupTest() {
	tables := append([]string{"audit_events"}, postgres.Tables...)
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), tables...))
}

func eligibleRequest() service.SubmitApplicationRequest {
	birth := time.Date(1997, time.February, 2, 0, 0, 0, 0, time.UTC)
	return service.SubmitApplicationRequest{
		CandidateID: id.UserID(uuid.New()),
		Profile: models.CandidateProfile{
			BirthDate:      &birth,
			EducationLevel: "licence",
			Nationality:    "RDC",
			OriginRegion:   "Kongo Central",
		},
		Documents: models.Documents{
			CV:                 "cv.pdf",
			CoverLetter:        "letter.pdf",
			Diploma:            "diploma.pdf",
			FitnessCertificate: "fitness.pdf",
			IdentityDocument:   "id.pdf",
		},
	}
}

func allConforming() models.Conformity {
	return models.Conformity{
		CV:                 models.JudgementConforming,
		CoverLetter:        models.JudgementConforming,
		Diploma:            models.JudgementConforming,
		FitnessCertificate: models.JudgementConforming,
		IdentityDocument:   models.JudgementConforming,
	}
}

func (s *PostgresStoreSuite) TestApplicationRoundTrip() {
	ctx := context.Background()
	req := eligibleRequest()
	req.Profile.Nationality = "Angola"

	app, err := s.service.SubmitApplication(ctx, req)
	s.Require().NoError(err)

	found, err := s.applications.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(app.Reference, found.Reference)
	s.Equal(models.StatusRejected, found.Status)
	s.Equal([]string{"nationality_mismatch"}, found.EligibilityReasons)
	s.Require().NotNil(found.Profile.BirthDate)
	s.Equal(req.Documents, found.Documents)

	_, err = s.service.SubmitApplication(ctx, req)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.applications.FindByID(ctx, id.NewApplicationID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestConcurrentSubmissionsGetUniqueReferences() {
	ctx := context.Background()
	const candidates = 20

	var (
		mu   sync.Mutex
		refs = make(map[string]bool, candidates)
	)
	var g errgroup.Group
	for range candidates {
		g.Go(func() error {
			app, err := s.service.SubmitApplication(ctx, eligibleRequest())
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			refs[app.Reference] = true
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Len(refs, candidates)
}

func (s *PostgresStoreSuite) TestConcurrentEvaluatorsStopAtConsensus() {
	ctx := context.Background()
	app, err := s.service.SubmitApplication(ctx, eligibleRequest())
	s.Require().NoError(err)

	var g errgroup.Group
	for range 6 {
		g.Go(func() error {
			_, err := s.service.RecordTreatment(ctx, service.RecordTreatmentRequest{
				ApplicationID: app.ID,
				EvaluatorID:   id.UserID(uuid.New()),
				Conformity:    allConforming(),
			})
			if err != nil && !dErrors.HasCode(err, dErrors.CodeRoundExhausted) {
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	n, err := s.treatments.Count(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(2, n)
	found, err := s.applications.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusValidated, found.Status)
}

func (s *PostgresStoreSuite) TestFailedScopeRollsBack() {
	ctx := context.Background()
	app, err := s.service.SubmitApplication(ctx, eligibleRequest())
	s.Require().NoError(err)

	tx := postgres.NewTx(s.postgres.DB)
	err = tx.RunInTx(ctx, "application:"+app.ID.String(), func(txCtx context.Context) error {
		found, err := s.applications.FindByID(txCtx, app.ID)
		s.Require().NoError(err)
		found.ApplyTransition(models.StatusInReview, time.Now())
		s.Require().NoError(s.applications.Update(txCtx, found))
		return dErrors.New(dErrors.CodeInvariantViolation, "abort")
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	found, err := s.applications.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusSubmitted, found.Status)
}

func (s *PostgresStoreSuite) TestAppealLifecycle() {
	ctx := context.Background()
	req := eligibleRequest()
	req.Profile.EducationLevel = "graduat"
	app, err := s.service.SubmitApplication(ctx, req)
	s.Require().NoError(err)

	appeal, err := s.service.FileAppeal(ctx, service.FileAppealRequest{
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		Motive:        "education level",
		Justification: "my diploma is a licence",
	})
	s.Require().NoError(err)

	_, err = s.service.FileAppeal(ctx, service.FileAppealRequest{
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		Motive:        "again",
		Justification: "again",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeAppealAlreadyExists))

	resolved, err := s.service.ResolveAppeal(ctx, service.ResolveAppealRequest{
		AppealID: appeal.ID,
		AdminID:  id.UserID(uuid.New()),
		Comment:  "verified",
		Overturn: true,
	})
	s.Require().NoError(err)
	s.Equal(models.AppealOverturned, resolved.Outcome)
	s.Require().NotNil(resolved.ResolvedBy)

	stored, err := s.appeals.FindByID(ctx, appeal.ID)
	s.Require().NoError(err)
	s.True(stored.Resolved)
	s.Equal("verified", stored.AdminComment)

	actions, err := s.appeals.ListActions(ctx, appeal.ID)
	s.Require().NoError(err)
	s.Require().Len(actions, 2)
	s.Equal(models.AppealActionResolved, actions[0].Action)

	pending, err := s.appeals.List(ctx, true)
	s.Require().NoError(err)
	s.Empty(pending)

	events, err := s.auditStore.ListBySubject(ctx, app.ID.String())
	s.Require().NoError(err)
	actionsSeen := make([]string, 0, len(events))
	for _, e := range events {
		actionsSeen = append(actionsSeen, e.Action)
	}
	s.Contains(actionsSeen, string(audit.EventAppealResolved))
}

func (s *PostgresStoreSuite) TestSummaries() {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC))

	treated, err := s.service.SubmitApplication(ctx, eligibleRequest())
	s.Require().NoError(err)
	first, second := id.UserID(uuid.New()), id.UserID(uuid.New())
	for _, evaluator := range []id.UserID{first, second} {
		_, err := s.service.RecordTreatment(ctx, service.RecordTreatmentRequest{
			ApplicationID: treated.ID,
			EvaluatorID:   evaluator,
			Conformity:    allConforming(),
		})
		s.Require().NoError(err)
	}

	foreign := eligibleRequest()
	foreign.Profile.Nationality = "Angola"
	foreign.Profile.EducationLevel = "graduat"
	_, err = s.service.SubmitApplication(ctx, foreign)
	s.Require().NoError(err)

	_, err = s.service.SubmitApplication(ctx, eligibleRequest())
	s.Require().NoError(err)

	s.Run("evaluators by application follow round order", func() {
		evaluators, err := s.treatments.EvaluatorsByApplication(ctx)
		s.Require().NoError(err)
		s.Len(evaluators, 1)
		s.Equal([]id.UserID{first, second}, evaluators[treated.ID])
	})

	s.Run("exclusion stats read the stored reasons", func() {
		stats, err := s.applications.ExclusionStats(ctx)
		s.Require().NoError(err)
		s.Equal(1, stats.Excluded)
		s.Equal(map[string]int{"nationality_mismatch": 1, "restricted_education": 1}, stats.ByReason)
		s.Equal(map[string]int{"Angola": 1}, stats.ByNationality)
	})

	s.Run("service reports", func() {
		rounds, err := s.service.RoundSummary(ctx)
		s.Require().NoError(err)
		s.Empty(rounds.ByTreatments[1])
		s.Require().Len(rounds.ByTreatments[2], 1)
		s.Equal(treated.Reference, rounds.ByTreatments[2][0].Reference)
		s.Equal(models.StatusValidated, rounds.ByTreatments[2][0].Status)

		exclusions, err := s.service.ExclusionSummary(ctx)
		s.Require().NoError(err)
		s.Equal(2, exclusions.Untreated)
		s.Equal(2, exclusions.AgeBrackets[models.Age25To30])
	})
}

func (s *PostgresStoreSuite) TestSequencerIsPerScope() {
	ctx := context.Background()
	seq := postgres.NewSequencer(s.postgres.DB)

	a, err := seq.Next(ctx, "ENA2025KCX")
	s.Require().NoError(err)
	b, err := seq.Next(ctx, "ENA2025KCX")
	s.Require().NoError(err)
	c, err := seq.Next(ctx, "ENA2025EXX")
	s.Require().NoError(err)

	s.Equal(int64(1), a)
	s.Equal(int64(2), b)
	s.Equal(int64(1), c)
}
