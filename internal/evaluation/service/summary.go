package service

import (
	"context"

	"github.com/Joenyengs/backend/internal/evaluation/eligibility"
	"github.com/Joenyengs/backend/internal/evaluation/models"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// RoundSummary lists the treated applications grouped by treatment count,
// with the evaluators of each round. Groups keep the listing order.
func (s *Service) RoundSummary(ctx context.Context) (*models.RoundSummary, error) {
	evaluators, err := s.treatments.EvaluatorsByApplication(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "treatment not found", "list evaluators")
	}
	apps, err := s.applications.List(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err, "application not found", "list applications")
	}

	summary := models.NewRoundSummary()
	for _, app := range apps {
		ids := evaluators[app.ID]
		if len(ids) == 0 {
			continue
		}
		summary.Add(models.TreatedApplication{
			ApplicationID: app.ID,
			Reference:     app.Reference,
			Status:        app.Status,
			EvaluatorIDs:  ids,
		})
	}
	return summary, nil
}

// ExclusionSummary reports the pre-filter rejections and the age profile of
// the applications still waiting for a first treatment.
func (s *Service) ExclusionSummary(ctx context.Context) (*models.ExclusionSummary, error) {
	stats, err := s.applications.ExclusionStats(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "application not found", "count exclusions")
	}
	evaluators, err := s.treatments.EvaluatorsByApplication(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "treatment not found", "list evaluators")
	}
	apps, err := s.applications.List(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err, "application not found", "list applications")
	}

	now := requestcontext.Now(ctx)
	summary := models.NewExclusionSummary(stats)
	for _, app := range apps {
		if len(evaluators[app.ID]) > 0 {
			continue
		}
		summary.Untreated++
		if app.Profile.BirthDate == nil {
			summary.UnknownAge++
			continue
		}
		summary.AgeBrackets[models.AgeBracket(eligibility.AgeAt(*app.Profile.BirthDate, now))]++
	}
	return summary, nil
}
