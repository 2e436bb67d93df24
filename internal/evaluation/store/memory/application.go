// Package memory holds the in-process stores used in development and tests.
// Stores copy on the way in and out so callers never share state with them.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Joenyengs/backend/internal/evaluation/eligibility"
	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
)

type ApplicationStore struct {
	mu          sync.RWMutex
	byID        map[id.ApplicationID]*models.Application
	byCandidate map[id.UserID]id.ApplicationID
	references  map[string]struct{}
}

func NewApplicationStore() *ApplicationStore {
	return &ApplicationStore{
		byID:        make(map[id.ApplicationID]*models.Application),
		byCandidate: make(map[id.UserID]id.ApplicationID),
		references:  make(map[string]struct{}),
	}
}

func (s *ApplicationStore) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCandidate[app.CandidateID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	if _, ok := s.references[app.Reference]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[app.ID] = cloneApplication(app)
	s.byCandidate[app.CandidateID] = app.ID
	s.references[app.Reference] = struct{}{}
	return nil
}

func (s *ApplicationStore) FindByID(_ context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.byID[applicationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneApplication(app), nil
}

func (s *ApplicationStore) FindByCandidate(_ context.Context, candidateID id.UserID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appID, ok := s.byCandidate[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneApplication(s.byID[appID]), nil
}

// List returns matching applications oldest first.
func (s *ApplicationStore) List(_ context.Context, statuses []models.Status) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Application, 0, len(s.byID))
	for _, app := range s.byID {
		if len(statuses) > 0 && !slices.Contains(statuses, app.Status) {
			continue
		}
		out = append(out, cloneApplication(app))
	}
	slices.SortFunc(out, func(a, b *models.Application) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Reference, b.Reference)
	})
	return out, nil
}

// Update overwrites the mutable fields. Reference and candidate never change.
func (s *ApplicationStore) Update(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[app.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	updated := cloneApplication(current)
	updated.Status = app.Status
	updated.AdminComment = app.AdminComment
	updated.UpdatedAt = app.UpdatedAt
	s.byID[app.ID] = updated
	return nil
}

func (s *ApplicationStore) CountByStatus(_ context.Context) (map[models.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Status]int)
	for _, app := range s.byID {
		counts[app.Status]++
	}
	return counts, nil
}

func (s *ApplicationStore) ExclusionStats(_ context.Context) (models.ExclusionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := models.ExclusionStats{ByReason: map[string]int{}, ByNationality: map[string]int{}}
	for _, app := range s.byID {
		if len(app.EligibilityReasons) == 0 {
			continue
		}
		stats.Excluded++
		for _, reason := range app.EligibilityReasons {
			stats.ByReason[reason]++
			if reason == string(eligibility.ReasonNationality) {
				stats.ByNationality[app.Profile.Nationality]++
			}
		}
	}
	return stats, nil
}

func cloneApplication(app *models.Application) *models.Application {
	c := *app
	c.EligibilityReasons = slices.Clone(app.EligibilityReasons)
	if app.Profile.BirthDate != nil {
		b := *app.Profile.BirthDate
		c.Profile.BirthDate = &b
	}
	return &c
}
