package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
)

// TreatmentStore is append-only.
type TreatmentStore struct {
	mu            sync.RWMutex
	byApplication map[id.ApplicationID][]*models.Treatment
}

func NewTreatmentStore() *TreatmentStore {
	return &TreatmentStore{byApplication: make(map[id.ApplicationID][]*models.Treatment)}
}

func (s *TreatmentStore) Create(_ context.Context, treatment *models.Treatment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.byApplication[treatment.ApplicationID] {
		if t.EvaluatorID == treatment.EvaluatorID {
			return sentinel.ErrAlreadyUsed
		}
	}
	c := *treatment
	s.byApplication[treatment.ApplicationID] = append(s.byApplication[treatment.ApplicationID], &c)
	return nil
}

func (s *TreatmentStore) ListByApplication(_ context.Context, applicationID id.ApplicationID) ([]*models.Treatment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.byApplication[applicationID]
	out := make([]*models.Treatment, len(stored))
	for i, t := range stored {
		c := *t
		out[i] = &c
	}
	slices.SortFunc(out, func(a, b *models.Treatment) int { return a.Round - b.Round })
	return out, nil
}

func (s *TreatmentStore) Count(_ context.Context, applicationID id.ApplicationID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byApplication[applicationID]), nil
}

// EvaluatorsByApplication maps every treated application to its evaluators,
// ordered by round.
func (s *TreatmentStore) EvaluatorsByApplication(_ context.Context) (map[id.ApplicationID][]id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.ApplicationID][]id.UserID, len(s.byApplication))
	for appID, stored := range s.byApplication {
		if len(stored) == 0 {
			continue
		}
		ordered := slices.Clone(stored)
		slices.SortFunc(ordered, func(a, b *models.Treatment) int { return a.Round - b.Round })
		evaluators := make([]id.UserID, len(ordered))
		for i, t := range ordered {
			evaluators[i] = t.EvaluatorID
		}
		out[appID] = evaluators
	}
	return out, nil
}
