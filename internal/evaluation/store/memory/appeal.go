package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
)

type AppealStore struct {
	mu            sync.RWMutex
	byID          map[id.AppealID]*models.Appeal
	byApplication map[id.ApplicationID]id.AppealID
	actions       map[id.AppealID][]*models.AppealAction
}

func NewAppealStore() *AppealStore {
	return &AppealStore{
		byID:          make(map[id.AppealID]*models.Appeal),
		byApplication: make(map[id.ApplicationID]id.AppealID),
		actions:       make(map[id.AppealID][]*models.AppealAction),
	}
}

func (s *AppealStore) Create(_ context.Context, appeal *models.Appeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byApplication[appeal.ApplicationID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[appeal.ID] = cloneAppeal(appeal)
	s.byApplication[appeal.ApplicationID] = appeal.ID
	return nil
}

func (s *AppealStore) FindByID(_ context.Context, appealID id.AppealID) (*models.Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appeal, ok := s.byID[appealID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneAppeal(appeal), nil
}

func (s *AppealStore) FindByApplication(_ context.Context, applicationID id.ApplicationID) (*models.Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appealID, ok := s.byApplication[applicationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneAppeal(s.byID[appealID]), nil
}

// List returns appeals oldest first.
func (s *AppealStore) List(_ context.Context, unresolvedOnly bool) ([]*models.Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Appeal, 0, len(s.byID))
	for _, appeal := range s.byID {
		if unresolvedOnly && appeal.Resolved {
			continue
		}
		out = append(out, cloneAppeal(appeal))
	}
	slices.SortFunc(out, func(a, b *models.Appeal) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (s *AppealStore) Update(_ context.Context, appeal *models.Appeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[appeal.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.byID[appeal.ID] = cloneAppeal(appeal)
	return nil
}

func (s *AppealStore) AppendAction(_ context.Context, action *models.AppealAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[action.AppealID]; !ok {
		return sentinel.ErrNotFound
	}
	c := *action
	s.actions[action.AppealID] = append(s.actions[action.AppealID], &c)
	return nil
}

// ListActions returns the history newest first. Actions sharing a timestamp
// keep reverse insertion order.
func (s *AppealStore) ListActions(_ context.Context, appealID id.AppealID) ([]*models.AppealAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.actions[appealID]
	out := make([]*models.AppealAction, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		c := *stored[i]
		out = append(out, &c)
	}
	slices.SortStableFunc(out, func(a, b *models.AppealAction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func cloneAppeal(appeal *models.Appeal) *models.Appeal {
	c := *appeal
	if appeal.ResolvedAt != nil {
		t := *appeal.ResolvedAt
		c.ResolvedAt = &t
	}
	if appeal.ResolvedBy != nil {
		by := *appeal.ResolvedBy
		c.ResolvedBy = &by
	}
	return &c
}
