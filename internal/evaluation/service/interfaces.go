package service

import (
	"context"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// ApplicationStore persists applications. Create returns sentinel.ErrAlreadyUsed
// when the candidate or the reference already exists; lookups return
// sentinel.ErrNotFound. ExclusionStats counts the pre-filter rejections.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error)
	FindByCandidate(ctx context.Context, candidateID id.UserID) (*models.Application, error)
	List(ctx context.Context, statuses []models.Status) ([]*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
	ExclusionStats(ctx context.Context) (models.ExclusionStats, error)
}

// TreatmentStore persists treatments. Create returns sentinel.ErrAlreadyUsed
// when the evaluator already treated the application. ListByApplication is
// ordered by round, and so is every evaluator list of EvaluatorsByApplication.
type TreatmentStore interface {
	Create(ctx context.Context, treatment *models.Treatment) error
	ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*models.Treatment, error)
	Count(ctx context.Context, applicationID id.ApplicationID) (int, error)
	EvaluatorsByApplication(ctx context.Context) (map[id.ApplicationID][]id.UserID, error)
}

// AppealStore persists appeals and their action history. Create returns
// sentinel.ErrAlreadyUsed when the application already has an appeal.
// ListActions is ordered newest first.
type AppealStore interface {
	Create(ctx context.Context, appeal *models.Appeal) error
	FindByID(ctx context.Context, appealID id.AppealID) (*models.Appeal, error)
	FindByApplication(ctx context.Context, applicationID id.ApplicationID) (*models.Appeal, error)
	List(ctx context.Context, unresolvedOnly bool) ([]*models.Appeal, error)
	Update(ctx context.Context, appeal *models.Appeal) error
	AppendAction(ctx context.Context, action *models.AppealAction) error
	ListActions(ctx context.Context, appealID id.AppealID) ([]*models.AppealAction, error)
}

// Sequencer hands out strictly increasing numbers per scope.
type Sequencer interface {
	Next(ctx context.Context, scope string) (int64, error)
}

// Notifier delivers notifications. Errors are logged by the caller and never
// undo the change that triggered them.
type Notifier interface {
	Notify(ctx context.Context, notification models.Notification) error
}

// AuditPublisher records audit events inside the exclusive scope.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
