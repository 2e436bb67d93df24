package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
	txcontext "github.com/Joenyengs/backend/pkg/platform/tx"
)

const appealColumns = `id, application_id, candidate_id, motive, justification, document,
	resolved, outcome, admin_comment, resolved_by, resolved_at, created_at`

// AppealStore persists appeals and their action history.
type AppealStore struct {
	db *sql.DB
}

func NewAppealStore(db *sql.DB) *AppealStore {
	return &AppealStore{db: db}
}

func (s *AppealStore) Create(ctx context.Context, appeal *models.Appeal) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO appeals (`+appealColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(appeal.ID), uuid.UUID(appeal.ApplicationID), uuid.UUID(appeal.CandidateID),
		appeal.Motive, appeal.Justification, appeal.Document,
		appeal.Resolved, string(appeal.Outcome), appeal.AdminComment,
		nullableUser(appeal.ResolvedBy), appeal.ResolvedAt, appeal.CreatedAt,
	)
	return translateErr(err, "insert appeal")
}

func (s *AppealStore) FindByID(ctx context.Context, appealID id.AppealID) (*models.Appeal, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+appealColumns+` FROM appeals WHERE id = $1`+lockClause(ctx),
		uuid.UUID(appealID),
	)
	appeal, err := scanAppeal(row)
	if err != nil {
		return nil, translateErr(err, "find appeal")
	}
	return appeal, nil
}

func (s *AppealStore) FindByApplication(ctx context.Context, applicationID id.ApplicationID) (*models.Appeal, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+appealColumns+` FROM appeals WHERE application_id = $1`,
		uuid.UUID(applicationID),
	)
	appeal, err := scanAppeal(row)
	if err != nil {
		return nil, translateErr(err, "find appeal by application")
	}
	return appeal, nil
}

// List returns appeals oldest first.
func (s *AppealStore) List(ctx context.Context, unresolvedOnly bool) ([]*models.Appeal, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT `+appealColumns+`
		FROM appeals
		WHERE NOT ($1 AND resolved)
		ORDER BY created_at ASC, id ASC`,
		unresolvedOnly,
	)
	if err != nil {
		return nil, translateErr(err, "list appeals")
	}
	defer rows.Close()

	var out []*models.Appeal
	for rows.Next() {
		appeal, err := scanAppeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appeal: %w", err)
		}
		out = append(out, appeal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appeals: %w", err)
	}
	return out, nil
}

// Update writes the resolution fields.
func (s *AppealStore) Update(ctx context.Context, appeal *models.Appeal) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE appeals
		SET resolved = $2, outcome = $3, admin_comment = $4, resolved_by = $5, resolved_at = $6
		WHERE id = $1`,
		uuid.UUID(appeal.ID), appeal.Resolved, string(appeal.Outcome), appeal.AdminComment,
		nullableUser(appeal.ResolvedBy), appeal.ResolvedAt,
	)
	if err != nil {
		return translateErr(err, "update appeal")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update appeal: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *AppealStore) AppendAction(ctx context.Context, action *models.AppealAction) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO appeal_actions (id, appeal_id, actor_id, action, comment, created_at)
		SELECT $1, id, $3, $4, $5, $6 FROM appeals WHERE id = $2`,
		uuid.UUID(action.ID), uuid.UUID(action.AppealID), uuid.UUID(action.ActorID),
		string(action.Action), action.Comment, action.CreatedAt,
	)
	if err != nil {
		return translateErr(err, "insert appeal action")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert appeal action: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListActions returns the history newest first.
func (s *AppealStore) ListActions(ctx context.Context, appealID id.AppealID) ([]*models.AppealAction, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT id, appeal_id, actor_id, action, comment, created_at
		FROM appeal_actions
		WHERE appeal_id = $1
		ORDER BY seq DESC`,
		uuid.UUID(appealID),
	)
	if err != nil {
		return nil, translateErr(err, "list appeal actions")
	}
	defer rows.Close()

	var out []*models.AppealAction
	for rows.Next() {
		var (
			a                        models.AppealAction
			actionID, appID, actorID uuid.UUID
			label                    string
		)
		if err := rows.Scan(&actionID, &appID, &actorID, &label, &a.Comment, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan appeal action: %w", err)
		}
		a.ID = id.AppealActionID(actionID)
		a.AppealID = id.AppealID(appID)
		a.ActorID = id.UserID(actorID)
		a.Action = models.AppealActionLabel(label)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appeal actions: %w", err)
	}
	return out, nil
}

func scanAppeal(row scanner) (*models.Appeal, error) {
	var (
		a                          models.Appeal
		appealID, appID, candidate uuid.UUID
		outcome                    string
		resolvedBy                 uuid.NullUUID
		resolvedAt                 sql.NullTime
	)
	err := row.Scan(
		&appealID, &appID, &candidate, &a.Motive, &a.Justification, &a.Document,
		&a.Resolved, &outcome, &a.AdminComment, &resolvedBy, &resolvedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = id.AppealID(appealID)
	a.ApplicationID = id.ApplicationID(appID)
	a.CandidateID = id.UserID(candidate)
	a.Outcome = models.AppealOutcome(outcome)
	if resolvedBy.Valid {
		by := id.UserID(resolvedBy.UUID)
		a.ResolvedBy = &by
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		a.ResolvedAt = &t
	}
	return &a, nil
}
