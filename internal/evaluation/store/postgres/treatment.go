package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	txcontext "github.com/Joenyengs/backend/pkg/platform/tx"
)

// TreatmentStore persists treatments. The (application_id, evaluator_id) and
// (application_id, round) unique keys back the service-level checks.
type TreatmentStore struct {
	db *sql.DB
}

func NewTreatmentStore(db *sql.DB) *TreatmentStore {
	return &TreatmentStore{db: db}
}

func (s *TreatmentStore) Create(ctx context.Context, t *models.Treatment) error {
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO treatments (
			id, application_id, evaluator_id, round,
			cv, cover_letter, diploma, fitness_certificate, identity_document,
			observations, decision, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(t.ID), uuid.UUID(t.ApplicationID), uuid.UUID(t.EvaluatorID), t.Round,
		string(t.Conformity.CV), string(t.Conformity.CoverLetter), string(t.Conformity.Diploma),
		string(t.Conformity.FitnessCertificate), string(t.Conformity.IdentityDocument),
		t.Observations, string(t.Decision), t.CreatedAt,
	)
	return translateErr(err, "insert treatment")
}

func (s *TreatmentStore) ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*models.Treatment, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT id, application_id, evaluator_id, round,
			cv, cover_letter, diploma, fitness_certificate, identity_document,
			observations, decision, created_at
		FROM treatments
		WHERE application_id = $1
		ORDER BY round ASC`,
		uuid.UUID(applicationID),
	)
	if err != nil {
		return nil, translateErr(err, "list treatments")
	}
	defer rows.Close()

	var out []*models.Treatment
	for rows.Next() {
		var (
			t                           models.Treatment
			tID, appID, evaluatorID     uuid.UUID
			cv, letter, diploma         string
			fitness, identity, decision string
		)
		if err := rows.Scan(
			&tID, &appID, &evaluatorID, &t.Round,
			&cv, &letter, &diploma, &fitness, &identity,
			&t.Observations, &decision, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan treatment: %w", err)
		}
		t.ID = id.TreatmentID(tID)
		t.ApplicationID = id.ApplicationID(appID)
		t.EvaluatorID = id.UserID(evaluatorID)
		t.Conformity = models.Conformity{
			CV:                 models.Judgement(cv),
			CoverLetter:        models.Judgement(letter),
			Diploma:            models.Judgement(diploma),
			FitnessCertificate: models.Judgement(fitness),
			IdentityDocument:   models.Judgement(identity),
		}
		t.Decision = models.Decision(decision)
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate treatments: %w", err)
	}
	return out, nil
}

func (s *TreatmentStore) Count(ctx context.Context, applicationID id.ApplicationID) (int, error) {
	var n int
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM treatments WHERE application_id = $1`,
		uuid.UUID(applicationID),
	).Scan(&n)
	if err != nil {
		return 0, translateErr(err, "count treatments")
	}
	return n, nil
}

// EvaluatorsByApplication maps every treated application to its evaluators,
// ordered by round.
func (s *TreatmentStore) EvaluatorsByApplication(ctx context.Context) (map[id.ApplicationID][]id.UserID, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT application_id, evaluator_id
		FROM treatments
		ORDER BY application_id, round ASC`)
	if err != nil {
		return nil, translateErr(err, "list evaluators")
	}
	defer rows.Close()

	out := make(map[id.ApplicationID][]id.UserID)
	for rows.Next() {
		var appID, evaluatorID uuid.UUID
		if err := rows.Scan(&appID, &evaluatorID); err != nil {
			return nil, fmt.Errorf("scan evaluator: %w", err)
		}
		key := id.ApplicationID(appID)
		out[key] = append(out[key], id.UserID(evaluatorID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluators: %w", err)
	}
	return out, nil
}
