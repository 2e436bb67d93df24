package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Joenyengs/backend/internal/evaluation/eligibility"
	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
	txcontext "github.com/Joenyengs/backend/pkg/platform/tx"
)

const applicationColumns = `id, reference, candidate_id, status, admin_comment,
	birth_date, education_level, nationality, origin_region,
	doc_cv, doc_cover_letter, doc_diploma, doc_fitness, doc_identity,
	eligibility_reasons, created_at, updated_at`

// ApplicationStore persists applications in PostgreSQL.
type ApplicationStore struct {
	db *sql.DB
}

func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

func (s *ApplicationStore) Create(ctx context.Context, app *models.Application) error {
	var birth any
	if app.Profile.BirthDate != nil {
		birth = *app.Profile.BirthDate
	}
	reasons := app.EligibilityReasons
	if reasons == nil {
		reasons = []string{}
	}
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		uuid.UUID(app.ID), app.Reference, uuid.UUID(app.CandidateID), string(app.Status), app.AdminComment,
		birth, app.Profile.EducationLevel, app.Profile.Nationality, app.Profile.OriginRegion,
		app.Documents.CV, app.Documents.CoverLetter, app.Documents.Diploma,
		app.Documents.FitnessCertificate, app.Documents.IdentityDocument,
		pq.Array(reasons), app.CreatedAt, app.UpdatedAt,
	)
	return translateErr(err, "insert application")
}

// FindByID locks the row when called inside a scope.
func (s *ApplicationStore) FindByID(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`+lockClause(ctx),
		uuid.UUID(applicationID),
	)
	app, err := scanApplication(row)
	if err != nil {
		return nil, translateErr(err, "find application")
	}
	return app, nil
}

func (s *ApplicationStore) FindByCandidate(ctx context.Context, candidateID id.UserID) (*models.Application, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE candidate_id = $1`,
		uuid.UUID(candidateID),
	)
	app, err := scanApplication(row)
	if err != nil {
		return nil, translateErr(err, "find application by candidate")
	}
	return app, nil
}

// List returns applications oldest first, filtered by status when statuses
// is non-empty.
func (s *ApplicationStore) List(ctx context.Context, statuses []models.Status) ([]*models.Application, error) {
	filter := make([]string, len(statuses))
	for i, st := range statuses {
		filter[i] = string(st)
	}
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE cardinality($1::text[]) = 0 OR status = ANY($1::text[])
		ORDER BY created_at ASC, id ASC`,
		pq.Array(filter),
	)
	if err != nil {
		return nil, translateErr(err, "list applications")
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

// Update writes the mutable fields: status and admin comment.
func (s *ApplicationStore) Update(ctx context.Context, app *models.Application) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE applications
		SET status = $2, admin_comment = $3, updated_at = $4
		WHERE id = $1`,
		uuid.UUID(app.ID), string(app.Status), app.AdminComment, app.UpdatedAt,
	)
	if err != nil {
		return translateErr(err, "update application")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *ApplicationStore) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, translateErr(err, "count applications")
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[models.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

// ExclusionStats reads the pre-filter reasons stored on each application.
func (s *ApplicationStore) ExclusionStats(ctx context.Context) (models.ExclusionStats, error) {
	stats := models.ExclusionStats{ByReason: map[string]int{}, ByNationality: map[string]int{}}
	exec := txcontext.Exec(ctx, s.db)

	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE cardinality(eligibility_reasons) > 0`,
	).Scan(&stats.Excluded)
	if err != nil {
		return stats, translateErr(err, "count exclusions")
	}
	if err := countInto(ctx, exec, stats.ByReason, "exclusion reasons", `
		SELECT reason, COUNT(*)
		FROM applications, unnest(eligibility_reasons) AS reason
		GROUP BY reason`); err != nil {
		return stats, err
	}
	if err := countInto(ctx, exec, stats.ByNationality, "nationality exclusions", `
		SELECT nationality, COUNT(*)
		FROM applications
		WHERE $1 = ANY(eligibility_reasons)
		GROUP BY nationality`, string(eligibility.ReasonNationality)); err != nil {
		return stats, err
	}
	return stats, nil
}

// countInto fills dst from a (key, count) query.
func countInto(ctx context.Context, exec txcontext.Executor, dst map[string]int, what, query string, args ...any) error {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return translateErr(err, "count "+what)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("scan %s: %w", what, err)
		}
		dst[key] = n
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", what, err)
	}
	return nil
}

func scanApplication(row scanner) (*models.Application, error) {
	var (
		app         models.Application
		appID       uuid.UUID
		candidateID uuid.UUID
		status      string
		birth       sql.NullTime
		reasons     []string
	)
	err := row.Scan(
		&appID, &app.Reference, &candidateID, &status, &app.AdminComment,
		&birth, &app.Profile.EducationLevel, &app.Profile.Nationality, &app.Profile.OriginRegion,
		&app.Documents.CV, &app.Documents.CoverLetter, &app.Documents.Diploma,
		&app.Documents.FitnessCertificate, &app.Documents.IdentityDocument,
		pq.Array(&reasons), &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	app.ID = id.ApplicationID(appID)
	app.CandidateID = id.UserID(candidateID)
	app.Status = models.Status(status)
	if birth.Valid {
		t := birth.Time
		app.Profile.BirthDate = &t
	}
	if len(reasons) > 0 {
		app.EligibilityReasons = reasons
	}
	return &app, nil
}
