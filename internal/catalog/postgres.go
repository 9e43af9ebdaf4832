// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/models"
)

const (
	selectScholarships = `SELECT id, title, provider, amount, type, description, deadline, eligibility, application_link FROM scholarships ORDER BY id`

	upsertScholarship = `INSERT INTO scholarships (title, provider, amount, type, description, deadline, eligibility, application_link, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
ON CONFLICT (title) DO UPDATE SET
	provider = EXCLUDED.provider,
	amount = EXCLUDED.amount,
	type = EXCLUDED.type,
	description = EXCLUDED.description,
	deadline = EXCLUDED.deadline,
	eligibility = EXCLUDED.eligibility,
	application_link = EXCLUDED.application_link,
	updated_at = NOW()
RETURNING id`
)

// PostgresSource reads the catalog from the scholarships table.
type PostgresSource struct {
	db     *sql.DB
	limit  int
	logger logger.Logger
}

// NewPostgresSource reads at most limit rows per snapshot; limit <= 0 means all.
func NewPostgresSource(db *sql.DB, limit int, log logger.Logger) *PostgresSource {
	return &PostgresSource{
		db:     db,
		limit:  limit,
		logger: logger.ForComponent(log, "catalog-postgres"),
	}
}

func (p *PostgresSource) Name() string { return "postgres" }

func (p *PostgresSource) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.db.PingContext(ctx); err != nil {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	return nil
}

func (p *PostgresSource) FetchAll(ctx context.Context) ([]models.Scholarship, error) {
	query := selectScholarships
	var args []interface{}
	if p.limit > 0 {
		query += " LIMIT $1"
		args = append(args, p.limit)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError(string(models.QueryTypeScholarshipCatalog))
		}
		return nil, apperrors.NewQueryExecutionFailedError(string(models.QueryTypeScholarshipCatalog), err)
	}
	defer rows.Close()

	items := make([]models.Scholarship, 0)
	for rows.Next() {
		s, err := p.scan(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError(string(models.QueryTypeScholarshipCatalog), err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(string(models.QueryTypeScholarshipCatalog), err)
	}

	p.logger.Debug("catalog snapshot loaded", map[string]interface{}{"count": len(items)})
	return items, nil
}

func (p *PostgresSource) scan(rows *sql.Rows) (models.Scholarship, error) {
	var (
		s           models.Scholarship
		deadline    sql.NullTime
		eligibility sql.NullString
	)
	if err := rows.Scan(&s.ID, &s.Title, &s.Provider, &s.Amount, &s.Type, &s.Description,
		&deadline, &eligibility, &s.ApplicationLink); err != nil {
		return s, fmt.Errorf("scan scholarship: %w", err)
	}

	if deadline.Valid {
		s.Deadline = models.Date{Time: deadline.Time}
	}

	s.Eligibility = []string{}
	if eligibility.Valid && eligibility.String != "" {
		if err := json.Unmarshal([]byte(eligibility.String), &s.Eligibility); err != nil {
			p.logger.Warn("ignoring malformed eligibility", map[string]interface{}{
				"id":    s.ID,
				"error": err.Error(),
			})
			s.Eligibility = []string{}
		}
	}
	return s, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Upsert inserts or updates a scholarship keyed by title and returns its id.
func (p *PostgresSource) Upsert(ctx context.Context, s models.Scholarship) (int64, error) {
	return upsert(ctx, p.db, s)
}

// UpsertAll upserts every item in one transaction.
func (p *PostgresSource) UpsertAll(ctx context.Context, items []models.Scholarship) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.NewDatabaseConnectionFailedError(err)
	}

	for i, s := range items {
		if s.Title == "" {
			_ = tx.Rollback()
			return 0, apperrors.NewInvalidInputError(fmt.Sprintf("scholarship %d has no title", i))
		}
		if _, err := upsert(ctx, tx, s); err != nil {
			_ = tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.NewQueryExecutionFailedError(string(models.QueryTypeScholarshipCatalog), err)
	}
	p.logger.Info("catalog upserted", map[string]interface{}{"count": len(items)})
	return len(items), nil
}

func upsert(ctx context.Context, q queryRower, s models.Scholarship) (int64, error) {
	eligibility := s.Eligibility
	if eligibility == nil {
		eligibility = []string{}
	}
	elig, err := json.Marshal(eligibility)
	if err != nil {
		return 0, fmt.Errorf("encode eligibility: %w", err)
	}

	var deadline interface{}
	if !s.Deadline.IsZero() {
		deadline = s.Deadline.Time
	}

	var id int64
	if err := q.QueryRowContext(ctx, upsertScholarship,
		s.Title, s.Provider, s.Amount, s.Type, s.Description, deadline, string(elig), s.ApplicationLink,
	).Scan(&id); err != nil {
		return 0, apperrors.NewQueryExecutionFailedError(string(models.QueryTypeScholarshipByTitle), err)
	}
	return id, nil
}
