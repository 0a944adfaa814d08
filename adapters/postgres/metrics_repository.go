package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"climattr/domain/attribution"
	"climattr/internal/errors"
	"climattr/ports"
)

// MetricsRepositoryImpl implements MetricsRepository for PostgreSQL
type MetricsRepositoryImpl struct {
	db *sqlx.DB
}

// NewMetricsRepository creates a new PostgreSQL metrics repository
func NewMetricsRepository(db *sqlx.DB) ports.MetricsRepository {
	return &MetricsRepositoryImpl{db: db}
}

// Schema creates the tables when they do not exist yet
func (r *MetricsRepositoryImpl) Schema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS attribution_runs (
			id           UUID PRIMARY KEY,
			fit_function TEXT NOT NULL,
			threshold    DOUBLE PRECISION NOT NULL,
			direction    TEXT NOT NULL,
			bootstrap_ci INT NOT NULL,
			boot_size    INT NOT NULL,
			n_all        INT NOT NULL,
			n_nat        INT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS attribution_metrics (
			run_id UUID NOT NULL REFERENCES attribution_runs(id) ON DELETE CASCADE,
			metric TEXT NOT NULL,
			value  DOUBLE PRECISION NOT NULL,
			ci_inf DOUBLE PRECISION NOT NULL,
			ci_sup DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, metric)
		)`)
	return errors.Wrap(err, "failed to create attribution schema")
}

// SaveRun stores a run and its metric rows in one transaction
func (r *MetricsRepositoryImpl) SaveRun(ctx context.Context, run attribution.Run) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO attribution_runs (id, fit_function, threshold, direction, bootstrap_ci, boot_size, n_all, n_nat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.FitFunction, run.Threshold, run.Direction,
		run.BootstrapCI, run.BootSize, run.NAll, run.NNat)
	if err != nil {
		return errors.Wrap(err, "failed to insert run")
	}

	for _, row := range run.Result.Rows {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO attribution_metrics (run_id, metric, value, ci_inf, ci_sup)
			VALUES ($1, $2, $3, $4, $5)`,
			run.ID, row.Metric, row.Value, row.CIInf, row.CISup)
		if err != nil {
			return errors.Wrapf(err, "failed to insert metric %s", row.Metric)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit run")
}

// GetRun loads a run and its metric rows
func (r *MetricsRepositoryImpl) GetRun(ctx context.Context, id string) (*attribution.Run, error) {
	var run attribution.Run
	err := r.db.GetContext(ctx, &run, `
		SELECT id, fit_function, threshold, direction, bootstrap_ci, boot_size, n_all, n_nat
		FROM attribution_runs WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("attribution run")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load run")
	}

	err = r.db.SelectContext(ctx, &run.Result.Rows, `
		SELECT metric, value, ci_inf, ci_sup
		FROM attribution_metrics WHERE run_id = $1 ORDER BY metric`, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load metric rows")
	}
	return &run, nil
}

// ListRuns returns the most recent runs without their metric rows
func (r *MetricsRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]attribution.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []attribution.Run
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, fit_function, threshold, direction, bootstrap_ci, boot_size, n_all, n_nat
		FROM attribution_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	return runs, nil
}
