package postgres

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/internal/domain/scan"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// ScanRepository stores and retrieves scan runs with their verdicts.
type ScanRepository interface {
	SaveRun(ctx context.Context, run *scan.Run, verdicts []*scan.VerdictRecord) error
	GetRun(ctx context.Context, id uuid.UUID) (*scan.Run, []*scan.VerdictRecord, error)
	ListRuns(ctx context.Context, industry string, limit int) ([]*scan.Run, error)
}

type scanRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewScanRepository builds the PostgreSQL-backed repository.
func NewScanRepository(pool *pgxpool.Pool, logger logging.Logger) ScanRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &scanRepository{pool: pool, logger: logger}
}

// SaveRun writes the run and its verdict rows in a single transaction.
func (r *scanRepository) SaveRun(ctx context.Context, run *scan.Run, verdicts []*scan.VerdictRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO scan_runs (
			id, industry, post_limit, broadened, total_posts, relevant,
			report_path, started_at, finished_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		run.ID, run.Industry, run.Limit, run.Broadened, run.TotalPosts,
		run.Relevant, run.ReportPath, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert scan run")
	}

	if len(verdicts) > 0 {
		rows := make([][]interface{}, 0, len(verdicts))
		for _, v := range verdicts {
			if v == nil {
				continue
			}
			rows = append(rows, []interface{}{
				v.ID, v.RunID, v.PostURL, v.PostTitle,
				v.AspectScore, v.SemanticScore,
				string(v.Classification), v.Confidence, v.Reasoning,
				string(v.PainType), v.Fallback, v.CreatedAt,
			})
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"scan_verdicts"},
			[]string{
				"id", "run_id", "post_url", "post_title",
				"aspect_score", "semantic_score",
				"classification", "confidence", "reasoning",
				"pain_type", "fallback", "created_at",
			},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert verdicts")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit scan run")
	}

	r.logger.Debug("Saved scan run",
		logging.String("run_id", run.ID.String()),
		logging.Int("verdicts", len(verdicts)),
	)
	return nil
}

// GetRun loads a run and its verdicts ordered by aspect score descending.
func (r *scanRepository) GetRun(ctx context.Context, id uuid.UUID) (*scan.Run, []*scan.VerdictRecord, error) {
	run := &scan.Run{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, industry, post_limit, broadened, total_posts, relevant,
		       report_path, started_at, finished_at
		FROM scan_runs WHERE id = $1`, id,
	).Scan(
		&run.ID, &run.Industry, &run.Limit, &run.Broadened, &run.TotalPosts,
		&run.Relevant, &run.ReportPath, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, nil, errors.New(errors.ErrCodeRunNotFound, "scan run not found")
		}
		return nil, nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load scan run")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, run_id, post_url, post_title, aspect_score, semantic_score,
		       classification, confidence, reasoning, pain_type, fallback, created_at
		FROM scan_verdicts WHERE run_id = $1
		ORDER BY aspect_score DESC, post_url ASC`, id)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load verdicts")
	}
	defer rows.Close()

	var verdicts []*scan.VerdictRecord
	for rows.Next() {
		v := &scan.VerdictRecord{}
		var classification, painType string
		if err := rows.Scan(
			&v.ID, &v.RunID, &v.PostURL, &v.PostTitle,
			&v.AspectScore, &v.SemanticScore,
			&classification, &v.Confidence, &v.Reasoning,
			&painType, &v.Fallback, &v.CreatedAt,
		); err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan verdict row")
		}
		v.Classification, _ = post.ParseClassification(classification)
		v.PainType = post.ParsePainType(painType)
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "verdict row iteration failed")
	}

	return run, verdicts, nil
}

// ListRuns returns the most recent runs, optionally filtered by industry.
func (r *scanRepository) ListRuns(ctx context.Context, industry string, limit int) ([]*scan.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, industry, post_limit, broadened, total_posts, relevant,
		       report_path, started_at, finished_at
		FROM scan_runs`
	args := []interface{}{}
	if industry != "" {
		query += ` WHERE industry = $1`
		args = append(args, industry)
	}
	query += fmt.Sprintf(` ORDER BY started_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list scan runs")
	}
	defer rows.Close()

	var runs []*scan.Run
	for rows.Next() {
		run := &scan.Run{}
		if err := rows.Scan(
			&run.ID, &run.Industry, &run.Limit, &run.Broadened, &run.TotalPosts,
			&run.Relevant, &run.ReportPath, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan run row")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "run row iteration failed")
	}
	return runs, nil
}
