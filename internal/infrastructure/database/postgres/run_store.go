package postgres

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// Run history list bounds.
const (
	DefaultRunListLimit = 50
	MaxRunListLimit     = 1000
)

// DBTX is the subset of pgxpool.Pool the store uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const runColumns = `run_id, status, scale, radius, distance_mode, residues, cached,
	archive_key, error_code, error_message, duration_ms, created_at, updated_at`

// A queued record never overwrites an existing row: the worker may have
// picked the job up before the API recorded it.
const upsertRunSQL = `
	INSERT INTO moment_runs (
		run_id, status, scale, radius, distance_mode, residues, cached,
		archive_key, error_code, error_message, duration_ms, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	ON CONFLICT (run_id) DO UPDATE SET
		status        = EXCLUDED.status,
		scale         = EXCLUDED.scale,
		radius        = EXCLUDED.radius,
		distance_mode = EXCLUDED.distance_mode,
		residues      = EXCLUDED.residues,
		cached        = EXCLUDED.cached,
		archive_key   = EXCLUDED.archive_key,
		error_code    = EXCLUDED.error_code,
		error_message = EXCLUDED.error_message,
		duration_ms   = EXCLUDED.duration_ms,
		updated_at    = NOW()
	WHERE EXCLUDED.status <> 'queued'`

// RunStore persists RunRecords in the moment_runs table.
type RunStore struct {
	db     DBTX
	logger logging.Logger
}

// NewRunStore creates a RunStore over db, normally a *pgxpool.Pool.
func NewRunStore(db DBTX, logger logging.Logger) *RunStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RunStore{db: db, logger: logger}
}

// Upsert inserts rec or updates the existing row with the same run id.
func (s *RunStore) Upsert(ctx context.Context, rec *htypes.RunRecord) error {
	if rec == nil || rec.RunID == "" {
		return errors.InvalidParam("run id is required")
	}
	if !htypes.ValidStatus(rec.Status) {
		return errors.InvalidParam("unknown run status").WithDetail("status=" + rec.Status)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx, upsertRunSQL,
		rec.RunID, rec.Status, rec.Scale, rec.Radius, rec.DistanceMode, rec.Residues, rec.Cached,
		rec.ArchiveKey, rec.ErrorCode, truncate(rec.ErrorMessage, 1024), rec.DurationMs, createdAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to record run").WithDetail(rec.RunID)
	}
	s.logger.Debug("Run recorded", logging.RunID(rec.RunID), logging.String("status", rec.Status))
	return nil
}

// Get returns the record of runID.
func (s *RunStore) Get(ctx context.Context, runID string) (*htypes.RunRecord, error) {
	row := s.db.QueryRow(ctx, `SELECT `+runColumns+` FROM moment_runs WHERE run_id = $1`, runID)
	rec, err := scanRun(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run not found").WithDetail(runID)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load run").WithDetail(runID)
	}
	return rec, nil
}

// List returns up to limit records, newest first, optionally filtered by
// status. limit ≤ 0 selects DefaultRunListLimit.
func (s *RunStore) List(ctx context.Context, limit int, status string) ([]*htypes.RunRecord, error) {
	if limit <= 0 {
		limit = DefaultRunListLimit
	}
	if limit > MaxRunListLimit {
		limit = MaxRunListLimit
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + runColumns + ` FROM moment_runs`)
	if status != "" {
		args = append(args, status)
		sb.WriteString(` WHERE status = $1`)
	}
	args = append(args, limit)
	sb.WriteString(` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)))

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list runs")
	}
	defer rows.Close()

	out := make([]*htypes.RunRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan run")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list runs")
	}
	return out, nil
}

// DeleteBefore removes finished runs created before cutoff and returns the
// number of rows deleted.
func (s *RunStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM moment_runs WHERE created_at < $1 AND status IN ('completed', 'failed')`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete runs")
	}
	return tag.RowsAffected(), nil
}

func scanRun(row pgx.Row) (*htypes.RunRecord, error) {
	var rec htypes.RunRecord
	err := row.Scan(
		&rec.RunID, &rec.Status, &rec.Scale, &rec.Radius, &rec.DistanceMode, &rec.Residues, &rec.Cached,
		&rec.ArchiveKey, &rec.ErrorCode, &rec.ErrorMessage, &rec.DurationMs, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

//Personal.AI order the ending
