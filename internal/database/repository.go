package database

import (
	"context"
	"fmt"
	"time"

	"go-jobradar/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobsTable = "jobs"

// mirrorBatch bounds the rows of one INSERT statement.
const mirrorBatch = 500

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	platform      TEXT        NOT NULL,
	job_id        TEXT        NOT NULL,
	title         TEXT        NOT NULL,
	company       TEXT        NOT NULL DEFAULT '',
	salary        TEXT        NOT NULL DEFAULT '',
	location      TEXT        NOT NULL DEFAULT '',
	link          TEXT        NOT NULL DEFAULT '',
	discovered_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (platform, job_id)
)`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repository mirrors accepted postings into Postgres. The CSV store stays the
// source of truth; the mirror only ever inserts.
type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnLifetime = time.Hour

	// PgBouncer in transaction mode cannot hold prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createJobsTable); err != nil {
		return fmt.Errorf("create jobs table: %w", err)
	}
	return nil
}

// MirrorJobs inserts jobs, skipping keys already present, and returns the
// number of rows inserted.
func (r *Repository) MirrorJobs(ctx context.Context, jobs []models.JobRecord) (int64, error) {
	var inserted int64
	for start := 0; start < len(jobs); start += mirrorBatch {
		end := min(start+mirrorBatch, len(jobs))
		query, args, err := mirrorQuery(jobs[start:end])
		if err != nil {
			return inserted, err
		}
		tag, err := r.db.Exec(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("failed to mirror jobs: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func mirrorQuery(jobs []models.JobRecord) (string, []any, error) {
	b := psql.Insert(jobsTable).
		Columns("platform", "job_id", "title", "company", "salary", "location", "link", "discovered_at").
		Suffix("ON CONFLICT (platform, job_id) DO NOTHING")
	for _, j := range jobs {
		b = b.Values(string(j.Platform), j.ID, j.Title, j.Company, j.Salary, j.Location, j.Link(), j.DiscoveredAt)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build mirror insert: %w", err)
	}
	return query, args, nil
}

// JobQuery narrows ListJobs. Zero values mean no restriction.
type JobQuery struct {
	Platform models.Platform
	Title    string
	Since    time.Time
	Limit    uint64
}

// ListJobs returns mirrored postings, newest first.
func (r *Repository) ListJobs(ctx context.Context, q JobQuery) ([]models.JobRecord, error) {
	query, args, err := listQuery(q)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var out []models.JobRecord
	for rows.Next() {
		var j models.JobRecord
		var platform string
		if err := rows.Scan(&platform, &j.ID, &j.Title, &j.Company, &j.Salary, &j.Location, &j.DiscoveredAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.Platform = models.Platform(platform)
		out = append(out, j)
	}
	return out, rows.Err()
}

func listQuery(q JobQuery) (string, []any, error) {
	b := psql.Select("platform", "job_id", "title", "company", "salary", "location", "discovered_at").
		From(jobsTable).
		OrderBy("discovered_at DESC", "platform", "job_id")
	if q.Platform != "" {
		b = b.Where(sq.Eq{"platform": string(q.Platform)})
	}
	if q.Title != "" {
		b = b.Where(sq.ILike{"title": "%" + q.Title + "%"})
	}
	if !q.Since.IsZero() {
		b = b.Where(sq.GtOrEq{"discovered_at": q.Since})
	}
	if q.Limit > 0 {
		b = b.Limit(q.Limit)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build job list query: %w", err)
	}
	return query, args, nil
}
