package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dispatch_parser/internal/dispatch"
)

// Postgres stores submissions in PostgreSQL for multi-instance deployments.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, connStr string) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *Postgres) Close() error {
	d.pool.Close()
	return nil
}

// CreateSchema creates the PostgreSQL tables.
func (d *Postgres) CreateSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		key             TEXT PRIMARY KEY,
		contract_no     TEXT NOT NULL,
		source          TEXT NOT NULL,
		content         TEXT NOT NULL,
		status          TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
	CREATE INDEX IF NOT EXISTS idx_submissions_contract ON submissions(contract_no);

	CREATE TABLE IF NOT EXISTS parsed_rows (
		no              SERIAL PRIMARY KEY,
		submission_key  TEXT NOT NULL UNIQUE REFERENCES submissions(key) ON DELETE CASCADE,
		record_json     JSONB NOT NULL,
		strategy        TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	_, err := d.pool.Exec(ctx, schema)
	return err
}

// Register implements Store.
func (d *Postgres) Register(ctx context.Context, sub Submission) (*Submission, bool, error) {
	if sub.Status == "" {
		sub.Status = dispatch.StatusPending
	}

	tag, err := d.pool.Exec(ctx, `
		INSERT INTO submissions (key, contract_no, source, content, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO NOTHING
	`, sub.Key, sub.ContractNo, sub.Source, sub.Content, string(sub.Status))
	if err != nil {
		return nil, false, fmt.Errorf("insert submission: %w", err)
	}

	stored, err := d.Get(ctx, sub.Key)
	if err != nil {
		return nil, false, err
	}
	return stored, tag.RowsAffected() == 1, nil
}

// Append implements Sink.
func (d *Postgres) Append(ctx context.Context, key string, rec *dispatch.Record, strategy string) (int, error) {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshal record: %w", err)
	}

	// The no-op update lets RETURNING yield the existing row number.
	var no int
	err = d.pool.QueryRow(ctx, `
		INSERT INTO parsed_rows (submission_key, record_json, strategy)
		SELECT key, $2::jsonb, $3::text FROM submissions WHERE key = $1
		ON CONFLICT (submission_key) DO UPDATE SET submission_key = EXCLUDED.submission_key
		RETURNING no
	`, key, string(recJSON), strategy).Scan(&no)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("insert row: %w", err)
	}
	return no, nil
}

// SetStatus implements StatusStore.
func (d *Postgres) SetStatus(ctx context.Context, key string, status dispatch.Status) error {
	tag, err := d.pool.Exec(ctx, `UPDATE submissions SET status = $1, updated_at = NOW() WHERE key = $2`,
		string(status), key)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStatus implements StatusStore.
func (d *Postgres) GetStatus(ctx context.Context, key string) (dispatch.Status, error) {
	var status string
	err := d.pool.QueryRow(ctx, `SELECT status FROM submissions WHERE key = $1`, key).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get status: %w", err)
	}
	return dispatch.Status(status), nil
}

const postgresSelect = `
	SELECT s.key, s.contract_no, s.source, s.content, s.status, s.created_at, s.updated_at,
		COALESCE(r.no, 0), COALESCE(r.record_json::text, '')
	FROM submissions s
	LEFT JOIN parsed_rows r ON r.submission_key = s.key`

// Get implements Store.
func (d *Postgres) Get(ctx context.Context, key string) (*Submission, error) {
	sub, err := scanPostgres(d.pool.QueryRow(ctx, postgresSelect+` WHERE s.key = $1`, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// List implements Store. Results are newest first.
func (d *Postgres) List(ctx context.Context, p ListParams) ([]Submission, error) {
	var conditions []string
	var args []any

	if p.Status != "" {
		args = append(args, string(p.Status))
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)))
	}
	if p.ContractNo != "" {
		args = append(args, p.ContractNo)
		conditions = append(conditions, fmt.Sprintf("s.contract_no = $%d", len(args)))
	}

	query := postgresSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, p.limit(), p.Offset)
	query += fmt.Sprintf(" ORDER BY s.created_at DESC, s.key LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		sub, err := scanPostgres(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func scanPostgres(s scanner) (*Submission, error) {
	var (
		sub     Submission
		status  string
		recJSON string
	)
	if err := s.Scan(&sub.Key, &sub.ContractNo, &sub.Source, &sub.Content, &status,
		&sub.CreatedAt, &sub.UpdatedAt, &sub.RowNo, &recJSON); err != nil {
		return nil, err
	}
	sub.Status = dispatch.Status(status)
	if err := decodeRecord(&sub, recJSON); err != nil {
		return nil, err
	}
	return &sub, nil
}
