package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dispatch_parser/internal/dispatch"
)

// sqliteTime keeps a fixed width so stored timestamps sort as text.
const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores submissions in an embedded SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates a SQLite database at the given path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection serialises writers so appends never see SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (d *SQLite) Close() error {
	return d.db.Close()
}

func createSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		key TEXT PRIMARY KEY,
		contract_no TEXT NOT NULL,
		source TEXT NOT NULL,
		content TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
	CREATE INDEX IF NOT EXISTS idx_submissions_contract ON submissions(contract_no);

	-- no is the output sheet's No. column.
	CREATE TABLE IF NOT EXISTS parsed_rows (
		no INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_key TEXT NOT NULL UNIQUE REFERENCES submissions(key),
		record_json TEXT NOT NULL,
		strategy TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return migrateSQLiteSchema(db)
}

// migrateSQLiteSchema adds the strategy column to databases created before it existed.
func migrateSQLiteSchema(db *sql.DB) error {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('parsed_rows') WHERE name='strategy'`).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		if _, err := db.Exec(`ALTER TABLE parsed_rows ADD COLUMN strategy TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("add strategy column: %w", err)
		}
	}
	return nil
}

func (d *SQLite) timestamp() string {
	return d.now().UTC().Format(sqliteTime)
}

// Register implements Store.
func (d *SQLite) Register(ctx context.Context, sub Submission) (*Submission, bool, error) {
	if sub.Status == "" {
		sub.Status = dispatch.StatusPending
	}
	ts := d.timestamp()

	res, err := d.db.ExecContext(ctx, `
		INSERT INTO submissions (key, contract_no, source, content, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, sub.Key, sub.ContractNo, sub.Source, sub.Content, string(sub.Status), ts, ts)
	if err != nil {
		return nil, false, fmt.Errorf("insert submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	stored, err := d.Get(ctx, sub.Key)
	if err != nil {
		return nil, false, err
	}
	return stored, n == 1, nil
}

// Append implements Sink.
func (d *SQLite) Append(ctx context.Context, key string, rec *dispatch.Record, strategy string) (int, error) {
	if _, err := d.GetStatus(ctx, key); err != nil {
		return 0, err
	}
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshal record: %w", err)
	}

	if _, err := d.db.ExecContext(ctx, `
		INSERT INTO parsed_rows (submission_key, record_json, created_at, strategy)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(submission_key) DO NOTHING
	`, key, string(recJSON), d.timestamp(), strategy); err != nil {
		return 0, fmt.Errorf("insert row: %w", err)
	}

	var no int
	if err := d.db.QueryRowContext(ctx, `SELECT no FROM parsed_rows WHERE submission_key = ?`, key).Scan(&no); err != nil {
		return 0, fmt.Errorf("read row number: %w", err)
	}
	return no, nil
}

// SetStatus implements StatusStore.
func (d *SQLite) SetStatus(ctx context.Context, key string, status dispatch.Status) error {
	res, err := d.db.ExecContext(ctx, `UPDATE submissions SET status = ?, updated_at = ? WHERE key = ?`,
		string(status), d.timestamp(), key)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStatus implements StatusStore.
func (d *SQLite) GetStatus(ctx context.Context, key string) (dispatch.Status, error) {
	var status string
	err := d.db.QueryRowContext(ctx, `SELECT status FROM submissions WHERE key = ?`, key).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get status: %w", err)
	}
	return dispatch.Status(status), nil
}

const sqliteSelect = `
	SELECT s.key, s.contract_no, s.source, s.content, s.status, s.created_at, s.updated_at,
		COALESCE(r.no, 0), COALESCE(r.record_json, '')
	FROM submissions s
	LEFT JOIN parsed_rows r ON r.submission_key = s.key`

// Get implements Store.
func (d *SQLite) Get(ctx context.Context, key string) (*Submission, error) {
	row := d.db.QueryRowContext(ctx, sqliteSelect+` WHERE s.key = ?`, key)
	sub, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// List implements Store. Results are newest first.
func (d *SQLite) List(ctx context.Context, p ListParams) ([]Submission, error) {
	var conditions []string
	var args []any

	if p.Status != "" {
		conditions = append(conditions, "s.status = ?")
		args = append(args, string(p.Status))
	}
	if p.ContractNo != "" {
		conditions = append(conditions, "s.contract_no = ?")
		args = append(args, p.ContractNo)
	}

	query := sqliteSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.created_at DESC, s.key LIMIT ? OFFSET ?"
	args = append(args, p.limit(), p.Offset)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		sub, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(s scanner) (*Submission, error) {
	var (
		sub                  Submission
		status               string
		createdAt, updatedAt string
		recJSON              string
	)
	if err := s.Scan(&sub.Key, &sub.ContractNo, &sub.Source, &sub.Content, &status,
		&createdAt, &updatedAt, &sub.RowNo, &recJSON); err != nil {
		return nil, err
	}
	sub.Status = dispatch.Status(status)
	sub.CreatedAt, _ = time.Parse(sqliteTime, createdAt)
	sub.UpdatedAt, _ = time.Parse(sqliteTime, updatedAt)
	if err := decodeRecord(&sub, recJSON); err != nil {
		return nil, err
	}
	return &sub, nil
}

func decodeRecord(sub *Submission, recJSON string) error {
	if recJSON == "" {
		return nil
	}
	var rec dispatch.Record
	if err := json.Unmarshal([]byte(recJSON), &rec); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	sub.Record = &rec
	return nil
}
