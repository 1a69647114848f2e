package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			label TEXT,
			site_id TEXT NOT NULL,
			severity TEXT NOT NULL,
			severity_rank INTEGER NOT NULL,
			energy_mt REAL NOT NULL,
			casualties INTEGER NOT NULL,
			params TEXT NOT NULL,
			site TEXT NOT NULL,
			assessment TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);
		CREATE INDEX IF NOT EXISTS idx_results_site_id ON results(site_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Add(ctx context.Context, r *models.SavedResult) error {
	params, err := json.Marshal(r.Params)
	if err != nil {
		return fmt.Errorf("error encoding params: %w", err)
	}
	site, err := json.Marshal(r.Site)
	if err != nil {
		return fmt.Errorf("error encoding site: %w", err)
	}
	assessment, err := json.Marshal(r.Assessment)
	if err != nil {
		return fmt.Errorf("error encoding assessment: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (id, label, site_id, severity, severity_rank, energy_mt, casualties, params, site, assessment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Label, r.Site.ID, string(r.Assessment.SeverityLevel), r.Assessment.SeverityLevel.Rank(),
		r.Assessment.EnergyMt, r.Assessment.Casualties, string(params), string(site), string(assessment),
		r.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error inserting result %s: %w", r.ID, err)
	}
	return nil
}

// GetByID returns ErrNotFound when no result has the id.
func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.SavedResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, params, site, assessment, created_at
		FROM results WHERE id = ?`, id)

	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading result %s: %w", id, err)
	}
	return r, nil
}

// ListResults returns results newest first.
func (s *SQLiteDB) ListResults(ctx context.Context, opts Filter) ([]models.SavedResult, error) {
	var (
		where []string
		args  []any
	)
	if opts.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, opts.Since.UTC())
	}
	if opts.SiteID != nil {
		where = append(where, "site_id = ?")
		args = append(args, *opts.SiteID)
	}
	if opts.MinSeverity != nil {
		where = append(where, "severity_rank >= ?")
		args = append(args, opts.MinSeverity.Rank())
	}

	query := "SELECT id, label, params, site, assessment, created_at FROM results"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, max(0, opts.Offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing results: %w", err)
	}
	defer rows.Close()

	var results []models.SavedResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning result: %w", err)
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

func (s *SQLiteDB) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM results WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting result %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting result %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (*models.SavedResult, error) {
	var (
		r                        models.SavedResult
		label                    sql.NullString
		params, site, assessment string
		createdAt                time.Time
	)
	if err := sc.Scan(&r.ID, &label, &params, &site, &assessment, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return nil, fmt.Errorf("error decoding params: %w", err)
	}
	if err := json.Unmarshal([]byte(site), &r.Site); err != nil {
		return nil, fmt.Errorf("error decoding site: %w", err)
	}
	if err := json.Unmarshal([]byte(assessment), &r.Assessment); err != nil {
		return nil, fmt.Errorf("error decoding assessment: %w", err)
	}
	r.Label = label.String
	r.CreatedAt = createdAt
	return &r, nil
}
