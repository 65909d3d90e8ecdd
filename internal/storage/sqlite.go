package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Storage is the catalog of generated reports
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance, opening/creating the DB and initializing schema
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// initSchema creates tables and indices if they don't exist
func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		domain TEXT NOT NULL,
		seed_url TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		pages_scanned INTEGER DEFAULT 0,
		report_path TEXT NOT NULL,
		report_name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_links (
		link_id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		category TEXT NOT NULL,
		url TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id),
		UNIQUE(run_id, category, url)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain);
	CREATE INDEX IF NOT EXISTS idx_run_links_run ON run_links(run_id, category);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores a run and its link sections in a single transaction
func (s *Storage) SaveRun(ctx context.Context, run Run, links []Link) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, domain, seed_url, started_at, finished_at, pages_scanned, report_path, report_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.Domain, run.SeedURL, run.StartedAt, run.FinishedAt, run.PagesScanned, run.ReportPath, run.ReportName)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_links (run_id, category, url)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, category, url) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer stmt.Close()

	for _, link := range links {
		if _, err := stmt.ExecContext(ctx, run.RunID, link.Category, link.URL); err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID, returns nil if not found
func (s *Storage) GetRun(ctx context.Context, runID string) (*Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, domain, seed_url, started_at, finished_at, pages_scanned, report_path, report_name
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(&run.RunID, &run.Domain, &run.SeedURL, &run.StartedAt, &run.FinishedAt,
		&run.PagesScanned, &run.ReportPath, &run.ReportName)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &run, nil
}

// ListLinks returns the URLs of one category for a run, sorted
func (s *Storage) ListLinks(ctx context.Context, runID, category string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url FROM run_links
		WHERE run_id = ? AND category = ?
		ORDER BY url ASC
	`, runID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		urls = append(urls, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return urls, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}
