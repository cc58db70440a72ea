package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/firefly/textproc/internal/config"
)

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id             VARCHAR(36) PRIMARY KEY,
	operation      VARCHAR(32) NOT NULL,
	source         TEXT        NOT NULL,
	input_bytes    BIGINT      NOT NULL,
	result_size    BIGINT      NOT NULL,
	case_sensitive BOOLEAN     NOT NULL,
	pattern        TEXT        NOT NULL,
	created_at     BIGINT      NOT NULL
)`

// Run is one recorded invocation
type Run struct {
	ID            string    `json:"id"`
	Operation     string    `json:"operation"`
	Source        string    `json:"source"`
	InputBytes    int       `json:"input_bytes"`
	ResultSize    int       `json:"result_size"`
	CaseSensitive bool      `json:"case_sensitive"`
	Pattern       string    `json:"pattern,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// runRow is the storage shape of Run; timestamps are unix nanoseconds so
// both drivers scan them the same way
type runRow struct {
	ID            string `db:"id"`
	Operation     string `db:"operation"`
	Source        string `db:"source"`
	InputBytes    int    `db:"input_bytes"`
	ResultSize    int    `db:"result_size"`
	CaseSensitive bool   `db:"case_sensitive"`
	Pattern       string `db:"pattern"`
	CreatedAt     int64  `db:"created_at"`
}

// Store persists runs
type Store struct {
	db *sqlx.DB
}

// Open connects to the history database and creates the schema if needed.
// For sqlite the DSN is a file path and its directory is created.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case config.DriverSQLite:
		path, err := config.ExpandPath(dsn)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
		dsn = path
	case config.DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if driver == config.DriverSQLite {
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout = 5000"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
			}
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores run, assigning an ID and timestamp when they are unset
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	row := runRow{
		ID:            run.ID,
		Operation:     run.Operation,
		Source:        run.Source,
		InputBytes:    run.InputBytes,
		ResultSize:    run.ResultSize,
		CaseSensitive: run.CaseSensitive,
		Pattern:       run.Pattern,
		CreatedAt:     run.CreatedAt.UnixNano(),
	}

	_, err := s.db.NamedExecContext(ctx, `INSERT INTO runs
		(id, operation, source, input_bytes, result_size, case_sensitive, pattern, created_at)
		VALUES (:id, :operation, :source, :input_bytes, :result_size, :case_sensitive, :pattern, :created_at)`, row)
	if err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []runRow
	query := s.db.Rebind(`SELECT id, operation, source, input_bytes, result_size, case_sensitive, pattern, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`)
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, Run{
			ID:            row.ID,
			Operation:     row.Operation,
			Source:        row.Source,
			InputBytes:    row.InputBytes,
			ResultSize:    row.ResultSize,
			CaseSensitive: row.CaseSensitive,
			Pattern:       row.Pattern,
			CreatedAt:     time.Unix(0, row.CreatedAt).UTC(),
		})
	}
	return runs, nil
}
