package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/viper"
)

const (
	PathKey = "history.path"

	defaultDir      = ".evertext"
	defaultFileName = "history.db"
	dirMode         = 0o700
	// DefaultRecentLimit applies when Recent is called with a non-positive limit.
	DefaultRecentLimit = 20
	maxRecentPrealloc  = 256
)

// Store keeps one row per session attempt.
type Store struct {
	db    *sql.DB
	path  string
	clock ports.Clock
}

var _ ports.RunRecorder = (*Store)(nil)

func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, defaultDir, defaultFileName), nil
}

func NewStore(ctx context.Context, cfg *viper.Viper, clock ports.Clock) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(PathKey)
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	return Open(ctx, path, clock)
}

// Open creates the database file when missing and applies pending migrations.
// The path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, clock ports.Clock) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	store := &Store{db: db, path: path, clock: clock}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}

	return store, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record assigns an id when the record has none.
func (s *Store) Record(ctx context.Context, record domain.RunRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.FinishedAt.IsZero() {
		record.FinishedAt = s.clock.Now()
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = record.FinishedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, account, outcome, message, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Account,
		string(record.Outcome),
		record.Message,
		record.StartedAt.UnixMilli(),
		record.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}

	return nil
}

// Recent returns the newest records first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account, outcome, message, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query run records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.RunRecord, 0, min(limit, maxRecentPrealloc))
	for rows.Next() {
		var (
			record     domain.RunRecord
			outcome    string
			startedAt  int64
			finishedAt int64
		)
		if err := rows.Scan(&record.ID, &record.Account, &outcome, &record.Message, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		record.Outcome = domain.OutcomeKind(outcome)
		record.StartedAt = time.UnixMilli(startedAt).UTC()
		record.FinishedAt = time.UnixMilli(finishedAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run records: %w", err)
	}

	return records, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback: %w", errors.Join(err, rbErr))
		}
		return err
	}

	return tx.Commit()
}
