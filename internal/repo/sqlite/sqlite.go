package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migsqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/hamed0406/deadman/internal/domain"
	"github.com/hamed0406/deadman/internal/repo"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var _ repo.RecordStore = (*Store)(nil)

// Store is the file-backed record store. Timestamps and statuses are
// stored as text and decoded with the same helpers the wire codec uses.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open connects to the database file named by dsn and verifies the
// connection. The schema is untouched; call Migrate for that.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY
	// under concurrent report ingestion.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Migrate applies the embedded schema migrations. Safe to run on every
// startup: an already-migrated store is not an error.
func (s *Store) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	drv, err := migsqlite.WithInstance(s.db, &migsqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", drv)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, rec *domain.Record) error {
	var next, logs sql.NullString
	if rec.Next != nil {
		next = sql.NullString{String: domain.FormatTime(*rec.Next), Valid: true}
	}
	if rec.Logs != nil {
		logs = sql.NullString{String: *rec.Logs, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (path, status, ts, next, logs)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Path, string(rec.Status), domain.FormatTime(rec.TS), next, logs,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert record id: %w", err)
	}
	rec.ID = id
	return nil
}

// Latest selects one row per distinct path — the one with the greatest
// ts (ties broken by id, which is arbitrary but stable). RFC 3339 UTC
// text sorts chronologically, so ORDER BY on the text column is safe.
func (s *Store) Latest(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, path, status, ts, next, logs
  FROM (SELECT id, path, status, ts, next, logs,
               ROW_NUMBER() OVER (PARTITION BY path ORDER BY ts DESC, id DESC) AS rn
          FROM records)
 WHERE rn = 1
 ORDER BY ts DESC`)
	if err != nil {
		return nil, fmt.Errorf("latest: %w", err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var (
			id         int64
			path       string
			status     string
			ts         string
			next, logs sql.NullString
		)
		if err := rows.Scan(&id, &path, &status, &ts, &next, &logs); err != nil {
			return nil, fmt.Errorf("scan latest: %w", err)
		}

		rec := domain.Record{
			ID:     id,
			Path:   path,
			Status: domain.StatusFromString(status),
			TS:     domain.ParseTimeOrEpoch(ts),
		}
		if next.Valid {
			t := domain.ParseTimeOrEpoch(next.String)
			rec.Next = &t
		}
		if logs.Valid {
			v := logs.String
			rec.Logs = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
