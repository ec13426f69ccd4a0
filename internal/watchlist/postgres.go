package watchlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock's pool
// interface satisfies it, which keeps the store unit-testable without a
// database.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS watchlist_entries (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id      TEXT NOT NULL,
	subject_type TEXT NOT NULL,
	subject_id   TEXT NOT NULL,
	subject_name TEXT NOT NULL,
	note         TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, subject_id)
);

CREATE INDEX IF NOT EXISTS idx_watchlist_user ON watchlist_entries(user_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, subject_type, subject_id, subject_name, note, created_at
		 FROM watchlist_entries WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get watchlist for %s", userID)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.SubjectType, &e.SubjectID,
			&e.SubjectName, &e.Note, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: iterate entries")
}

func (s *PostgresStore) Add(ctx context.Context, entry Entry) (*Entry, error) {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO watchlist_entries (id, user_id, subject_type, subject_id, subject_name, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, subject_id) DO UPDATE SET note = EXCLUDED.note`,
		entry.ID, entry.UserID, string(entry.SubjectType), entry.SubjectID,
		entry.SubjectName, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: add %s to watchlist", entry.SubjectID)
	}
	return &entry, nil
}

func (s *PostgresStore) Remove(ctx context.Context, userID, subjectID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM watchlist_entries WHERE user_id = $1 AND subject_id = $2`,
		userID, subjectID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: remove %s from watchlist", subjectID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("watchlist entry not found: %s", subjectID)
	}
	return nil
}
