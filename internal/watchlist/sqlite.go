package watchlist

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS watchlist_entries (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	subject_type TEXT NOT NULL,
	subject_id   TEXT NOT NULL,
	subject_name TEXT NOT NULL,
	note         TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (user_id, subject_id)
);

CREATE INDEX IF NOT EXISTS idx_watchlist_user ON watchlist_entries(user_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, subject_type, subject_id, subject_name, note, created_at
		 FROM watchlist_entries WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get watchlist for %s", userID)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.SubjectType, &e.SubjectID,
			&e.SubjectName, &e.Note, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: iterate entries")
}

func (s *SQLiteStore) Add(ctx context.Context, entry Entry) (*Entry, error) {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO watchlist_entries (id, user_id, subject_type, subject_id, subject_name, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, subject_id) DO UPDATE SET note = excluded.note`,
		entry.ID, entry.UserID, string(entry.SubjectType), entry.SubjectID,
		entry.SubjectName, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: add %s to watchlist", entry.SubjectID)
	}
	return &entry, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, userID, subjectID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist_entries WHERE user_id = ? AND subject_id = ?`,
		userID, subjectID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: remove %s from watchlist", subjectID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("watchlist entry not found: %s", subjectID)
	}
	return nil
}
