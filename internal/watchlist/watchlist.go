// Package watchlist persists the accounts and deals a user has pinned for
// follow-up. Entries survive restarts and are scoped per user.
package watchlist

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/revops-cli/internal/config"
)

// SubjectType distinguishes what kind of record an entry points at.
type SubjectType string

const (
	SubjectAccount SubjectType = "account"
	SubjectDeal    SubjectType = "deal"
)

// Entry is one pinned record on a user's watchlist.
type Entry struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   string      `json:"subject_id"`
	SubjectName string      `json:"subject_name"`
	Note        string      `json:"note,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Store defines watchlist persistence. Both backends enforce one entry per
// (user, subject) pair; re-adding an existing subject updates its note.
type Store interface {
	Get(ctx context.Context, userID string) ([]Entry, error)
	Add(ctx context.Context, entry Entry) (*Entry, error)
	Remove(ctx context.Context, userID, subjectID string) error
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store named by the driver in config.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("watchlist: unknown store driver %q", cfg.Driver)
	}
}
