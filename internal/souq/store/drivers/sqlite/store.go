package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/souq/internal/souq/domain"
	"github.com/aussiebroadwan/souq/internal/souq/store"
	_ "modernc.org/sqlite"
)

// Keys of the session_kv table.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
)

var _ store.Tokens = (*Store)(nil)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One connection keeps ":memory:" databases alive across calls and
	// serialises writers within the process.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// withTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Save(ctx context.Context, sess domain.Session, p *domain.UserProfile) error {
	var profile []byte
	if p != nil {
		var err error
		if profile, err = json.Marshal(p); err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := put(ctx, tx, keyAccessToken, sess.AccessToken); err != nil {
			return err
		}
		if err := put(ctx, tx, keyRefreshToken, sess.RefreshToken); err != nil {
			return err
		}
		return put(ctx, tx, keyUser, string(profile))
	})
}

func (s *Store) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	profile, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return put(ctx, tx, keyUser, string(profile))
	})
}

func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session_kv WHERE key IN (?, ?, ?)`,
		keyAccessToken, keyRefreshToken, keyUser)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()

	var snap store.Snapshot
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return store.Snapshot{}, err
		}
		switch key {
		case keyAccessToken:
			snap.Session.AccessToken = value
		case keyRefreshToken:
			snap.Session.RefreshToken = value
		case keyUser:
			snap.Profile = decodeProfile(value)
		}
	}
	if err := rows.Err(); err != nil {
		return store.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM session_kv WHERE key IN (?, ?, ?)`,
			keyAccessToken, keyRefreshToken, keyUser)
		return err
	})
}

// put upserts key. An empty value removes the row so absent and empty
// read back the same way.
func put(ctx context.Context, tx *sql.Tx, key, value string) error {
	if value == "" {
		_, err := tx.ExecContext(ctx, `DELETE FROM session_kv WHERE key = ?`, key)
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO session_kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	return err
}

// decodeProfile treats anything that is not a JSON object as absent.
func decodeProfile(raw string) *domain.UserProfile {
	var p *domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	return p
}
