package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/souq/internal/souq/domain"
)

var ErrUnavailable = errors.New("store: unavailable")

// Snapshot is what Load returns. Each part is zero when missing or corrupt.
type Snapshot struct {
	Session domain.Session
	Profile *domain.UserProfile
}

// Tokens is the durable session store. The auth state machine is its only
// writer; the bootstrapper and the notifier only read.
type Tokens interface {
	// Save overwrites both tokens and the profile together. A nil profile
	// removes the stored one.
	Save(ctx context.Context, s domain.Session, p *domain.UserProfile) error

	// SaveProfile replaces the cached profile only.
	SaveProfile(ctx context.Context, p domain.UserProfile) error

	// Load never fails on unparseable data; a corrupt profile is reported
	// as absent.
	Load(ctx context.Context) (Snapshot, error)

	// Clear removes tokens and profile in one transaction.
	Clear(ctx context.Context) error

	ApplyMigrations() error
	Ping(ctx context.Context) error
	Close() error
}
