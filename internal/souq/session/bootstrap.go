package session

import (
	"context"
	"log/slog"
	"sync"
)

// Bootstrapper restores the session once at startup and wires the notifier
// to the controller.
type Bootstrapper struct {
	controller *Controller
	notifier   *Notifier
	logger     *slog.Logger

	mu          sync.Mutex
	started     bool
	unsubscribe func()
}

func NewBootstrapper(controller *Controller, notifier *Notifier, logger *slog.Logger) *Bootstrapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bootstrapper{
		controller: controller,
		notifier:   notifier,
		logger:     logger.With("component", "bootstrap"),
	}
}

// Bootstrap restores the stored session, starts a background profile fetch
// when a token exists and subscribes to the notifier. It does not wait for
// the profile. Calls after the first are no-ops until Shutdown.
func (b *Bootstrapper) Bootstrap(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		b.logger.Debug("bootstrap already done")
		return
	}
	b.started = true

	found, err := b.controller.Restore(ctx)
	if err != nil {
		// Carry on signed out; the notifier retries the store every tick.
		b.logger.Warn("could not read stored session", "error", err)
	}
	if found {
		b.controller.FetchProfileAsync(ctx)
	}

	b.unsubscribe = b.notifier.Subscribe(b.onAuthChange)
	b.logger.Info("session bootstrap complete", "authenticated", found)
}

// Shutdown unsubscribes from the notifier and waits for background profile
// fetches. Bootstrap may run again afterwards.
func (b *Bootstrapper) Shutdown() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.started = false
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	b.controller.Wait()
}

func (b *Bootstrapper) onAuthChange(ev Event) {
	ctx := context.Background()

	if _, err := b.controller.Sync(ctx); err != nil {
		b.logger.Warn("failed to sync session", "error", err)
		return
	}
	if ev.Kind == SignedIn {
		b.controller.FetchProfileAsync(ctx)
	}
}
