package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/souq/internal/souq/domain"
	"github.com/aussiebroadwan/souq/internal/souq/store"
	"github.com/aussiebroadwan/souq/pkg/tokeninfo"
)

type EventKind string

const (
	SignedIn  EventKind = "SIGNED_IN"
	SignedOut EventKind = "SIGNED_OUT"
)

// Event is raised on every poll. Session is zero for SignedOut.
//
// Expired is set when the stored access token carries an exp that has
// passed. The event is still SignedIn: only the backend decides whether the
// token is rejected.
type Event struct {
	Kind    EventKind
	Session domain.Session
	Expired bool
}

type Listener func(Event)

// DefaultPollInterval is used when the notifier is built with a zero interval.
const DefaultPollInterval = 60 * time.Second

// Notifier polls the token store and reports what it finds to a single
// listener. The ticker runs only while a listener is subscribed.
type Notifier struct {
	Store    store.Tokens
	Logger   *slog.Logger
	Interval time.Duration

	mu       sync.Mutex
	listener Listener
	gen      uint64
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewNotifier creates a notifier. If interval is 0 or negative it defaults
// to DefaultPollInterval.
func NewNotifier(tokens store.Tokens, logger *slog.Logger, interval time.Duration) *Notifier {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		Store:    tokens,
		Logger:   logger.With("component", "notifier"),
		Interval: interval,
	}
}

// Subscribe makes l the listener, replacing any previous one, and starts the
// ticker if it is not running. The returned function stops the ticker; it
// is safe to call more than once and does nothing once l has been replaced.
// It must not be called from inside l.
func (n *Notifier) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.listener = l
	if n.stopCh == nil {
		n.stopCh = make(chan struct{})
		n.doneCh = make(chan struct{})
		go n.run(n.stopCh, n.doneCh)
		n.Logger.Info("auth change notifier started", "interval", n.Interval)
	}
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { n.unsubscribe(gen) })
	}
}

func (n *Notifier) unsubscribe(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.stopCh == nil {
		n.mu.Unlock()
		return
	}
	n.listener = nil
	stop, done := n.stopCh, n.doneCh
	n.stopCh, n.doneCh = nil, nil
	n.mu.Unlock()

	close(stop)
	<-done
	n.Logger.Info("auth change notifier stopped")
}

// Subscribed reports whether a listener is registered.
func (n *Notifier) Subscribed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.listener != nil
}

func (n *Notifier) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(n.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), n.Interval)
			n.Poll(ctx)
			cancel()
		case <-stop:
			return
		}
	}
}

// Poll reads the store once and delivers the resulting event. A read error
// is logged and skipped; the next tick tries again.
func (n *Notifier) Poll(ctx context.Context) {
	snap, err := n.Store.Load(ctx)
	if err != nil {
		n.Logger.Warn("failed to read token store", "error", err)
		return
	}

	ev := Event{Kind: SignedOut}
	if snap.Session.Valid() {
		ev = Event{Kind: SignedIn, Session: snap.Session}
		if info, err := tokeninfo.Inspect(snap.Session.AccessToken); err == nil && info.Expired(time.Now()) {
			ev.Expired = true
			n.Logger.Info("stored access token has expired", "subject", info.Subject, "expired_at", info.ExpiresAt)
		}
	}

	n.mu.Lock()
	l := n.listener
	n.mu.Unlock()

	if l == nil {
		return
	}
	n.Logger.Debug("auth change event", "kind", ev.Kind)
	l(ev)
}
