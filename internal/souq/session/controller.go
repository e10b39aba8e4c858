package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/souq/internal/souq/domain"
	"github.com/aussiebroadwan/souq/internal/souq/store"
	"github.com/aussiebroadwan/souq/pkg/apiclient"
	"github.com/aussiebroadwan/souq/pkg/tokeninfo"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrAuthInFlight is returned when login, register, OTP or 2FA
	// verification is called while another one has not resolved yet.
	ErrAuthInFlight = errors.New("session: authentication already in progress")

	// ErrNotAuthenticated is returned by calls that need an access token.
	ErrNotAuthenticated = errors.New("session: not authenticated")

	// ErrNoChallenge is returned by CompleteTwoFactor without a preceding
	// login that asked for a second factor.
	ErrNoChallenge = errors.New("session: no pending two-factor challenge")

	// ErrNoTokens is returned when the backend accepted credentials but sent
	// no session back.
	ErrNoTokens = errors.New("session: response carried no tokens")
)

// Backend is the part of the marketplace API the controller talks to.
// *apiclient.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.AuthResponse, error)
	VerifyOTP(ctx context.Context, req apiclient.OTPVerifyRequest) (*apiclient.AuthResponse, error)
	VerifyTwoFactor(ctx context.Context, req apiclient.TwoFactorVerifyRequest) (*apiclient.AuthResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	GetProfile(ctx context.Context, accessToken string) (*apiclient.User, error)
	SetupTwoFactor(ctx context.Context, accessToken string) (*apiclient.TwoFactorSetup, error)

	SendOTP(ctx context.Context, req apiclient.OTPSendRequest) (*apiclient.MessageResponse, error)
	RequestPasswordReset(ctx context.Context, req apiclient.PasswordResetRequest) (*apiclient.MessageResponse, error)
	ConfirmPasswordReset(ctx context.Context, req apiclient.PasswordResetConfirmRequest) (*apiclient.MessageResponse, error)
}

var _ Backend = (*apiclient.Client)(nil)

// Config tunes a Controller. Zero values fall back to the defaults below.
type Config struct {
	Logger   *slog.Logger
	Language string

	// ProfileRetryAttempts counts the first try. Default 3.
	ProfileRetryAttempts int
	// ProfileRetryInitial is the first backoff interval. Default 500ms.
	ProfileRetryInitial time.Duration
	// LogoutTimeout bounds the best-effort server logout. Default 5s.
	LogoutTimeout time.Duration

	// NewBackOff overrides the retry policy; tests use it to skip sleeping.
	NewBackOff func() backoff.BackOff
}

// Controller is the auth state machine. It owns the in-memory session and
// profile and is the only writer of the token store.
type Controller struct {
	backend Backend
	store   store.Tokens
	logger  *slog.Logger
	lang    string

	logoutTimeout time.Duration
	newBackOff    func() backoff.BackOff

	profiles   singleflight.Group
	background sync.WaitGroup

	mu             sync.Mutex
	state          domain.AuthState
	session        domain.Session
	subject        string // account the access token claims to be for, if readable
	profile        *domain.UserProfile
	expiresAt      *time.Time
	errMsg         string
	authInFlight   bool
	profileFetches int
	challenge      string // 2FA temp token

	// pendingClear is set when sign-out could not clear the store. Sync
	// retries the clear instead of adopting the leftover session.
	pendingClear bool

	subsMu  sync.Mutex
	subs    map[uint64]func(domain.AuthStatus)
	nextSub uint64
}

func NewController(backend Backend, tokens store.Tokens, cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.ProfileRetryAttempts <= 0 {
		cfg.ProfileRetryAttempts = 3
	}
	if cfg.ProfileRetryInitial <= 0 {
		cfg.ProfileRetryInitial = 500 * time.Millisecond
	}
	if cfg.LogoutTimeout <= 0 {
		cfg.LogoutTimeout = 5 * time.Second
	}
	if cfg.NewBackOff == nil {
		attempts, initial := cfg.ProfileRetryAttempts, cfg.ProfileRetryInitial
		cfg.NewBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			return backoff.WithMaxRetries(b, uint64(attempts-1))
		}
	}

	return &Controller{
		backend:       backend,
		store:         tokens,
		logger:        cfg.Logger.With("component", "session"),
		lang:          cfg.Language,
		logoutTimeout: cfg.LogoutTimeout,
		newBackOff:    cfg.NewBackOff,
		state:         domain.StateIdle,
		subs:          make(map[uint64]func(domain.AuthStatus)),
	}
}

// ============================================================================
// Status
// ============================================================================

// Status returns a snapshot of the current auth status.
func (c *Controller) Status() domain.AuthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() domain.AuthStatus {
	st := domain.AuthStatus{
		State:            c.state,
		IsAuthenticated:  c.session.Valid(),
		IsLoading:        c.authInFlight || c.profileFetches > 0,
		Error:            c.errMsg,
		ProfileLoaded:    c.profile != nil,
		TwoFactorPending: c.challenge != "",
		ExpiresAt:        c.expiresAt,
	}
	if c.authInFlight {
		st.State = domain.StateLoading
	}
	if c.profile != nil {
		p := *c.profile
		st.User = &p
	}
	return st
}

// Session returns the current token pair.
func (c *Controller) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Subscribe registers fn to receive the status after every transition.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(domain.AuthStatus)) (unsubscribe func()) {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

func (c *Controller) publish() {
	st := c.Status()

	c.subsMu.Lock()
	fns := make([]func(domain.AuthStatus), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// ============================================================================
// Restore / Sync
// ============================================================================

// Restore loads the persisted session and leaves idle. It reports whether a
// session was found.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	snap, err := c.store.Load(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = domain.StateUnauthenticated
		c.mu.Unlock()
		c.publish()
		return false, fmt.Errorf("restore session: %w", err)
	}

	c.mu.Lock()
	c.applySnapshotLocked(snap)
	found := c.session.Valid()
	c.mu.Unlock()

	c.logger.Info("session restored", "authenticated", found, "profile_cached", snap.Profile != nil)
	c.publish()
	return found, nil
}

// Sync re-reads the store and adopts what it holds when it differs from
// memory, for example after another process signed out. It does nothing
// while an authentication call is in flight. The only write it makes is
// finishing a sign-out whose store clear failed.
func (c *Controller) Sync(ctx context.Context) (changed bool, err error) {
	c.mu.Lock()
	if c.authInFlight {
		c.mu.Unlock()
		return false, nil
	}

	if c.pendingClear {
		if err := c.store.Clear(ctx); err != nil {
			c.mu.Unlock()
			return false, fmt.Errorf("finish sign-out: %w", err)
		}
		c.pendingClear = false
		c.logger.Info("cleared session left behind by sign-out")
	}

	snap, err := c.store.Load(ctx)
	if err != nil {
		c.mu.Unlock()
		return false, fmt.Errorf("sync session: %w", err)
	}

	if snap.Session == c.session {
		c.mu.Unlock()
		return false, nil
	}

	c.logger.Info("session changed outside this process", "authenticated", snap.Session.Valid())
	c.applySnapshotLocked(snap)
	c.mu.Unlock()

	c.publish()
	return true, nil
}

func (c *Controller) applySnapshotLocked(snap store.Snapshot) {
	c.setSessionLocked(snap.Session)
	c.profile = snap.Profile
	c.challenge = ""
	if snap.Session.Valid() {
		c.state = domain.StateAuthenticated
	} else {
		c.state = domain.StateUnauthenticated
		c.profile = nil
	}
}

func (c *Controller) setSessionLocked(s domain.Session) {
	c.session = s
	c.subject = ""
	c.expiresAt = nil
	if !s.Valid() {
		return
	}
	info, err := tokeninfo.Inspect(s.AccessToken)
	if err != nil {
		return
	}
	c.subject = info.Subject
	if !info.ExpiresAt.IsZero() {
		exp := info.ExpiresAt
		c.expiresAt = &exp
	}
}

// ownsProfileLocked reports whether the cached profile belongs to the
// account next was issued for. Without a subject in the token there is no
// way to tell, and the profile is not carried over.
func (c *Controller) ownsProfileLocked(next domain.Session) bool {
	if c.profile == nil {
		return false
	}
	info, err := tokeninfo.Inspect(next.AccessToken)
	return err == nil && info.Subject != "" && info.Subject == c.profile.ID
}

// ============================================================================
// Authentication
// ============================================================================

// Login exchanges credentials for a session. When the account has two-factor
// enabled the error is *apiclient.TwoFactorRequiredError and the challenge is
// kept for CompleteTwoFactor.
func (c *Controller) Login(ctx context.Context, req apiclient.LoginRequest) error {
	if err := c.beginAuth(); err != nil {
		return err
	}

	resp, err := c.backend.Login(ctx, req)
	if err != nil {
		var tfa *apiclient.TwoFactorRequiredError
		if errors.As(err, &tfa) {
			c.awaitSecondFactor(tfa.TempToken)
			return err
		}
		return c.failAuth("login", err)
	}
	return c.establish(ctx, "login", resp)
}

// CompleteTwoFactor answers the pending challenge with a TOTP or backup code.
func (c *Controller) CompleteTwoFactor(ctx context.Context, code string) error {
	c.mu.Lock()
	challenge := c.challenge
	c.mu.Unlock()
	if challenge == "" {
		return ErrNoChallenge
	}

	if err := c.beginAuth(); err != nil {
		return err
	}

	resp, err := c.backend.VerifyTwoFactor(ctx, apiclient.TwoFactorVerifyRequest{TempToken: challenge, Code: code})
	if err != nil {
		return c.failAuth("two-factor verification", err)
	}
	return c.establish(ctx, "two-factor verification", resp)
}

// Register creates an account. created reports whether the backend signed
// the new user in straight away; otherwise the account awaits OTP
// verification.
func (c *Controller) Register(ctx context.Context, req apiclient.RegisterRequest) (created bool, err error) {
	if err := c.beginAuth(); err != nil {
		return false, err
	}

	resp, err := c.backend.Register(ctx, req)
	if err != nil {
		return false, c.failAuth("register", err)
	}
	if _, ok := resp.Session(); !ok {
		c.endAuth()
		return false, nil
	}
	return true, c.establish(ctx, "register", resp)
}

// VerifyOTP submits a one-time code. When the backend answers with tokens a
// session is created exactly as for login.
func (c *Controller) VerifyOTP(ctx context.Context, req apiclient.OTPVerifyRequest) (created bool, err error) {
	if err := c.beginAuth(); err != nil {
		return false, err
	}

	resp, err := c.backend.VerifyOTP(ctx, req)
	if err != nil {
		return false, c.failAuth("otp verification", err)
	}
	if _, ok := resp.Session(); !ok {
		c.endAuth()
		return false, nil
	}
	return true, c.establish(ctx, "otp verification", resp)
}

func (c *Controller) beginAuth() error {
	c.mu.Lock()
	if c.authInFlight {
		c.mu.Unlock()
		return ErrAuthInFlight
	}
	c.authInFlight = true
	c.errMsg = ""
	c.mu.Unlock()

	c.logger.Debug("auth transition", "to", domain.StateLoading)
	c.publish()
	return nil
}

// endAuth leaves loading without changing the session.
func (c *Controller) endAuth() {
	c.mu.Lock()
	c.authInFlight = false
	if c.session.Valid() {
		c.state = domain.StateAuthenticated
	} else {
		c.state = domain.StateUnauthenticated
	}
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) awaitSecondFactor(tempToken string) {
	c.mu.Lock()
	c.challenge = tempToken
	c.mu.Unlock()

	c.logger.Info("second factor required")
	c.endAuth()
}

func (c *Controller) failAuth(action string, err error) error {
	c.mu.Lock()
	c.authInFlight = false
	c.state = domain.StateError
	c.errMsg = apiclient.Message(err, c.lang)
	c.mu.Unlock()

	c.logger.Warn(action+" failed", "error", err)
	c.publish()
	return err
}

// establish persists the session from resp, then switches memory over and
// schedules the profile fetch. The store is written first so a token held
// in memory is always a token held on disk.
//
// Without a user in resp the last known profile is kept only when the new
// token names the same account; another account's role must never ride
// along with fresh tokens.
func (c *Controller) establish(ctx context.Context, action string, resp *apiclient.AuthResponse) error {
	tokens, ok := resp.Session()
	if !ok {
		return c.failAuth(action, ErrNoTokens)
	}

	sess := domain.Session{AccessToken: tokens.Access, RefreshToken: tokens.Refresh}
	profile := profileFromUser(resp.User)

	c.mu.Lock()
	if profile == nil && c.ownsProfileLocked(sess) {
		profile = c.profile
	}
	if err := c.store.Save(ctx, sess, profile); err != nil {
		c.mu.Unlock()
		return c.failAuth(action, fmt.Errorf("persist session: %w", err))
	}
	c.setSessionLocked(sess)
	c.profile = profile
	c.pendingClear = false
	c.challenge = ""
	c.state = domain.StateAuthenticated
	c.authInFlight = false
	subject := c.subject
	c.mu.Unlock()

	c.logger.Info(action+" succeeded", "subject", subject, "profile_known", profile != nil)
	c.publish()

	c.FetchProfileAsync(ctx)
	return nil
}

// Logout signs out. The server call is best effort; the local session is
// cleared whatever it answers.
func (c *Controller) Logout(ctx context.Context) error {
	sess := c.Session()

	if sess.Valid() {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.logoutTimeout)
		err := c.backend.Logout(lctx, sess.AccessToken, sess.RefreshToken)
		cancel()
		if err != nil {
			c.logger.Warn("server logout failed, clearing local session anyway", "error", err)
		}
	}

	c.mu.Lock()
	clearErr := c.store.Clear(context.WithoutCancel(ctx))
	c.pendingClear = clearErr != nil
	c.setSessionLocked(domain.Session{})
	c.profile = nil
	c.challenge = ""
	c.errMsg = ""
	c.state = domain.StateUnauthenticated
	c.mu.Unlock()

	c.logger.Info("signed out")
	c.publish()

	if clearErr != nil {
		return fmt.Errorf("clear session: %w", clearErr)
	}
	return nil
}

// ============================================================================
// Profile
// ============================================================================

// FetchProfile refreshes the profile with bounded retries. Concurrent calls
// share one request. A failure leaves the user authenticated unless the
// backend rejected the token itself, which ends the session.
func (c *Controller) FetchProfile(ctx context.Context) error {
	sess := c.Session()
	if !sess.Valid() {
		return ErrNotAuthenticated
	}

	_, err, _ := c.profiles.Do(sess.AccessToken, func() (any, error) {
		return nil, c.fetchProfile(ctx, sess)
	})
	return err
}

// FetchProfileAsync runs FetchProfile in the background, detached from ctx
// cancellation. Wait blocks until it finishes.
func (c *Controller) FetchProfileAsync(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		if err := c.FetchProfile(ctx); err != nil && !errors.Is(err, ErrNotAuthenticated) {
			c.logger.Warn("profile fetch failed", "error", err)
		}
	}()
}

// Wait blocks until background profile fetches have returned.
func (c *Controller) Wait() { c.background.Wait() }

func (c *Controller) fetchProfile(ctx context.Context, sess domain.Session) error {
	c.mu.Lock()
	c.profileFetches++
	c.mu.Unlock()
	c.publish()

	var user *apiclient.User
	op := func() error {
		u, err := c.backend.GetProfile(ctx, sess.AccessToken)
		if err != nil {
			if !apiclient.Retryable(err) {
				return backoff.Permanent(err)
			}
			c.logger.Debug("profile fetch attempt failed", "error", err)
			return err
		}
		user = u
		return nil
	}
	err := backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx))

	c.mu.Lock()
	c.profileFetches--
	stale := c.session != sess
	switch {
	case stale:
		// The session changed while fetching; the result belongs to nobody.
	case err == nil:
		profile := profileFromUser(user)
		if serr := c.store.SaveProfile(ctx, *profile); serr != nil {
			c.logger.Warn("failed to cache profile", "error", serr)
		}
		c.profile = profile
		c.errMsg = ""
	case apiclient.IsUnauthorized(err):
		if cerr := c.store.Clear(ctx); cerr != nil {
			c.logger.Error("failed to clear rejected session", "error", cerr)
		}
		c.setSessionLocked(domain.Session{})
		c.profile = nil
		c.state = domain.StateUnauthenticated
		c.errMsg = apiclient.Message(err, c.lang)
	default:
		c.errMsg = apiclient.Message(err, c.lang)
	}
	c.mu.Unlock()

	switch {
	case stale:
		c.logger.Debug("discarding profile for replaced session")
	case err == nil:
		c.logger.Debug("profile refreshed")
	case apiclient.IsUnauthorized(err):
		c.logger.Warn("access token rejected, session ended", "error", err)
	}
	c.publish()
	return err
}

// ============================================================================
// Pass-through account calls
// ============================================================================

// SendOTP delivers a one-time code. It has no effect on the session.
func (c *Controller) SendOTP(ctx context.Context, req apiclient.OTPSendRequest) (string, error) {
	resp, err := c.backend.SendOTP(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// RequestPasswordReset sends a reset code. It has no effect on the session.
func (c *Controller) RequestPasswordReset(ctx context.Context, req apiclient.PasswordResetRequest) (string, error) {
	resp, err := c.backend.RequestPasswordReset(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ConfirmPasswordReset sets a new password. It has no effect on the session.
func (c *Controller) ConfirmPasswordReset(ctx context.Context, req apiclient.PasswordResetConfirmRequest) (string, error) {
	resp, err := c.backend.ConfirmPasswordReset(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// TwoFactorEnrolment is what the user needs to add the account to an
// authenticator app.
type TwoFactorEnrolment struct {
	Issuer      string
	Account     string
	Secret      string
	URL         string
	BackupCodes []string
}

// SetupTwoFactor starts authenticator-app enrolment for the signed-in user.
func (c *Controller) SetupTwoFactor(ctx context.Context) (*TwoFactorEnrolment, error) {
	sess := c.Session()
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}

	setup, err := c.backend.SetupTwoFactor(ctx, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	key, err := setup.Key()
	if err != nil {
		return nil, err
	}

	c.logger.Info("two-factor enrolment started", "issuer", key.Issuer())
	return &TwoFactorEnrolment{
		Issuer:      key.Issuer(),
		Account:     key.AccountName(),
		Secret:      key.Secret(),
		URL:         key.URL(),
		BackupCodes: setup.BackupCodes,
	}, nil
}

// Language is the fallback language used for error messages.
func (c *Controller) Language() string { return c.lang }

func profileFromUser(u *apiclient.User) *domain.UserProfile {
	if u == nil {
		return nil
	}
	return &domain.UserProfile{
		ID:          string(u.ID),
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		FullName:    u.FullName,
		Avatar:      u.Avatar,
		Role:        domain.Role(u.Role),
		Status:      u.Status,
		IsVerified:  u.IsVerified,
	}
}
