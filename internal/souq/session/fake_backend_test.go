package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/aussiebroadwan/souq/internal/souq/store"
	"github.com/aussiebroadwan/souq/internal/souq/store/drivers/sqlite"
	"github.com/aussiebroadwan/souq/pkg/apiclient"
	"github.com/aussiebroadwan/souq/pkg/slogx"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers from per-test functions and counts calls.
type fakeBackend struct {
	login           func(ctx context.Context, req apiclient.LoginRequest) (*apiclient.AuthResponse, error)
	register        func(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.AuthResponse, error)
	verifyOTP       func(ctx context.Context, req apiclient.OTPVerifyRequest) (*apiclient.AuthResponse, error)
	verifyTwoFactor func(ctx context.Context, req apiclient.TwoFactorVerifyRequest) (*apiclient.AuthResponse, error)
	logout          func(ctx context.Context, access, refresh string) error
	profile         func(ctx context.Context, token string) (*apiclient.User, error)
	setupTwoFactor  func(ctx context.Context, token string) (*apiclient.TwoFactorSetup, error)

	mu           sync.Mutex
	profileCalls int
	logoutCalls  int
}

func (f *fakeBackend) Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.AuthResponse, error) {
	return f.login(ctx, req)
}

func (f *fakeBackend) Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.AuthResponse, error) {
	return f.register(ctx, req)
}

func (f *fakeBackend) VerifyOTP(ctx context.Context, req apiclient.OTPVerifyRequest) (*apiclient.AuthResponse, error) {
	return f.verifyOTP(ctx, req)
}

func (f *fakeBackend) VerifyTwoFactor(ctx context.Context, req apiclient.TwoFactorVerifyRequest) (*apiclient.AuthResponse, error) {
	return f.verifyTwoFactor(ctx, req)
}

func (f *fakeBackend) Logout(ctx context.Context, access, refresh string) error {
	f.mu.Lock()
	f.logoutCalls++
	f.mu.Unlock()
	if f.logout == nil {
		return nil
	}
	return f.logout(ctx, access, refresh)
}

func (f *fakeBackend) GetProfile(ctx context.Context, token string) (*apiclient.User, error) {
	f.mu.Lock()
	f.profileCalls++
	f.mu.Unlock()
	if f.profile == nil {
		return &apiclient.User{ID: "1", Role: "user"}, nil
	}
	return f.profile(ctx, token)
}

func (f *fakeBackend) SetupTwoFactor(ctx context.Context, token string) (*apiclient.TwoFactorSetup, error) {
	return f.setupTwoFactor(ctx, token)
}

func (f *fakeBackend) SendOTP(context.Context, apiclient.OTPSendRequest) (*apiclient.MessageResponse, error) {
	return &apiclient.MessageResponse{Message: "sent"}, nil
}

func (f *fakeBackend) RequestPasswordReset(context.Context, apiclient.PasswordResetRequest) (*apiclient.MessageResponse, error) {
	return &apiclient.MessageResponse{Message: "reset code sent"}, nil
}

func (f *fakeBackend) ConfirmPasswordReset(context.Context, apiclient.PasswordResetConfirmRequest) (*apiclient.MessageResponse, error) {
	return &apiclient.MessageResponse{Message: "password updated"}, nil
}

func (f *fakeBackend) calls() (profile, logout int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profileCalls, f.logoutCalls
}

func tokensResponse(access, refresh string, user *apiclient.User) *apiclient.AuthResponse {
	return &apiclient.AuthResponse{User: user, Tokens: &apiclient.Tokens{Access: access, Refresh: refresh}}
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestController(t *testing.T, backend Backend, s store.Tokens) *Controller {
	t.Helper()

	c := NewController(backend, s, Config{
		Logger:               slogx.Discard(),
		ProfileRetryAttempts: 3,
		NewBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
		},
	})
	t.Cleanup(c.Wait)
	return c
}

// stuckClearStore fails Clear while stuck is set, like a locked database.
type stuckClearStore struct {
	*sqlite.Store

	mu    sync.Mutex
	stuck bool
}

func (s *stuckClearStore) setStuck(v bool) {
	s.mu.Lock()
	s.stuck = v
	s.mu.Unlock()
}

func (s *stuckClearStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	stuck := s.stuck
	s.mu.Unlock()
	if stuck {
		return errors.New("database is locked")
	}
	return s.Store.Clear(ctx)
}

func discardLogger() *slog.Logger { return slogx.Discard() }
