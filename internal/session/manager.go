// Package session owns the backend access and refresh tokens and keeps them
// fresh in the background while a wallet is unlocked.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AlexZinkM/seedkeeper/internal/model"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// ErrNoSession is returned by Refresh before any tokens were set.
var ErrNoSession = errors.New("no backend session")

// Refresher rotates tokens. *client.BackendClient implements it.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*model.Tokens, error)
}

// Manager holds the current tokens. Start launches a refresh loop, Stop ends
// it; both are idempotent. Refresh attempts closer together than half the
// interval are skipped, which keeps a tick racing a manual refresh from
// hitting the backend twice.
type Manager struct {
	refresher Refresher
	interval  time.Duration
	log       zerolog.Logger
	now       func() time.Time

	lastAttempt atomic.Time
	running     atomic.Bool

	mu     sync.Mutex
	tokens model.Tokens
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a stopped manager.
func NewManager(refresher Refresher, interval time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		refresher: refresher,
		interval:  interval,
		log:       log,
		now:       time.Now,
	}
}

// SetTokens installs tokens obtained from a login.
func (m *Manager) SetTokens(t model.Tokens) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = t
}

// AccessToken returns the current access token, "" when logged out.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens.AccessToken
}

// Clear forgets the tokens.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = model.Tokens{}
}

// LastAttempt returns when Refresh last contacted the backend.
func (m *Manager) LastAttempt() time.Time {
	return m.lastAttempt.Load()
}

// Running reports whether the refresh loop is active.
func (m *Manager) Running() bool {
	return m.running.Load()
}

// Refresh rotates the tokens unless an attempt happened within the last half
// interval. A failed refresh keeps the old tokens.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	refreshToken := m.tokens.RefreshToken
	m.mu.Unlock()
	if refreshToken == "" {
		return ErrNoSession
	}

	now := m.now()
	last := m.lastAttempt.Load()
	if !last.IsZero() && now.Sub(last) < m.interval/2 {
		return nil
	}
	m.lastAttempt.Store(now)

	tokens, err := m.refresher.RefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// a logout or a new login while the request was in flight wins
	if m.tokens.RefreshToken == refreshToken {
		m.tokens = *tokens
	}
	return nil
}

// Start launches the refresh loop. Calling it on a running manager does
// nothing.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		if m.running.Load() {
			return
		}
		// the parent context ended the previous loop
		m.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running.Store(true)
	go m.loop(ctx, m.done)
}

// Stop ends the refresh loop and waits for it to exit. Calling it on a
// stopped manager does nothing.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Manager) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer m.running.Store(false)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Refresh(ctx); err != nil && !errors.Is(err, ErrNoSession) && ctx.Err() == nil {
				m.log.Warn().Err(err).Msg("Session refresh failed")
			}
		}
	}
}
