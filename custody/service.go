// Package custody is the wallet session of one device: it runs onboarding
// wizards, holds the unlocked wallet, talks to the backend account API and
// enforces the multi-identity and address-mismatch hard stops.
package custody

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/seedkeeper/internal/backup"
	"github.com/AlexZinkM/seedkeeper/internal/client"
	"github.com/AlexZinkM/seedkeeper/internal/crypto"
	"github.com/AlexZinkM/seedkeeper/internal/identity"
	"github.com/AlexZinkM/seedkeeper/internal/keystore"
	"github.com/AlexZinkM/seedkeeper/internal/mismatch"
	"github.com/AlexZinkM/seedkeeper/internal/model"
	"github.com/AlexZinkM/seedkeeper/internal/onboarding"
	"github.com/AlexZinkM/seedkeeper/internal/session"
	"github.com/AlexZinkM/seedkeeper/internal/wallet"

	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

var (
	// ErrLocked is returned by operations that need an unlocked wallet.
	ErrLocked = errors.New("wallet is locked")
	// ErrNoWizard is returned for an unknown or superseded wizard id.
	ErrNoWizard = errors.New("no such onboarding wizard")
)

// Backend is the backend account API. *client.BackendClient implements it.
type Backend interface {
	LoginWithSignature(ctx context.Context, address, message string, signature []byte) (*model.Tokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.Tokens, error)
	RegisterPublicKey(ctx context.Context, accessToken string, req model.RegisterKeyRequest) error
	GetRegisteredAddress(ctx context.Context, accessToken, accountID string) (string, error)
}

// Options configure a Service. Backend and Encryption are optional.
type Options struct {
	Store      *keystore.Store
	Cipher     *crypto.SeedCipher
	Factory    *wallet.Factory
	Platform   identity.Provider
	Backend    Backend
	Encryption client.EncryptionService

	MinPasswordLength int
	RefreshInterval   time.Duration
	Log               zerolog.Logger
}

// Service is safe for concurrent use.
type Service struct {
	opts     Options
	resolver *identity.Resolver
	tracker  *backup.Tracker
	sessions *session.Manager
	log      zerolog.Logger

	mu       sync.Mutex
	wizard   *onboarding.Wizard
	wizardID string
	wallet   *wallet.Wallet
	identity string
	mismatch *mismatch.Error
}

// New creates a locked service.
func New(opts Options) (*Service, error) {
	if opts.Store == nil || opts.Cipher == nil || opts.Factory == nil || opts.Platform == nil {
		return nil, errors.New("store, cipher, factory and platform are required")
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 10 * time.Minute
	}

	s := &Service{
		opts:     opts,
		resolver: identity.NewResolver(opts.Store, opts.Log),
		tracker:  backup.NewTracker(opts.Store),
		log:      opts.Log,
	}
	if opts.Backend != nil {
		s.sessions = session.NewManager(opts.Backend, opts.RefreshInterval, opts.Log)
	}
	return s, nil
}

// Identity resolves the identity wallet data is namespaced by.
func (s *Service) Identity() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked()
}

func (s *Service) resolveLocked() (string, error) {
	if s.wallet != nil {
		return s.identity, nil
	}
	return s.resolver.Resolve(s.opts.Platform.Platform(), "")
}

// Status reports the device and session state.
func (s *Service) Status() (model.StatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.opts.Platform.Platform()
	st := model.StatusResponse{
		PlatformMode: string(p.Mode),
		Chain:        string(s.opts.Factory.Chain()),
		Storage:      s.opts.Store.Backend().Name(),
		Unlocked:     s.wallet != nil,
	}

	id, err := s.resolveLocked()
	if err != nil {
		return st, fmt.Errorf("failed to resolve identity: %w", err)
	}
	st.Identity = id

	if err := s.resolver.DetectConflict(p, id); err != nil {
		if !errors.Is(err, identity.ErrIdentityConflict) {
			return st, err
		}
		st.Conflict = true
	}

	_, hasWallet, err := s.opts.Store.Seed(id)
	if err != nil {
		return st, err
	}
	st.HasWallet = hasWallet
	if st.BackupNeeded, err = s.tracker.IsBackupNeeded(id, hasWallet); err != nil {
		return st, err
	}

	if s.wallet != nil {
		st.Address = s.wallet.Address()
	} else if cached, err := s.opts.Store.CachedAddress(); err == nil {
		st.Address = cached
	}
	st.DisplayName = model.ResolveDisplayName(p.UserName, st.Address).String()
	if s.mismatch != nil {
		st.Mismatch = mismatchInfo(s.mismatch)
	}
	st.SessionActive = s.sessions != nil && s.sessions.AccessToken() != ""
	return st, nil
}

// Unlocked returns the wallet of the current session.
func (s *Service) Unlocked() (*wallet.Wallet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet, s.wallet != nil
}

// Mismatch returns the unresolved address mismatch, if any.
func (s *Service) Mismatch() *mismatch.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mismatch
}

// Lock ends the session and wipes the key from memory.
func (s *Service) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockLocked()
}

func (s *Service) lockLocked() {
	if s.wallet != nil {
		s.wallet.Zero()
		s.wallet = nil
		s.log.Info().Msg("Wallet locked")
	}
	s.identity = ""
	if s.sessions != nil {
		s.sessions.Stop()
		s.sessions.Clear()
	}
}

// ClearAll irrecoverably deletes every wallet key on the device. It is the
// only way out of an identity conflict, and one of the two ways out of a
// mismatch.
func (s *Service) ClearAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lockLocked()
	s.wizard, s.wizardID = nil, ""
	s.mismatch = nil

	removed, err := s.opts.Store.ClearAll()
	if err != nil {
		return removed, fmt.Errorf("failed to clear wallet data: %w", err)
	}
	s.log.Warn().Int("keys", removed).Msg("Cleared all wallet data")
	return removed, nil
}

// AddressQR returns the unlocked wallet info with a base64 PNG QR code of
// the address.
func (s *Service) AddressQR() (model.WalletInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wallet == nil {
		return model.WalletInfo{}, ErrLocked
	}
	qr, err := generateQRCode(s.wallet.Address())
	if err != nil {
		return model.WalletInfo{}, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return model.WalletInfo{
		Chain:     string(s.wallet.Chain()),
		Address:   s.wallet.Address(),
		PublicKey: s.wallet.PublicKeyHex(),
		QR:        qr,
	}, nil
}

// Close locks the wallet.
func (s *Service) Close() {
	s.Lock()
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

func mismatchInfo(e *mismatch.Error) *model.MismatchInfo {
	info := &model.MismatchInfo{Local: e.Local, Registered: e.Registered}
	for _, r := range e.Remediations() {
		info.Remediations = append(info.Remediations, string(r))
	}
	return info
}
