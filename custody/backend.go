package custody

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/seedkeeper/internal/identity"
	"github.com/AlexZinkM/seedkeeper/internal/mismatch"
	"github.com/AlexZinkM/seedkeeper/internal/model"
	"github.com/AlexZinkM/seedkeeper/internal/wallet"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func loginMessage(address string, at time.Time) string {
	return fmt.Sprintf("Sign in to seedkeeper\nAddress: %s\nIssued at: %s", address, at.UTC().Format(time.RFC3339))
}

func registrationMessage(address string) string {
	return fmt.Sprintf("Register seedkeeper wallet\nAddress: %s", address)
}

// Register implements onboarding.Registrar: it logs in with a signature and
// records the public key, plus the escrowed password when the user opted in.
func (s *Service) Register(ctx context.Context, w *wallet.Wallet, password []byte) error {
	if s.opts.Backend == nil {
		return nil
	}
	tokens, err := s.login(ctx, w)
	if err != nil {
		return err
	}

	sig, err := w.SignMessage([]byte(registrationMessage(w.Address())))
	if err != nil {
		return fmt.Errorf("failed to sign registration: %w", err)
	}
	req := model.RegisterKeyRequest{
		Address:   w.Address(),
		PublicKey: w.PublicKeyHex(),
		Chain:     string(w.Chain()),
		Signature: hexutil.Encode(sig),
	}

	save, err := s.opts.Store.SavePasswordPreference()
	if err != nil {
		return err
	}
	if save && len(password) > 0 {
		blob, err := s.opts.Cipher.SealPassword(password, w.Address())
		if err != nil {
			return fmt.Errorf("failed to seal password: %w", err)
		}
		req.EncryptedPassword = blob
	}

	if err := s.opts.Backend.RegisterPublicKey(ctx, tokens.AccessToken, req); err != nil {
		return err
	}
	s.log.Info().Str("address", w.Address()).Bool("escrow", req.EncryptedPassword != "").Msg("Registered public key")
	return nil
}

func (s *Service) login(ctx context.Context, w *wallet.Wallet) (*model.Tokens, error) {
	msg := loginMessage(w.Address(), time.Now())
	sig, err := w.SignMessage([]byte(msg))
	if err != nil {
		return nil, fmt.Errorf("failed to sign login: %w", err)
	}
	tokens, err := s.opts.Backend.LoginWithSignature(ctx, w.Address(), msg, sig)
	if err != nil {
		return nil, err
	}
	s.sessions.SetTokens(*tokens)
	s.sessions.Start(context.Background())
	return tokens, nil
}

// verifyRegistration logs in if needed and compares the unlocked address with
// the one the backend registered for the platform account. Backend failures
// are logged; only a mismatch is returned.
func (s *Service) verifyRegistration(ctx context.Context, w *wallet.Wallet) error {
	if s.opts.Backend == nil {
		return nil
	}
	if s.sessions.AccessToken() == "" {
		if _, err := s.login(ctx, w); err != nil {
			s.log.Warn().Err(err).Msg("Backend login failed")
			return nil
		}
	}

	p := s.opts.Platform.Platform()
	if p.Mode != identity.ModeEmbedded || p.AccountID == "" {
		return nil
	}
	registered, err := s.opts.Backend.GetRegisteredAddress(ctx, s.sessions.AccessToken(), p.AccountID)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to fetch registered address")
		return nil
	}

	err = mismatch.Verify(w.Address(), registered)
	var mErr *mismatch.Error
	if !errors.As(err, &mErr) {
		return nil
	}
	s.mu.Lock()
	s.mismatch = mErr
	s.mu.Unlock()
	s.log.Error().
		Str("local", mErr.Local).
		Str("registered", mErr.Registered).
		Msg("Wallet address mismatch")
	return mErr
}
