package custody

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/seedkeeper/internal/model"
	"github.com/AlexZinkM/seedkeeper/internal/wallet"
)

// ErrNoEncryptionService is returned when no encryption network is wired.
var ErrNoEncryptionService = errors.New("encryption service not configured")

// EncryptSecret encrypts plaintext on the encryption network under cond,
// authenticated by the unlocked wallet.
func (s *Service) EncryptSecret(ctx context.Context, plaintext []byte, cond model.AccessCondition) ([]byte, error) {
	signer, err := s.signer()
	if err != nil {
		return nil, err
	}
	if err := cond.Validate(); err != nil {
		return nil, fmt.Errorf("invalid access condition: %w", err)
	}
	return s.opts.Encryption.EncryptDataToBytes(ctx, plaintext, cond, signer)
}

// DecryptSecret asks the encryption network to decrypt data for the
// unlocked wallet.
func (s *Service) DecryptSecret(ctx context.Context, data []byte) ([]byte, error) {
	signer, err := s.signer()
	if err != nil {
		return nil, err
	}
	return s.opts.Encryption.DecryptDataFromBytes(ctx, data, signer)
}

func (s *Service) signer() (wallet.Signer, error) {
	if s.opts.Encryption == nil {
		return nil, ErrNoEncryptionService
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mismatch != nil {
		return nil, s.mismatch
	}
	if s.wallet == nil {
		return nil, ErrLocked
	}
	return s.wallet, nil
}
