package client

import (
	"context"

	"github.com/AlexZinkM/seedkeeper/internal/model"
	"github.com/AlexZinkM/seedkeeper/internal/wallet"
)

// EncryptionService is the threshold-encryption network. The unlocked
// wallet is handed over as the authentication credential; how decryption
// shares are authorized is up to the service.
type EncryptionService interface {
	EncryptDataToBytes(ctx context.Context, plaintext []byte, condition model.AccessCondition, signer wallet.Signer) ([]byte, error)
	DecryptDataFromBytes(ctx context.Context, data []byte, signer wallet.Signer) ([]byte, error)
}
