package wallet

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/seedkeeper/internal/common"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/tyler-smith/go-bip39"
)

// ErrInvalidMnemonic is returned for phrases with the wrong word count,
// unknown words or a bad checksum.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// SeedDecrypter recovers a mnemonic from an encrypted seed record.
type SeedDecrypter interface {
	Decrypt(ciphertext string, password []byte) (string, bool)
}

// Factory creates wallets for one chain and derivation path.
type Factory struct {
	chain     Chain
	path      accounts.DerivationPath
	decrypter SeedDecrypter
}

// NewFactory creates a factory using the default derivation path of chain.
func NewFactory(chain Chain, decrypter SeedDecrypter) (*Factory, error) {
	raw := DefaultEVMPath
	if chain == ChainSolana {
		raw = DefaultSolanaPath
	}
	return NewFactoryWithPath(chain, raw, decrypter)
}

// NewFactoryWithPath creates a factory deriving keys at rawPath.
func NewFactoryWithPath(chain Chain, rawPath string, decrypter SeedDecrypter) (*Factory, error) {
	chain, err := ParseChain(string(chain))
	if err != nil {
		return nil, err
	}
	path, err := accounts.ParseDerivationPath(rawPath)
	if err != nil {
		return nil, fmt.Errorf("invalid derivation path: %w", err)
	}
	return &Factory{chain: chain, path: path, decrypter: decrypter}, nil
}

// Chain returns the chain this factory derives for.
func (f *Factory) Chain() Chain { return f.chain }

// CreateRandom generates a fresh 12-word mnemonic from 128 bits of
// crypto/rand entropy and derives its wallet.
func (f *Factory) CreateRandom() (*Wallet, string, error) {
	entropy, err := bip39.NewEntropy(common.MnemonicEntropyBits)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	w, err := f.FromMnemonic(mnemonic)
	if err != nil {
		return nil, "", err
	}
	return w, mnemonic, nil
}

// FromMnemonic validates mnemonic and derives its wallet. Errors wrap
// ErrInvalidMnemonic for malformed phrases.
func (f *Factory) FromMnemonic(mnemonic string) (*Wallet, error) {
	normalized := common.NormalizeMnemonic(mnemonic)
	words := common.MnemonicWordList(normalized)
	if len(words) != common.MnemonicWords {
		return nil, fmt.Errorf("%w: expected %d words, got %d", ErrInvalidMnemonic, common.MnemonicWords, len(words))
	}
	seed, err := bip39.NewSeedWithErrorChecking(normalized, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	defer clear(seed)

	switch f.chain {
	case ChainSolana:
		return deriveSolana(seed, f.path)
	default:
		return deriveEVM(seed, f.path)
	}
}

// RestoreFromEncrypted decrypts a seed record and derives its wallet. It
// returns nil on any failure so callers can show one "wrong password or no
// seed" message.
func (f *Factory) RestoreFromEncrypted(ciphertext string, password []byte) *Wallet {
	if f.decrypter == nil || ciphertext == "" {
		return nil
	}
	mnemonic, ok := f.decrypter.Decrypt(ciphertext, password)
	if !ok {
		return nil
	}
	w, err := f.FromMnemonic(mnemonic)
	if err != nil {
		return nil
	}
	return w
}

// RestoreMnemonic is RestoreFromEncrypted that also hands back the phrase,
// for flows that must show it to the user.
func (f *Factory) RestoreMnemonic(ciphertext string, password []byte) (*Wallet, string) {
	if f.decrypter == nil || ciphertext == "" {
		return nil, ""
	}
	mnemonic, ok := f.decrypter.Decrypt(ciphertext, password)
	if !ok {
		return nil, ""
	}
	w, err := f.FromMnemonic(mnemonic)
	if err != nil {
		return nil, ""
	}
	return w, mnemonic
}
