package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

const (
	DefaultEVMPath    = "m/44'/60'/0'/0/0"
	DefaultSolanaPath = "m/44'/501'/0'/0'"
)

// deriveEVM walks a BIP-32 secp256k1 path from the BIP-39 seed.
func deriveEVM(seed []byte, path accounts.DerivationPath) (*Wallet, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	for _, idx := range path {
		key, err = key.Derive(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child %d: %w", idx, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get private key: %w", err)
	}
	ecdsaKey := priv.ToECDSA()

	return &Wallet{
		chain:     ChainEVM,
		address:   crypto.PubkeyToAddress(ecdsaKey.PublicKey).Hex(),
		publicKey: crypto.FromECDSAPub(&ecdsaKey.PublicKey),
		evmKey:    ecdsaKey,
	}, nil
}

// deriveSolana walks a SLIP-10 ed25519 path from the BIP-39 seed, the way
// Phantom and solana-keygen do for m/44'/501'/...
func deriveSolana(seed []byte, path accounts.DerivationPath) (*Wallet, error) {
	keySeed, err := slip10Ed25519(seed, path)
	if err != nil {
		return nil, err
	}
	defer clear(keySeed)

	priv := solana.PrivateKey(ed25519.NewKeyFromSeed(keySeed))
	pub := priv.PublicKey()

	return &Wallet{
		chain:     ChainSolana,
		address:   pub.String(),
		publicKey: pub.Bytes(),
		solKey:    priv,
	}, nil
}

// slip10Ed25519 implements SLIP-0010 private key derivation for ed25519,
// which only defines hardened children.
func slip10Ed25519(seed []byte, path accounts.DerivationPath) ([]byte, error) {
	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode := sum[:32], sum[32:]

	for _, idx := range path {
		if idx < hdkeychain.HardenedKeyStart {
			return nil, errors.New("ed25519 derivation requires hardened path elements")
		}
		data := make([]byte, 0, 1+32+4)
		data = append(data, 0)
		data = append(data, key...)
		data = binary.BigEndian.AppendUint32(data, idx)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write(data)
		clear(data)
		next := mac.Sum(nil)
		clear(sum)
		sum = next
		key, chainCode = sum[:32], sum[32:]
	}

	out := make([]byte, 32)
	copy(out, key)
	clear(sum)
	return out, nil
}
