// Package wallet derives signing wallets from 12-word BIP-39 mnemonics.
package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// Chain selects the key type and address format derived from a mnemonic.
type Chain string

const (
	ChainEVM    Chain = "evm"
	ChainSolana Chain = "solana"
)

// ParseChain validates a chain name. The empty string selects ChainEVM.
func ParseChain(s string) (Chain, error) {
	switch Chain(s) {
	case ChainEVM, "":
		return ChainEVM, nil
	case ChainSolana:
		return ChainSolana, nil
	default:
		return "", fmt.Errorf("unsupported chain %q", s)
	}
}

// Signer produces signatures for an unlocked key pair.
type Signer interface {
	Address() string
	SignMessage(msg []byte) ([]byte, error)
}

// Wallet is an unlocked, in-memory key pair. It is never persisted; call
// Zero when the session ends.
type Wallet struct {
	chain     Chain
	address   string
	publicKey []byte

	evmKey *ecdsa.PrivateKey
	solKey solana.PrivateKey
}

// Chain returns the chain the wallet was derived for.
func (w *Wallet) Chain() Chain { return w.chain }

// Address returns the EIP-55 checksummed hex address (evm) or the base58
// public key (solana).
func (w *Wallet) Address() string { return w.address }

// PublicKey returns the uncompressed secp256k1 or the ed25519 public key.
func (w *Wallet) PublicKey() []byte {
	out := make([]byte, len(w.publicKey))
	copy(out, w.publicKey)
	return out
}

// PublicKeyHex returns PublicKey hex encoded with a 0x prefix.
func (w *Wallet) PublicKeyHex() string {
	return "0x" + hex.EncodeToString(w.publicKey)
}

// SignMessage signs msg. EVM wallets produce an EIP-191 personal_sign
// signature (65 bytes, V in {27,28}); solana wallets an ed25519 signature.
func (w *Wallet) SignMessage(msg []byte) ([]byte, error) {
	switch w.chain {
	case ChainEVM:
		if w.evmKey == nil {
			return nil, errors.New("wallet is locked")
		}
		sig, err := crypto.Sign(accounts.TextHash(msg), w.evmKey)
		if err != nil {
			return nil, fmt.Errorf("failed to sign message: %w", err)
		}
		sig[crypto.RecoveryIDOffset] += 27
		return sig, nil
	case ChainSolana:
		if len(w.solKey) == 0 {
			return nil, errors.New("wallet is locked")
		}
		sig, err := w.solKey.Sign(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to sign message: %w", err)
		}
		return sig[:], nil
	default:
		return nil, fmt.Errorf("unsupported chain %q", w.chain)
	}
}

// Zero wipes the private key. The wallet can no longer sign afterwards.
func (w *Wallet) Zero() {
	if w == nil {
		return
	}
	if w.evmKey != nil {
		w.evmKey.D.SetInt64(0)
		w.evmKey = nil
	}
	if w.solKey != nil {
		clear(w.solKey)
		w.solKey = nil
	}
}

// VerifySignature checks a SignMessage signature against address.
func VerifySignature(chain Chain, address string, msg, sig []byte) bool {
	switch chain {
	case ChainEVM:
		if len(sig) != crypto.SignatureLength || !common.IsHexAddress(address) {
			return false
		}
		rsv := make([]byte, len(sig))
		copy(rsv, sig)
		if rsv[crypto.RecoveryIDOffset] >= 27 {
			rsv[crypto.RecoveryIDOffset] -= 27
		}
		pub, err := crypto.SigToPub(accounts.TextHash(msg), rsv)
		if err != nil {
			return false
		}
		return crypto.PubkeyToAddress(*pub) == common.HexToAddress(address)
	case ChainSolana:
		pub, err := solana.PublicKeyFromBase58(address)
		if err != nil || len(sig) != 64 {
			return false
		}
		return solana.SignatureFromBytes(sig).Verify(pub, msg)
	default:
		return false
	}
}
