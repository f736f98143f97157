package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// AccessCondition gates decryption of a secret: the requester's wallet must
// be on the allow-list (when one is given) and the request must fall inside
// the time window (when one is given).
type AccessCondition struct {
	AllowedWallets []string   `json:"allowedWallets,omitempty"`
	NotBefore      *time.Time `json:"notBefore,omitempty"`
	NotAfter       *time.Time `json:"notAfter,omitempty"`
}

// Validate rejects empty conditions, malformed addresses and inverted
// windows.
func (c AccessCondition) Validate() error {
	if len(c.AllowedWallets) == 0 && c.NotBefore == nil && c.NotAfter == nil {
		return errors.New("access condition must restrict wallets or time")
	}
	seen := make(map[string]bool, len(c.AllowedWallets))
	for _, addr := range c.AllowedWallets {
		key, err := walletKey(addr)
		if err != nil {
			return err
		}
		if seen[key] {
			return fmt.Errorf("duplicate wallet %s", addr)
		}
		seen[key] = true
	}
	if c.NotBefore != nil && c.NotAfter != nil && !c.NotAfter.After(*c.NotBefore) {
		return errors.New("notAfter must be later than notBefore")
	}
	return nil
}

// Allows reports whether address may decrypt at time t.
func (c AccessCondition) Allows(address string, t time.Time) bool {
	if c.NotBefore != nil && t.Before(*c.NotBefore) {
		return false
	}
	if c.NotAfter != nil && !t.Before(*c.NotAfter) {
		return false
	}
	if len(c.AllowedWallets) == 0 {
		return true
	}
	want, err := walletKey(address)
	if err != nil {
		return false
	}
	for _, a := range c.AllowedWallets {
		if k, err := walletKey(a); err == nil && k == want {
			return true
		}
	}
	return false
}

// walletKey canonicalizes an EVM hex or a Solana base58 address.
func walletKey(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if common.IsHexAddress(addr) {
		return common.HexToAddress(addr).Hex(), nil
	}
	pk, err := solana.PublicKeyFromBase58(addr)
	if err != nil {
		return "", fmt.Errorf("invalid wallet address %q", addr)
	}
	return pk.String(), nil
}
