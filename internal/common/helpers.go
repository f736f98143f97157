package common

import (
	"strings"

	"github.com/tyler-smith/go-bip39"
)

const (
	MnemonicWords        = 12  // this application only issues and accepts 12-word phrases
	MnemonicEntropyBits  = 128 // 12 words
	ChallengeWords       = 3   // words retyped during seed confirmation
	PseudoIdentityPrefix = "web-"
)

// NormalizeMnemonic lowercases the phrase and collapses any run of whitespace
// into a single space.
// Example: NormalizeMnemonic("  Abandon\tabandon ") = "abandon abandon"
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// MnemonicWordList splits a phrase into its normalized words.
func MnemonicWordList(mnemonic string) []string {
	return strings.Fields(NormalizeMnemonic(mnemonic))
}

// IsValidMnemonic reports whether the phrase has exactly MnemonicWords words
// from the BIP-39 English wordlist with a correct checksum.
func IsValidMnemonic(mnemonic string) bool {
	normalized := NormalizeMnemonic(mnemonic)
	if len(strings.Fields(normalized)) != MnemonicWords {
		return false
	}
	return bip39.IsMnemonicValid(normalized)
}

// IsPseudoIdentity reports whether id is a transient browser identity minted
// before any wallet address existed.
func IsPseudoIdentity(id string) bool {
	return strings.HasPrefix(id, PseudoIdentityPrefix)
}

// SameWord compares a retyped challenge word with the expected one.
// Comparison is case-insensitive and ignores surrounding whitespace.
func SameWord(typed, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(typed), strings.TrimSpace(expected))
}

// ShortID returns a log-safe abbreviation of an identity or address.
// Example: ShortID("0x9858EfFD232B4033E47d90003D41EC34EcaEda94") = "0x9858…da94"
func ShortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:6] + "…" + id[len(id)-4:]
}
