// Package keystore persists encrypted seed records and per-identity wallet
// flags on top of a storage.Backend.
package keystore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlexZinkM/seedkeeper/internal/storage"
)

// Key prefixes. Every key written by this package starts with one of them,
// which is what ClearAll relies on.
const (
	seedPrefix   = "seed:"
	backupPrefix = "backup:"
	prefPrefix   = "pref:"
	cachePrefix  = "cache:"

	savePasswordKey   = prefPrefix + "save-password"
	addressKey        = cachePrefix + "address"
	pseudoIdentityKey = cachePrefix + "pseudo-identity"
)

var walletPrefixes = []string{seedPrefix, backupPrefix, prefPrefix, cachePrefix}

// Store is the KeyMaterialStore: seed ciphertexts and backup flags keyed by
// identity, plus a few process-wide values.
type Store struct {
	backend storage.Backend
}

// New wraps backend.
func New(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

// Backend returns the underlying storage.
func (s *Store) Backend() storage.Backend {
	return s.backend
}

// Seed returns the encrypted seed record stored for identity.
func (s *Store) Seed(identity string) (string, bool, error) {
	if identity == "" {
		return "", false, nil
	}
	ct, ok, err := s.backend.Get(seedPrefix + identity)
	if err != nil {
		return "", false, fmt.Errorf("failed to read seed: %w", err)
	}
	if ok && ct == "" {
		return "", false, nil
	}
	return ct, ok, nil
}

// SetSeed stores ciphertext for identity, overwriting any previous record.
func (s *Store) SetSeed(identity, ciphertext string) error {
	if identity == "" {
		return fmt.Errorf("identity is required")
	}
	if ciphertext == "" {
		return fmt.Errorf("ciphertext is required")
	}
	if err := s.backend.Set(seedPrefix+identity, ciphertext); err != nil {
		return fmt.Errorf("failed to write seed: %w", err)
	}
	return nil
}

// RemoveSeed deletes the seed record of identity.
func (s *Store) RemoveSeed(identity string) error {
	if err := s.backend.Remove(seedPrefix + identity); err != nil {
		return fmt.Errorf("failed to remove seed: %w", err)
	}
	return nil
}

// BackupFlag reports whether identity's mnemonic was confirmed by the user.
// An absent or unparsable flag reads as false.
func (s *Store) BackupFlag(identity string) (bool, error) {
	v, ok, err := s.backend.Get(backupPrefix + identity)
	if err != nil {
		return false, fmt.Errorf("failed to read backup flag: %w", err)
	}
	if !ok {
		return false, nil
	}
	done, err := strconv.ParseBool(v)
	if err != nil {
		return false, nil
	}
	return done, nil
}

// HasBackupFlag reports whether a backup flag entry exists for identity.
func (s *Store) HasBackupFlag(identity string) (bool, error) {
	_, ok, err := s.backend.Get(backupPrefix + identity)
	if err != nil {
		return false, fmt.Errorf("failed to read backup flag: %w", err)
	}
	return ok, nil
}

// SetBackupFlag stores the backup flag of identity.
func (s *Store) SetBackupFlag(identity string, done bool) error {
	if identity == "" {
		return fmt.Errorf("identity is required")
	}
	if err := s.backend.Set(backupPrefix+identity, strconv.FormatBool(done)); err != nil {
		return fmt.Errorf("failed to write backup flag: %w", err)
	}
	return nil
}

// RemoveBackupFlag deletes the backup flag of identity.
func (s *Store) RemoveBackupFlag(identity string) error {
	if err := s.backend.Remove(backupPrefix + identity); err != nil {
		return fmt.Errorf("failed to remove backup flag: %w", err)
	}
	return nil
}

// StoredIdentities lists every identity that has a seed record.
func (s *Store) StoredIdentities() ([]string, error) {
	keys, err := s.backend.Keys(seedPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		id := strings.TrimPrefix(k, seedPrefix)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FindAnyStoredIdentity returns the first identity with a seed record, or ""
// when the device holds none.
func (s *Store) FindAnyStoredIdentity() (string, error) {
	ids, err := s.StoredIdentities()
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// SavePasswordPreference returns whether the user opted to escrow their
// password server-side.
func (s *Store) SavePasswordPreference() (bool, error) {
	v, ok, err := s.backend.Get(savePasswordKey)
	if err != nil {
		return false, fmt.Errorf("failed to read password preference: %w", err)
	}
	if !ok {
		return false, nil
	}
	save, _ := strconv.ParseBool(v)
	return save, nil
}

// SetSavePasswordPreference stores the escrow preference.
func (s *Store) SetSavePasswordPreference(save bool) error {
	if err := s.backend.Set(savePasswordKey, strconv.FormatBool(save)); err != nil {
		return fmt.Errorf("failed to write password preference: %w", err)
	}
	return nil
}

// CachedAddress returns the last known wallet address on this device.
func (s *Store) CachedAddress() (string, error) {
	v, _, err := s.backend.Get(addressKey)
	if err != nil {
		return "", fmt.Errorf("failed to read cached address: %w", err)
	}
	return v, nil
}

// SetCachedAddress remembers the wallet address.
func (s *Store) SetCachedAddress(address string) error {
	if err := s.backend.Set(addressKey, address); err != nil {
		return fmt.Errorf("failed to write cached address: %w", err)
	}
	return nil
}

// PseudoIdentity returns the persisted browser pseudo-identity, if any.
func (s *Store) PseudoIdentity() (string, error) {
	v, _, err := s.backend.Get(pseudoIdentityKey)
	if err != nil {
		return "", fmt.Errorf("failed to read pseudo identity: %w", err)
	}
	return v, nil
}

// SetPseudoIdentity persists the browser pseudo-identity.
func (s *Store) SetPseudoIdentity(id string) error {
	if err := s.backend.Set(pseudoIdentityKey, id); err != nil {
		return fmt.Errorf("failed to write pseudo identity: %w", err)
	}
	return nil
}

// RemovePseudoIdentity forgets the browser pseudo-identity.
func (s *Store) RemovePseudoIdentity() error {
	if err := s.backend.Remove(pseudoIdentityKey); err != nil {
		return fmt.Errorf("failed to remove pseudo identity: %w", err)
	}
	return nil
}

// ClearAll irreversibly removes every wallet key from the device.
func (s *Store) ClearAll() (int, error) {
	removed := 0
	for _, prefix := range walletPrefixes {
		keys, err := s.backend.Keys(prefix)
		if err != nil {
			return removed, fmt.Errorf("failed to list %s keys: %w", prefix, err)
		}
		for _, k := range keys {
			if err := s.backend.Remove(k); err != nil {
				return removed, fmt.Errorf("failed to remove key: %w", err)
			}
			removed++
		}
	}
	return removed, nil
}
