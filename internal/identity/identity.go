// Package identity resolves the key under which a user's wallet data is
// namespaced on this device, migrates data between identities and detects
// devices holding more than one wallet.
package identity

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/seedkeeper/internal/common"
	"github.com/AlexZinkM/seedkeeper/internal/keystore"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Mode is the platform the client runs in.
type Mode string

const (
	// ModeBrowser namespaces data by wallet address.
	ModeBrowser Mode = "browser"
	// ModeEmbedded namespaces data by the host platform's account id
	// (e.g. a Telegram Mini App user).
	ModeEmbedded Mode = "embedded"
)

// ParseMode validates a platform mode. The empty string selects ModeBrowser.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBrowser, "":
		return ModeBrowser, nil
	case ModeEmbedded:
		return ModeEmbedded, nil
	default:
		return "", fmt.Errorf("unsupported platform mode %q", s)
	}
}

// Platform is the context supplied by the host.
type Platform struct {
	Mode      Mode
	AccountID string
	// UserName is the host's display name for the user, if it has one.
	UserName string
}

// Provider supplies the platform context.
type Provider interface {
	Platform() Platform
}

// StaticProvider is a Provider returning a fixed context.
type StaticProvider Platform

func (p StaticProvider) Platform() Platform { return Platform(p) }

var (
	// ErrIdentityConflict means key material for more than one identity
	// exists on this device. Only a full data clear recovers.
	ErrIdentityConflict = errors.New("multiple wallet identities stored on this device")
	// ErrMigrationVerify means the copied record did not read back intact;
	// the source entries are left in place.
	ErrMigrationVerify = errors.New("migrated record failed verification")
)

// Resolver implements identity resolution on top of the key store.
type Resolver struct {
	store *keystore.Store
	log   zerolog.Logger
}

// NewResolver creates a resolver.
func NewResolver(store *keystore.Store, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// Resolve returns the identity for p.
//
// Embedded mode: the account id, or "" when the host did not provide one.
//
// Browser mode, first match wins: storedAddress, the cached address, any
// identity that already has key material, the persisted pseudo-identity,
// and finally a freshly minted "web-<uuid>" that is persisted immediately so
// an unfinished flow keeps its namespace across restarts.
func (r *Resolver) Resolve(p Platform, storedAddress string) (string, error) {
	if p.Mode == ModeEmbedded {
		return p.AccountID, nil
	}

	if storedAddress != "" {
		return storedAddress, nil
	}

	cached, err := r.store.CachedAddress()
	if err != nil {
		return "", err
	}
	if cached != "" {
		return cached, nil
	}

	existing, err := r.store.FindAnyStoredIdentity()
	if err != nil {
		return "", err
	}
	if existing != "" {
		return existing, nil
	}

	pseudo, err := r.store.PseudoIdentity()
	if err != nil {
		return "", err
	}
	if pseudo != "" {
		return pseudo, nil
	}

	pseudo = common.PseudoIdentityPrefix + uuid.NewString()
	if err := r.store.SetPseudoIdentity(pseudo); err != nil {
		return "", err
	}
	r.log.Debug().Str("identity", pseudo).Msg("Minted pseudo identity")
	return pseudo, nil
}

// Migrate moves the seed record and backup flag from one identity to
// another. The new entries are written and read back before the old ones are
// deleted, so an interruption leaves the data under at least one identity.
// Migrating onto an identity that already holds a different seed overwrites
// it; callers decide whether that is allowed.
func (r *Resolver) Migrate(from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}

	ct, hasSeed, err := r.store.Seed(from)
	if err != nil {
		return err
	}
	hasFlag, err := r.store.HasBackupFlag(from)
	if err != nil {
		return err
	}
	flag, err := r.store.BackupFlag(from)
	if err != nil {
		return err
	}

	if hasSeed {
		if err := r.store.SetSeed(to, ct); err != nil {
			return err
		}
		got, ok, err := r.store.Seed(to)
		if err != nil {
			return err
		}
		if !ok || got != ct {
			return ErrMigrationVerify
		}
	}
	if hasFlag {
		if err := r.store.SetBackupFlag(to, flag); err != nil {
			return err
		}
		got, err := r.store.BackupFlag(to)
		if err != nil {
			return err
		}
		if got != flag {
			return ErrMigrationVerify
		}
	}

	if hasSeed {
		if err := r.store.RemoveSeed(from); err != nil {
			return err
		}
	}
	if hasFlag {
		if err := r.store.RemoveBackupFlag(from); err != nil {
			return err
		}
	}
	if common.IsPseudoIdentity(from) {
		pseudo, err := r.store.PseudoIdentity()
		if err != nil {
			return err
		}
		if pseudo == from {
			if err := r.store.RemovePseudoIdentity(); err != nil {
				return err
			}
		}
	}

	r.log.Info().
		Str("from", common.ShortID(from)).
		Str("to", common.ShortID(to)).
		Bool("seed", hasSeed).
		Bool("backup_flag", hasFlag).
		Msg("Migrated wallet identity")
	return nil
}

// Adopt records address as the browser wallet's identity: data stored under
// current (a pseudo-identity or a previous address) is migrated to address
// and the cached address is updated. In embedded mode it only refreshes the
// cached address. It returns the identity now in effect.
func (r *Resolver) Adopt(p Platform, current, address string) (string, error) {
	if err := r.store.SetCachedAddress(address); err != nil {
		return "", err
	}
	if p.Mode == ModeEmbedded {
		return current, nil
	}
	if err := r.Migrate(current, address); err != nil {
		return "", fmt.Errorf("failed to migrate identity: %w", err)
	}
	return address, nil
}

// DetectConflict returns ErrIdentityConflict when the device holds key
// material for more than one identity, or, in embedded mode, for a real
// identity other than current. Pseudo-identities never conflict with the
// current identity in browser mode because they are migrated away.
func (r *Resolver) DetectConflict(p Platform, current string) error {
	ids, err := r.store.StoredIdentities()
	if err != nil {
		return err
	}
	if len(ids) > 1 {
		r.log.Warn().Int("identities", len(ids)).Msg("Multiple wallet identities on device")
		return ErrIdentityConflict
	}
	if len(ids) == 1 && p.Mode == ModeEmbedded && ids[0] != current && !common.IsPseudoIdentity(ids[0]) {
		r.log.Warn().Str("stored", common.ShortID(ids[0])).Msg("Device holds another account's wallet")
		return ErrIdentityConflict
	}
	return nil
}
