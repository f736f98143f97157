// Package backup tracks whether a user has confirmed their mnemonic.
package backup

import (
	"github.com/AlexZinkM/seedkeeper/internal/keystore"
)

// Tracker is the per-identity backup state. The flag only becomes true
// through MarkBackedUp, which the onboarding wizard calls as the final step
// of a successful seed confirmation.
type Tracker struct {
	store *keystore.Store
}

// NewTracker creates a tracker over store.
func NewTracker(store *keystore.Store) *Tracker {
	return &Tracker{store: store}
}

// IsBackupNeeded is true iff a wallet is known for identity and its backup
// flag is not set. Without a wallet a backup is never needed.
func (t *Tracker) IsBackupNeeded(identity string, hasWallet bool) (bool, error) {
	if !hasWallet || identity == "" {
		return false, nil
	}
	done, err := t.store.BackupFlag(identity)
	if err != nil {
		return false, err
	}
	return !done, nil
}

// IsBackedUp reports the stored flag.
func (t *Tracker) IsBackedUp(identity string) (bool, error) {
	return t.store.BackupFlag(identity)
}

// MarkBackedUp records a successful seed confirmation.
func (t *Tracker) MarkBackedUp(identity string) error {
	return t.store.SetBackupFlag(identity, true)
}

// MarkNotBackedUp resets the flag after a password reset installed a
// possibly different mnemonic.
func (t *Tracker) MarkNotBackedUp(identity string) error {
	return t.store.SetBackupFlag(identity, false)
}
