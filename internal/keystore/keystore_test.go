package keystore

import (
	"testing"

	"github.com/AlexZinkM/seedkeeper/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	return New(storage.NewMemoryBackend())
}

func TestStore_Seed(t *testing.T) {
	s := newStore(t)

	_, ok, err := s.Seed("alice")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetSeed("alice", "ct"))
	ct, ok, err := s.Seed("alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ct", ct)

	require.NoError(t, s.RemoveSeed("alice"))
	_, ok, err = s.Seed("alice")
	require.NoError(t, err)
	require.False(t, ok)

	require.Error(t, s.SetSeed("", "ct"))
	require.Error(t, s.SetSeed("alice", ""))
}

func TestStore_BackupFlag(t *testing.T) {
	s := newStore(t)

	done, err := s.BackupFlag("alice")
	require.NoError(t, err)
	require.False(t, done)

	has, err := s.HasBackupFlag("alice")
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, s.SetBackupFlag("alice", true))
	done, err = s.BackupFlag("alice")
	require.NoError(t, err)
	require.True(t, done)

	require.NoError(t, s.SetBackupFlag("alice", false))
	done, err = s.BackupFlag("alice")
	require.NoError(t, err)
	require.False(t, done)

	require.NoError(t, s.RemoveBackupFlag("alice"))
	has, err = s.HasBackupFlag("alice")
	require.NoError(t, err)
	require.False(t, has)

	// garbage reads as false
	require.NoError(t, s.Backend().Set("backup:bob", "maybe"))
	done, err = s.BackupFlag("bob")
	require.NoError(t, err)
	require.False(t, done)
}

func TestStore_FindAnyStoredIdentity(t *testing.T) {
	s := newStore(t)

	id, err := s.FindAnyStoredIdentity()
	require.NoError(t, err)
	require.Empty(t, id)

	// backup flags alone are not key material
	require.NoError(t, s.SetBackupFlag("ghost", true))
	id, err = s.FindAnyStoredIdentity()
	require.NoError(t, err)
	require.Empty(t, id)

	require.NoError(t, s.SetSeed("0xB0b", "ct"))
	require.NoError(t, s.SetSeed("0xA11ce", "ct"))

	id, err = s.FindAnyStoredIdentity()
	require.NoError(t, err)
	require.Equal(t, "0xA11ce", id)

	ids, err := s.StoredIdentities()
	require.NoError(t, err)
	require.Equal(t, []string{"0xA11ce", "0xB0b"}, ids)
}

func TestStore_Preferences(t *testing.T) {
	s := newStore(t)

	save, err := s.SavePasswordPreference()
	require.NoError(t, err)
	require.False(t, save)
	require.NoError(t, s.SetSavePasswordPreference(true))
	save, err = s.SavePasswordPreference()
	require.NoError(t, err)
	require.True(t, save)

	require.NoError(t, s.SetCachedAddress("0xabc"))
	addr, err := s.CachedAddress()
	require.NoError(t, err)
	require.Equal(t, "0xabc", addr)

	require.NoError(t, s.SetPseudoIdentity("web-1"))
	pseudo, err := s.PseudoIdentity()
	require.NoError(t, err)
	require.Equal(t, "web-1", pseudo)
	require.NoError(t, s.RemovePseudoIdentity())
	pseudo, err = s.PseudoIdentity()
	require.NoError(t, err)
	require.Empty(t, pseudo)
}

func TestStore_ClearAll(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.SetSeed("alice", "ct"))
	require.NoError(t, s.SetBackupFlag("alice", true))
	require.NoError(t, s.SetSavePasswordPreference(true))
	require.NoError(t, s.SetCachedAddress("0xabc"))
	require.NoError(t, s.SetPseudoIdentity("web-1"))
	require.NoError(t, s.Backend().Set("theme", "dark"))

	removed, err := s.ClearAll()
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	ids, err := s.StoredIdentities()
	require.NoError(t, err)
	assert.Empty(t, ids)

	// unrelated application keys survive
	v, ok, err := s.Backend().Get("theme")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "dark", v)
}
