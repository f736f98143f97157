package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/AlexZinkM/seedkeeper/internal/keystore"
	"github.com/AlexZinkM/seedkeeper/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const addrA = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

var browser = Platform{Mode: ModeBrowser}

func setup(t *testing.T) (*Resolver, *keystore.Store) {
	store := keystore.New(storage.NewMemoryBackend())
	return NewResolver(store, zerolog.Nop()), store
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeBrowser, m)

	m, err = ParseMode("embedded")
	require.NoError(t, err)
	require.Equal(t, ModeEmbedded, m)

	_, err = ParseMode("desktop")
	require.Error(t, err)
}

func TestResolve_Embedded(t *testing.T) {
	r, _ := setup(t)

	id, err := r.Resolve(Platform{Mode: ModeEmbedded, AccountID: "777000"}, addrA)
	require.NoError(t, err)
	require.Equal(t, "777000", id)

	id, err = r.Resolve(Platform{Mode: ModeEmbedded}, addrA)
	require.NoError(t, err)
	require.Empty(t, id)
}

func TestResolve_BrowserOrder(t *testing.T) {
	r, store := setup(t)

	// nothing known: a pseudo identity is minted and persisted
	pseudo, err := r.Resolve(browser, "")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(pseudo, "web-"))

	again, err := r.Resolve(browser, "")
	require.NoError(t, err)
	require.Equal(t, pseudo, again)

	// stored key material wins over the pseudo identity
	require.NoError(t, store.SetSeed("0xStored", "ct"))
	id, err := r.Resolve(browser, "")
	require.NoError(t, err)
	require.Equal(t, "0xStored", id)

	// the cached address wins over stored material
	require.NoError(t, store.SetCachedAddress(addrA))
	id, err = r.Resolve(browser, "")
	require.NoError(t, err)
	require.Equal(t, addrA, id)

	// an explicit address wins over everything
	id, err = r.Resolve(browser, "0xExplicit")
	require.NoError(t, err)
	require.Equal(t, "0xExplicit", id)
}

func TestMigrate(t *testing.T) {
	r, store := setup(t)

	pseudo, err := r.Resolve(browser, "")
	require.NoError(t, err)
	require.NoError(t, store.SetSeed(pseudo, "ct"))
	require.NoError(t, store.SetBackupFlag(pseudo, true))

	require.NoError(t, r.Migrate(pseudo, addrA))

	ct, ok, err := store.Seed(addrA)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ct", ct)
	done, err := store.BackupFlag(addrA)
	require.NoError(t, err)
	require.True(t, done)

	_, ok, err = store.Seed(pseudo)
	require.NoError(t, err)
	require.False(t, ok)
	has, err := store.HasBackupFlag(pseudo)
	require.NoError(t, err)
	require.False(t, has)

	left, err := store.PseudoIdentity()
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestMigrate_Noop(t *testing.T) {
	r, store := setup(t)
	require.NoError(t, store.SetSeed(addrA, "ct"))

	require.NoError(t, r.Migrate(addrA, addrA))
	require.NoError(t, r.Migrate("", addrA))
	require.NoError(t, r.Migrate("web-nothing", addrA))

	ct, ok, err := store.Seed(addrA)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ct", ct)
}

// failingBackend rejects writes to one key so the copy step fails.
type failingBackend struct {
	storage.Backend
	failKey string
}

func (f failingBackend) Set(key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Backend.Set(key, value)
}

func TestMigrate_FailedCopyKeepsSource(t *testing.T) {
	backend := failingBackend{Backend: storage.NewMemoryBackend(), failKey: "seed:" + addrA}
	store := keystore.New(backend)
	r := NewResolver(store, zerolog.Nop())

	require.NoError(t, store.SetSeed("web-1", "ct"))
	require.Error(t, r.Migrate("web-1", addrA))

	ct, ok, err := store.Seed("web-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ct", ct)
}

func TestAdopt(t *testing.T) {
	r, store := setup(t)

	pseudo, err := r.Resolve(browser, "")
	require.NoError(t, err)
	require.NoError(t, store.SetSeed(pseudo, "ct"))

	id, err := r.Adopt(browser, pseudo, addrA)
	require.NoError(t, err)
	require.Equal(t, addrA, id)

	cached, err := store.CachedAddress()
	require.NoError(t, err)
	require.Equal(t, addrA, cached)

	resolved, err := r.Resolve(browser, "")
	require.NoError(t, err)
	require.Equal(t, addrA, resolved)

	embedded := Platform{Mode: ModeEmbedded, AccountID: "42"}
	id, err = r.Adopt(embedded, "42", addrA)
	require.NoError(t, err)
	require.Equal(t, "42", id)
}

func TestDetectConflict(t *testing.T) {
	r, store := setup(t)

	require.NoError(t, r.DetectConflict(browser, addrA))

	require.NoError(t, store.SetSeed(addrA, "ct"))
	require.NoError(t, r.DetectConflict(browser, addrA))

	// a second identity blocks everyone, whichever is current
	require.NoError(t, store.SetSeed("0xOther", "ct"))
	require.ErrorIs(t, r.DetectConflict(browser, addrA), ErrIdentityConflict)
	require.ErrorIs(t, r.DetectConflict(browser, "0xOther"), ErrIdentityConflict)
	require.ErrorIs(t, r.DetectConflict(Platform{Mode: ModeEmbedded, AccountID: "1"}, "1"), ErrIdentityConflict)
}

func TestDetectConflict_Embedded(t *testing.T) {
	r, store := setup(t)
	p := Platform{Mode: ModeEmbedded, AccountID: "1001"}

	require.NoError(t, store.SetSeed("1001", "ct"))
	require.NoError(t, r.DetectConflict(p, "1001"))

	other := Platform{Mode: ModeEmbedded, AccountID: "2002"}
	require.ErrorIs(t, r.DetectConflict(other, "2002"), ErrIdentityConflict)
}

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{Mode: ModeEmbedded, AccountID: "9"}
	require.Equal(t, Platform{Mode: ModeEmbedded, AccountID: "9"}, p.Platform())
}
