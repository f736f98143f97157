package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlexZinkM/seedkeeper/custody"
	"github.com/AlexZinkM/seedkeeper/internal/crypto"
	"github.com/AlexZinkM/seedkeeper/internal/identity"
	"github.com/AlexZinkM/seedkeeper/internal/keystore"
	"github.com/AlexZinkM/seedkeeper/internal/storage"
	"github.com/AlexZinkM/seedkeeper/internal/wallet"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	cipher, err := crypto.NewSeedCipher("test-salt", crypto.FormatLegacy)
	require.NoError(t, err)
	factory, err := wallet.NewFactory(wallet.ChainEVM, cipher)
	require.NoError(t, err)
	svc, err := custody.New(custody.Options{
		Store:    keystore.New(storage.NewMemoryBackend()),
		Cipher:   cipher,
		Factory:  factory,
		Platform: identity.StaticProvider{Mode: identity.ModeBrowser},
		Log:      zerolog.Nop(),
	})
	require.NoError(t, err)
	defer svc.Close()

	srv := httptest.NewServer(SetupRouter(svc, zerolog.Nop()))
	defer srv.Close()

	for path, want := range map[string]int{
		"/livez":              http.StatusOK,
		"/wallet/status":      http.StatusOK,
		"/swagger/doc.json":   http.StatusOK,
		"/wallet":             http.StatusForbidden,
		"/does-not-exist":     http.StatusNotFound,
		"/onboarding/missing": http.StatusNotFound,
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, want, resp.StatusCode, path)
	}
}
