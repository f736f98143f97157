package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_SALT", "salt")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", c.Port)
	require.Equal(t, "bolt://seedkeeper.db", c.StorageURI)
	require.Equal(t, "legacy", c.SeedCipherFormat)
	require.Equal(t, 1<<18, c.ScryptN)
	require.Equal(t, "evm", c.WalletChain)
	require.Equal(t, "browser", c.PlatformMode)
	require.Equal(t, 6, c.MinPasswordLength)
	require.Equal(t, 15*time.Second, c.BackendTimeout)
	require.Equal(t, 10*time.Minute, c.SessionRefreshInterval)
	require.False(t, c.BackendEnabled())
}

func TestLoad_RequiresSalt(t *testing.T) {
	t.Setenv("APP_SALT", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("APP_SALT", "salt")

	t.Setenv("SCRYPT_N", "1000")
	_, err := Load()
	require.ErrorContains(t, err, "SCRYPT_N")

	t.Setenv("SCRYPT_N", "2097152")
	_, err = Load()
	require.ErrorContains(t, err, "SCRYPT_N")

	t.Setenv("SCRYPT_N", "1024")
	t.Setenv("MIN_PASSWORD_LENGTH", "0")
	_, err = Load()
	require.ErrorContains(t, err, "MIN_PASSWORD_LENGTH")
}

func TestInitGet(t *testing.T) {
	t.Setenv("APP_SALT", "salt")
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND_URL", "http://localhost:3000")

	require.NoError(t, Init())
	require.Equal(t, "9090", GetPort())
	require.Equal(t, "bolt://seedkeeper.db", GetStorageURI())
	require.True(t, Get().BackendEnabled())
}
